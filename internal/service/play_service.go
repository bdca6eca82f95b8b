package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ligaflagmx/liga-api/internal/domain"
	"github.com/ligaflagmx/liga-api/internal/ledger"
	"github.com/ligaflagmx/liga-api/internal/roster"
)

// PlayInput is one play submission.
type PlayInput struct {
	Tipo               domain.PlayType
	EquipoEnPosesionID string
	MinutoJuego        string
	NumeroPrincipal    roster.NumberRef
	NumeroSecundario   roster.NumberRef
	NumeroTouchdown    roster.NumberRef
	Touchdown          bool
	Descripcion        string
}

// AppendPlay registers a play against a live match. Roster misses come
// back as warnings on an otherwise successful registration; the play is
// stored with a nil player reference in that case.
func (s *MatchService) AppendPlay(ctx context.Context, matchID string, in PlayInput, actor Actor) (*domain.Play, []string, error) {
	if !s.auth.IsPrivileged(actor.Rol) {
		return nil, nil, domain.ErrForbidden
	}
	if !domain.ValidPlayType(in.Tipo) {
		return nil, nil, &domain.ValidationError{Field: "tipoJugada", Reason: "unknown play type " + string(in.Tipo)}
	}
	if in.EquipoEnPosesionID == "" {
		return nil, nil, &domain.ValidationError{Field: "equipoEnPosesion", Reason: "required"}
	}

	outcome, err := domain.ApplyPlayType(in.Tipo, in.Touchdown)
	if err != nil {
		return nil, nil, err
	}

	unlock := s.lock(matchID)
	defer unlock()

	var (
		result   *domain.Play
		warnings []string
	)
	err = s.retryConflict(func() error {
		m, err := s.store.GetMatch(ctx, matchID)
		if err != nil {
			return err
		}
		if !m.Estado.Live() {
			return domain.ErrMatchNotLive
		}
		if !m.HasTeam(in.EquipoEnPosesionID) {
			return &domain.ValidationError{
				Field:  "equipoEnPosesion",
				Reason: fmt.Sprintf("team %s is not playing in this match", in.EquipoEnPosesionID),
			}
		}

		warnings = warnings[:0]

		// The principal and touchdown scorer are on the credited team; the
		// secondary player's roster depends on the play type (a defender
		// acts against the team in possession).
		secondaryTeam := in.EquipoEnPosesionID
		if domain.SecondaryOnOpposingTeam(in.Tipo) {
			secondaryTeam = m.OpposingTeam(in.EquipoEnPosesionID)
		}
		principal, err := s.resolvePlayer(ctx, in.EquipoEnPosesionID, in.NumeroPrincipal, "jugador principal", &warnings)
		if err != nil {
			return err
		}
		secundario, err := s.resolvePlayer(ctx, secondaryTeam, in.NumeroSecundario, "jugador secundario", &warnings)
		if err != nil {
			return err
		}
		anotador, err := s.resolvePlayer(ctx, in.EquipoEnPosesionID, in.NumeroTouchdown, "jugador touchdown", &warnings)
		if err != nil {
			return err
		}

		p := &domain.Play{
			ID:                 uuid.NewString(),
			MinutoJuego:        in.MinutoJuego,
			Tipo:               in.Tipo,
			EquipoEnPosesionID: in.EquipoEnPosesionID,
			JugadorPrincipal:   principal,
			JugadorSecundario:  secundario,
			JugadorTouchdown:   anotador,
			Touchdown:          outcome.Touchdown,
			Intercepcion:       outcome.Intercepcion,
			Sack:               outcome.Sack,
			Puntos:             outcome.Puntos,
			Descripcion:        in.Descripcion,
			RegistradoPor:      actor.ID,
			RegistradoEn:       time.Now().UTC(),
		}
		if err := ledger.Append(m, p); err != nil {
			return err
		}
		m.ModificadoPor = actor.ID
		m.ModificadoEn = p.RegistradoEn
		if err := s.store.AppendPlay(ctx, m, p); err != nil {
			return err
		}
		result = p
		s.mirror.Publish(ctx, m, "jugada", p.Secuencia)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("play recorded",
		"match_id", matchID, "tipo", in.Tipo, "secuencia", result.Secuencia,
		"puntos", result.Puntos, "warnings", len(warnings), "actor", actor.ID)
	return result, warnings, nil
}

// resolvePlayer turns a roster miss into a warning and an omitted number
// into a silent nil.
func (s *MatchService) resolvePlayer(ctx context.Context, teamID string, numero roster.NumberRef, campo string, warnings *[]string) (*domain.PlayerRef, error) {
	res, err := s.resolver.Resolve(ctx, teamID, numero)
	if err != nil {
		return nil, err
	}
	if res.Omitted {
		return nil, nil
	}
	if !res.Found {
		*warnings = append(*warnings,
			fmt.Sprintf("%s: no se encontró jugador con número %d en el equipo %s", campo, res.Numero, teamID))
		return nil, nil
	}
	return &domain.PlayerRef{JugadorID: res.Player.ID, Nombre: res.Player.Nombre, Numero: res.Player.Numero}, nil
}

// DeletePlay removes a play by id and fully recomputes the score from the
// remaining ledger.
func (s *MatchService) DeletePlay(ctx context.Context, matchID, playID string, actor Actor) (*domain.Match, error) {
	if !s.auth.IsPrivileged(actor.Rol) {
		return nil, domain.ErrForbidden
	}

	unlock := s.lock(matchID)
	defer unlock()

	var result *domain.Match
	err := s.retryConflict(func() error {
		m, err := s.store.GetMatch(ctx, matchID)
		if err != nil {
			return err
		}
		if _, err := ledger.RemoveByID(m, playID); err != nil {
			return err
		}
		m.ModificadoPor = actor.ID
		m.ModificadoEn = time.Now().UTC()
		if err := s.store.DeletePlay(ctx, m, playID); err != nil {
			return err
		}
		result = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.mirror.Publish(ctx, result, "jugada_eliminada", 0)
	s.logger.Info("play deleted", "match_id", matchID, "play_id", playID, "actor", actor.ID)
	return result, nil
}

// DeleteLastPlay removes the most recent play, decrementing the score by
// exactly that play's points (floored at zero). Deliberately a different
// algorithm from DeletePlay.
func (s *MatchService) DeleteLastPlay(ctx context.Context, matchID string, actor Actor) (*domain.Match, error) {
	if !s.auth.IsPrivileged(actor.Rol) {
		return nil, domain.ErrForbidden
	}

	unlock := s.lock(matchID)
	defer unlock()

	var result *domain.Match
	err := s.retryConflict(func() error {
		m, err := s.store.GetMatch(ctx, matchID)
		if err != nil {
			return err
		}
		removed, err := ledger.RemoveLast(m)
		if err != nil {
			return err
		}
		m.ModificadoPor = actor.ID
		m.ModificadoEn = time.Now().UTC()
		if err := s.store.DeletePlay(ctx, m, removed.ID); err != nil {
			return err
		}
		result = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.mirror.Publish(ctx, result, "jugada_eliminada", 0)
	s.logger.Info("last play deleted", "match_id", matchID, "actor", actor.ID)
	return result, nil
}
