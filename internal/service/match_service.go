// Package service orchestrates the core operations: match lifecycle, play
// registration, and schedule generation. All mutations of one match are
// serialized behind a per-match mutex; the store's optimistic version
// check is the cross-process backstop, retried once here.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ligaflagmx/liga-api/internal/directory"
	"github.com/ligaflagmx/liga-api/internal/domain"
	"github.com/ligaflagmx/liga-api/internal/live"
	"github.com/ligaflagmx/liga-api/internal/roster"
	"github.com/ligaflagmx/liga-api/internal/store"
)

// Actor identifies the caller; authentication and role resolution happen
// upstream, the values arrive on trusted gateway headers.
type Actor struct {
	ID  string
	Rol string
}

// MatchStore is the persistence surface the service needs.
type MatchStore interface {
	GetMatch(ctx context.Context, id string) (*domain.Match, error)
	ListMatches(ctx context.Context, f store.Filter) ([]domain.Match, error)
	InsertMatch(ctx context.Context, m *domain.Match) error
	InsertMatches(ctx context.Context, matches []domain.Match) error
	UpdateMatch(ctx context.Context, m *domain.Match) error
	AppendPlay(ctx context.Context, m *domain.Match, p *domain.Play) error
	DeletePlay(ctx context.Context, m *domain.Match, playID string) error
	DeleteMatch(ctx context.Context, id string) error
	DeleteScheduled(ctx context.Context, torneoID, categoria string) (int64, error)
}

type MatchService struct {
	store       MatchStore
	teams       directory.Teams
	tournaments directory.Tournaments
	referees    directory.Referees
	auth        directory.Authorizer
	resolver    *roster.Resolver
	mirror      *live.Mirror
	logger      *slog.Logger

	locks sync.Map // match id -> *sync.Mutex
}

func NewMatchService(
	st MatchStore,
	teams directory.Teams,
	tournaments directory.Tournaments,
	referees directory.Referees,
	auth directory.Authorizer,
	resolver *roster.Resolver,
	mirror *live.Mirror,
	logger *slog.Logger,
) *MatchService {
	return &MatchService{
		store:       st,
		teams:       teams,
		tournaments: tournaments,
		referees:    referees,
		auth:        auth,
		resolver:    resolver,
		mirror:      mirror,
		logger:      logger,
	}
}

// lock serializes mutations per match id. Needed so sequence assignment,
// score recomputation, and transitions never interleave for one match.
func (s *MatchService) lock(id string) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// --------------------------------------------------------------------------
// Match CRUD
// --------------------------------------------------------------------------

// CreateMatchInput is a manual match creation, outside the generator.
type CreateMatchInput struct {
	TorneoID          string
	Categoria         string
	EquipoLocalID     string
	EquipoVisitanteID string
	FechaHora         time.Time
	DuracionMin       int
	Sede              *domain.Venue
	Arbitros          []domain.RefereeAssignment
}

func (s *MatchService) CreateMatch(ctx context.Context, in CreateMatchInput, actor Actor) (*domain.Match, error) {
	if !s.auth.IsPrivileged(actor.Rol) {
		return nil, domain.ErrForbidden
	}
	if in.TorneoID == "" {
		return nil, &domain.ValidationError{Field: "torneoId", Reason: "required"}
	}
	if in.EquipoLocalID == "" || in.EquipoVisitanteID == "" {
		return nil, &domain.ValidationError{Field: "equipos", Reason: "both teams are required"}
	}
	if in.EquipoLocalID == in.EquipoVisitanteID {
		return nil, &domain.ValidationError{Field: "equipos", Reason: "a team cannot play itself"}
	}
	if in.FechaHora.IsZero() {
		return nil, &domain.ValidationError{Field: "fechaHora", Reason: "required"}
	}
	if err := s.validateArbitros(ctx, in.Arbitros); err != nil {
		return nil, err
	}

	ok, err := s.tournaments.Exists(ctx, in.TorneoID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("tournament %s: %w", in.TorneoID, domain.ErrNotFound)
	}
	for _, teamID := range []string{in.EquipoLocalID, in.EquipoVisitanteID} {
		if _, err := s.teams.Team(ctx, teamID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	m := &domain.Match{
		ID:                uuid.NewString(),
		TorneoID:          in.TorneoID,
		Categoria:         in.Categoria,
		EquipoLocalID:     in.EquipoLocalID,
		EquipoVisitanteID: in.EquipoVisitanteID,
		FechaHora:         in.FechaHora,
		DuracionMin:       in.DuracionMin,
		Sede:              in.Sede,
		Arbitros:          in.Arbitros,
		Estado:            domain.StatusProgramado,
		CreadoPor:         actor.ID,
		CreadoEn:          now,
		ModificadoEn:      now,
	}
	if err := s.store.InsertMatch(ctx, m); err != nil {
		return nil, err
	}
	s.logger.Info("match created", "match_id", m.ID, "torneo", m.TorneoID, "actor", actor.ID)
	return m, nil
}

// UpdateMatchInput carries the editable match fields; nil means unchanged.
type UpdateMatchInput struct {
	FechaHora   *time.Time
	DuracionMin *int
	Sede        *domain.Venue
	Arbitros    []domain.RefereeAssignment
	Observacion string
}

// UpdateMatch edits scheduling fields. Once a match has left programado
// those fields are frozen for non-privileged callers; they may still add
// observations.
func (s *MatchService) UpdateMatch(ctx context.Context, id string, in UpdateMatchInput, actor Actor) (*domain.Match, error) {
	if in.Arbitros != nil {
		if err := s.validateArbitros(ctx, in.Arbitros); err != nil {
			return nil, err
		}
	}

	unlock := s.lock(id)
	defer unlock()

	var result *domain.Match
	err := s.retryConflict(func() error {
		m, err := s.store.GetMatch(ctx, id)
		if err != nil {
			return err
		}
		editsFields := in.FechaHora != nil || in.DuracionMin != nil || in.Sede != nil || in.Arbitros != nil
		if editsFields && m.Estado != domain.StatusProgramado && !s.auth.IsPrivileged(actor.Rol) {
			return domain.ErrForbidden
		}
		now := time.Now().UTC()
		if in.FechaHora != nil {
			m.FechaHora = *in.FechaHora
		}
		if in.DuracionMin != nil {
			m.DuracionMin = *in.DuracionMin
		}
		if in.Sede != nil {
			m.Sede = in.Sede
		}
		if in.Arbitros != nil {
			m.Arbitros = in.Arbitros
		}
		if in.Observacion != "" {
			m.Observe(actor.ID, in.Observacion, now)
		}
		m.ModificadoPor = actor.ID
		m.ModificadoEn = now
		if err := s.store.UpdateMatch(ctx, m); err != nil {
			return err
		}
		result = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetMatch returns a match with its full ledger.
func (s *MatchService) GetMatch(ctx context.Context, id string) (*domain.Match, error) {
	return s.store.GetMatch(ctx, id)
}

// ListMatches returns matches matching the filter, without ledgers.
func (s *MatchService) ListMatches(ctx context.Context, f store.Filter) ([]domain.Match, error) {
	return s.store.ListMatches(ctx, f)
}

// DeleteMatch removes a match, only allowed while still programado.
func (s *MatchService) DeleteMatch(ctx context.Context, id string, actor Actor) error {
	if !s.auth.IsPrivileged(actor.Rol) {
		return domain.ErrForbidden
	}
	unlock := s.lock(id)
	defer unlock()
	if err := s.store.DeleteMatch(ctx, id); err != nil {
		return err
	}
	s.mirror.Forget(ctx, id)
	s.logger.Info("match deleted", "match_id", id, "actor", actor.ID)
	return nil
}

// --------------------------------------------------------------------------
// State transitions
// --------------------------------------------------------------------------

// Transition moves the match to target. Privileged roles only. A non-empty
// motivo is appended to the observation log with a timestamp.
func (s *MatchService) Transition(ctx context.Context, id string, target domain.Status, motivo string, actor Actor) (*domain.Match, error) {
	if !s.auth.IsPrivileged(actor.Rol) {
		return nil, domain.ErrForbidden
	}

	unlock := s.lock(id)
	defer unlock()

	var result *domain.Match
	err := s.retryConflict(func() error {
		m, err := s.store.GetMatch(ctx, id)
		if err != nil {
			return err
		}
		from := m.Estado
		if err := m.Transition(target); err != nil {
			return err
		}
		now := time.Now().UTC()
		if motivo != "" {
			m.Observe(actor.ID, fmt.Sprintf("%s → %s: %s", from, target, motivo), now)
		}
		m.ModificadoPor = actor.ID
		m.ModificadoEn = now
		if err := s.store.UpdateMatch(ctx, m); err != nil {
			return err
		}
		result = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.mirror.Publish(ctx, result, "transicion", 0)
	s.logger.Info("match transitioned", "match_id", id, "estado", target, "actor", actor.ID)
	return result, nil
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func (s *MatchService) validateArbitros(ctx context.Context, arbitros []domain.RefereeAssignment) error {
	if len(arbitros) > 3 {
		return &domain.ValidationError{Field: "arbitros", Reason: "at most 3 referees"}
	}
	seen := make(map[domain.RefereeRole]bool, len(arbitros))
	for _, a := range arbitros {
		if !domain.ValidRefereeRole(a.Rol) {
			return &domain.ValidationError{Field: "arbitros", Reason: "unknown role " + string(a.Rol)}
		}
		if seen[a.Rol] {
			return &domain.ValidationError{Field: "arbitros", Reason: "duplicate role " + string(a.Rol)}
		}
		seen[a.Rol] = true
		ok, err := s.referees.Exists(ctx, a.ArbitroID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("referee %s: %w", a.ArbitroID, domain.ErrNotFound)
		}
	}
	return nil
}

// retryConflict runs fn, repeating it once if the store reports a lost
// optimistic-concurrency race (another process wrote the match between our
// read and write). fn must re-read the match on each attempt.
func (s *MatchService) retryConflict(fn func() error) error {
	err := fn()
	if errors.Is(err, domain.ErrVersionConflict) {
		err = fn()
	}
	return err
}
