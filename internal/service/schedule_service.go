package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/ligaflagmx/liga-api/internal/config"
	"github.com/ligaflagmx/liga-api/internal/directory"
	"github.com/ligaflagmx/liga-api/internal/domain"
	"github.com/ligaflagmx/liga-api/internal/schedule"
)

// ScheduleService materializes round-robin fixture schedules as Match
// records and clears not-yet-started ones.
type ScheduleService struct {
	store       MatchStore
	teams       directory.Teams
	tournaments directory.Tournaments
	auth        directory.Authorizer
	logger      *slog.Logger
	newRand     func() *rand.Rand
}

func NewScheduleService(
	st MatchStore,
	teams directory.Teams,
	tournaments directory.Tournaments,
	auth directory.Authorizer,
	logger *slog.Logger,
) *ScheduleService {
	return &ScheduleService{
		store:       st,
		teams:       teams,
		tournaments: tournaments,
		auth:        auth,
		logger:      logger,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// GenerateInput is one schedule-generation request for a tournament category.
type GenerateInput struct {
	TorneoID    string
	Categoria   string
	Modo        schedule.Mode
	Jornadas    int
	FechaInicio time.Time
	FechaFin    time.Time
	Dias        []time.Weekday
	Horarios    []string
	Sede        *domain.Venue
	DuracionMin int
}

// Generate enumerates the category's teams, generates the fixture list,
// and inserts all matches in one transaction. Returns the created matches.
func (s *ScheduleService) Generate(ctx context.Context, in GenerateInput, actor Actor) ([]domain.Match, error) {
	if !s.auth.IsPrivileged(actor.Rol) {
		return nil, domain.ErrForbidden
	}
	if !config.ValidCategory(in.Categoria) {
		return nil, &domain.ValidationError{Field: "categoria", Reason: "unknown category " + in.Categoria}
	}
	ok, err := s.tournaments.Exists(ctx, in.TorneoID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("tournament %s: %w", in.TorneoID, domain.ErrNotFound)
	}

	teams, err := s.teams.TeamsInCategory(ctx, in.TorneoID, in.Categoria)
	if err != nil {
		return nil, err
	}
	if len(teams) < 2 {
		return nil, &domain.ValidationError{Field: "categoria", Reason: "at least 2 registered teams required"}
	}
	teamIDs := make([]string, len(teams))
	for i, t := range teams {
		teamIDs[i] = t.ID
	}

	matches, err := schedule.Generate(schedule.Request{
		TorneoID:    in.TorneoID,
		Categoria:   in.Categoria,
		Equipos:     teamIDs,
		Modo:        in.Modo,
		Jornadas:    in.Jornadas,
		FechaInicio: in.FechaInicio,
		FechaFin:    in.FechaFin,
		Dias:        in.Dias,
		Horarios:    in.Horarios,
		Sede:        in.Sede,
		DuracionMin: in.DuracionMin,
		CreadoPor:   actor.ID,
	}, s.newRand())
	if err != nil {
		return nil, err
	}

	for i := range matches {
		matches[i].ID = uuid.NewString()
	}
	if err := s.store.InsertMatches(ctx, matches); err != nil {
		return nil, err
	}
	s.logger.Info("schedule generated",
		"torneo", in.TorneoID, "categoria", in.Categoria, "modo", in.Modo,
		"equipos", len(teams), "partidos", len(matches), "actor", actor.ID)
	return matches, nil
}

// Clear bulk-removes the category's fixtures that are still programado.
func (s *ScheduleService) Clear(ctx context.Context, torneoID, categoria string, actor Actor) (int64, error) {
	if !s.auth.IsPrivileged(actor.Rol) {
		return 0, domain.ErrForbidden
	}
	n, err := s.store.DeleteScheduled(ctx, torneoID, categoria)
	if err != nil {
		return 0, err
	}
	s.logger.Info("schedule cleared",
		"torneo", torneoID, "categoria", categoria, "removed", n, "actor", actor.ID)
	return n, nil
}
