// Package handler provides HTTP handlers for all API endpoints. Handlers
// translate JSON requests into service calls; every domain rule lives in
// the service and below.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/ligaflagmx/liga-api/internal/api/respond"
	"github.com/ligaflagmx/liga-api/internal/config"
	"github.com/ligaflagmx/liga-api/internal/db"
	"github.com/ligaflagmx/liga-api/internal/domain"
	"github.com/ligaflagmx/liga-api/internal/live"
	"github.com/ligaflagmx/liga-api/internal/service"
	"github.com/ligaflagmx/liga-api/internal/store"
)

// MatchOps is the match/play surface the handlers call.
type MatchOps interface {
	CreateMatch(ctx context.Context, in service.CreateMatchInput, actor service.Actor) (*domain.Match, error)
	UpdateMatch(ctx context.Context, id string, in service.UpdateMatchInput, actor service.Actor) (*domain.Match, error)
	GetMatch(ctx context.Context, id string) (*domain.Match, error)
	ListMatches(ctx context.Context, f store.Filter) ([]domain.Match, error)
	DeleteMatch(ctx context.Context, id string, actor service.Actor) error
	Transition(ctx context.Context, id string, target domain.Status, motivo string, actor service.Actor) (*domain.Match, error)
	AppendPlay(ctx context.Context, matchID string, in service.PlayInput, actor service.Actor) (*domain.Play, []string, error)
	DeletePlay(ctx context.Context, matchID, playID string, actor service.Actor) (*domain.Match, error)
	DeleteLastPlay(ctx context.Context, matchID string, actor service.Actor) (*domain.Match, error)
}

// ScheduleOps is the fixture-generation surface the handlers call.
type ScheduleOps interface {
	Generate(ctx context.Context, in service.GenerateInput, actor service.Actor) ([]domain.Match, error)
	Clear(ctx context.Context, torneoID, categoria string, actor service.Actor) (int64, error)
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	pool     *db.Pool
	mirror   *live.Mirror
	cfg      *config.Config
	matches  MatchOps
	schedule ScheduleOps
}

// New creates a Handler with shared dependencies.
func New(pool *db.Pool, mirror *live.Mirror, cfg *config.Config, matches MatchOps, schedule ScheduleOps) *Handler {
	return &Handler{
		pool:     pool,
		mirror:   mirror,
		cfg:      cfg,
		matches:  matches,
		schedule: schedule,
	}
}

// actorFrom reads the caller identity resolved by the upstream gateway.
func actorFrom(r *http.Request) service.Actor {
	return service.Actor{
		ID:  r.Header.Get("X-Usuario-Id"),
		Rol: r.Header.Get("X-Rol"),
	}
}

// Root serves API info at /.
// @Summary API root info
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"name":    "Liga Flag API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.pool.HealthCheck(r.Context()); err != nil {
		respond.WriteJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckLive reports live-mirror connectivity.
// @Summary Live mirror health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/live [get]
func (h *Handler) HealthCheckLive(w http.ResponseWriter, r *http.Request) {
	status := "disabled"
	if h.mirror != nil {
		if h.mirror.Healthy(r.Context()) {
			status = "connected"
		} else {
			status = "disconnected"
		}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"live":      status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
