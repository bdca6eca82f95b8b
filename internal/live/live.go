// Package live mirrors the current score and status of each match into
// Redis so scoreboard consumers can poll or subscribe without touching
// Postgres. The mirror is best-effort: it is written after the store
// commit, failures are logged and never surfaced to the caller, and a nil
// *Mirror (Redis not configured) is a no-op.
package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/ligaflagmx/liga-api/internal/domain"
)

type Mirror struct {
	client *redis.Client
	logger *slog.Logger
}

// New connects to Redis at addr. Returns (nil, nil) when addr is empty.
func New(addr string, logger *slog.Logger) (*Mirror, error) {
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis %s: %w", addr, err)
	}
	return &Mirror{client: client, logger: logger}, nil
}

// Event is the payload published on each committed mutation.
type Event struct {
	Tipo              string    `json:"tipo"` // jugada, jugada_eliminada, transicion
	PartidoID         string    `json:"partidoId"`
	Estado            string    `json:"estado"`
	MarcadorLocal     int       `json:"marcadorLocal"`
	MarcadorVisitante int       `json:"marcadorVisitante"`
	Secuencia         int       `json:"secuencia,omitempty"`
	Fecha             time.Time `json:"fecha"`
}

// Publish stores the latest state under partido:<id> and publishes the
// event on partido:<id>:eventos.
func (m *Mirror) Publish(ctx context.Context, match *domain.Match, tipo string, secuencia int) {
	if m == nil {
		return
	}
	now := time.Now().UTC()
	key := fmt.Sprintf("partido:%s", match.ID)
	state := map[string]interface{}{
		"estado":             string(match.Estado),
		"marcador_local":     match.MarcadorLocal,
		"marcador_visitante": match.MarcadorVisitante,
		"actualizado":        now.Format(time.RFC3339),
	}
	if err := m.client.HSet(ctx, key, state).Err(); err != nil {
		m.logger.Warn("live mirror: store state failed", "match_id", match.ID, "error", err)
		return
	}

	evt := Event{
		Tipo:              tipo,
		PartidoID:         match.ID,
		Estado:            string(match.Estado),
		MarcadorLocal:     match.MarcadorLocal,
		MarcadorVisitante: match.MarcadorVisitante,
		Secuencia:         secuencia,
		Fecha:             now,
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		m.logger.Warn("live mirror: encode event failed", "match_id", match.ID, "error", err)
		return
	}
	if err := m.client.Publish(ctx, key+":eventos", payload).Err(); err != nil {
		m.logger.Warn("live mirror: publish failed", "match_id", match.ID, "error", err)
	}
}

// Forget drops the mirror entry for a deleted match.
func (m *Mirror) Forget(ctx context.Context, matchID string) {
	if m == nil {
		return
	}
	if err := m.client.Del(ctx, fmt.Sprintf("partido:%s", matchID)).Err(); err != nil {
		m.logger.Warn("live mirror: delete failed", "match_id", matchID, "error", err)
	}
}

// Healthy reports whether the mirror connection is up.
func (m *Mirror) Healthy(ctx context.Context) bool {
	if m == nil {
		return false
	}
	return m.client.Ping(ctx).Err() == nil
}

// Close releases the Redis connection.
func (m *Mirror) Close() error {
	if m == nil {
		return nil
	}
	return m.client.Close()
}
