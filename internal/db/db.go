// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ligaflagmx/liga-api/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers all statements the API and store
// layers use. Prepared statements eliminate parse overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Matches
		"partido_by_id": `SELECT id, torneo_id, categoria, equipo_local_id, equipo_visitante_id,
			fecha_hora, duracion_min, sede_nombre, sede_direccion, arbitros, estado,
			marcador_local, marcador_visitante, observaciones, version,
			creado_por, creado_en, modificado_por, modificado_en
			FROM partidos WHERE id = $1`,

		// Plays, in ledger order
		"jugadas_by_partido": `SELECT id, secuencia, minuto_juego, tipo, equipo_en_posesion_id,
			jugador_principal, jugador_secundario, jugador_touchdown,
			touchdown, intercepcion, sack, puntos, descripcion,
			registrado_por, registrado_en
			FROM jugadas WHERE partido_id = $1 ORDER BY secuencia`,

		// Directory: teams and rosters
		"equipo_by_id": "SELECT id, nombre, categoria FROM equipos WHERE id = $1",
		"equipos_by_categoria": `SELECT e.id, e.nombre, e.categoria FROM equipos e
			JOIN torneo_equipos te ON te.equipo_id = e.id
			WHERE te.torneo_id = $1 AND e.categoria = $2
			ORDER BY te.orden, e.id`,
		"jugador_by_numero": `SELECT j.id, j.nombre, r.numero, r.posicion
			FROM jugadores_equipo r JOIN jugadores j ON j.id = r.jugador_id
			WHERE r.equipo_id = $1 AND r.numero = $2`,

		// Directory: tournaments and referees
		"torneo_exists":  "SELECT 1 FROM torneos WHERE id = $1",
		"arbitro_exists": "SELECT 1 FROM arbitros WHERE id = $1",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
