package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ligaflagmx/liga-api/internal/domain"
	"github.com/ligaflagmx/liga-api/internal/roster"
)

// PG is the pgx-backed directory. It implements Teams, Tournaments,
// Referees, and roster.Lookup against the prepared statements registered
// in internal/db.
type PG struct {
	pool *pgxpool.Pool
}

func NewPG(pool *pgxpool.Pool) *PG {
	return &PG{pool: pool}
}

func (d *PG) Team(ctx context.Context, id string) (*Team, error) {
	var t Team
	err := d.pool.QueryRow(ctx, "equipo_by_id", id).Scan(&t.ID, &t.Nombre, &t.Categoria)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("team %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get team %s: %w", id, err)
	}
	return &t, nil
}

func (d *PG) TeamsInCategory(ctx context.Context, torneoID, categoria string) ([]Team, error) {
	rows, err := d.pool.Query(ctx, "equipos_by_categoria", torneoID, categoria)
	if err != nil {
		return nil, fmt.Errorf("list teams %s/%s: %w", torneoID, categoria, err)
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.ID, &t.Nombre, &t.Categoria); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// PlayerByNumber implements roster.Lookup. The second return is false when
// nobody on the team wears numero; 0 is looked up like any other number.
func (d *PG) PlayerByNumber(ctx context.Context, equipoID string, numero int) (*roster.Player, bool, error) {
	var p roster.Player
	err := d.pool.QueryRow(ctx, "jugador_by_numero", equipoID, numero).
		Scan(&p.ID, &p.Nombre, &p.Numero, &p.Posicion)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lookup player #%d on %s: %w", numero, equipoID, err)
	}
	return &p, true, nil
}

// Tournaments and Referees need distinct Exists queries, so the PG
// directory is split into views rather than hanging both methods off one
// receiver.

// TournamentView adapts PG to the Tournaments interface.
type TournamentView struct{ *PG }

func (v TournamentView) Exists(ctx context.Context, id string) (bool, error) {
	var n int
	err := v.pool.QueryRow(ctx, "torneo_exists", id).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("tournament exists %s: %w", id, err)
	}
	return true, nil
}

// RefereeView adapts PG to the Referees interface.
type RefereeView struct{ *PG }

func (v RefereeView) Exists(ctx context.Context, id string) (bool, error) {
	var n int
	err := v.pool.QueryRow(ctx, "arbitro_exists", id).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("referee exists %s: %w", id, err)
	}
	return true, nil
}
