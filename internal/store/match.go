// Package store persists the match aggregate. Every write against a match
// row carries an optimistic version check: UPDATE ... WHERE version = $n.
// Zero affected rows means either the match is gone (ErrNotFound) or it
// was modified concurrently (ErrVersionConflict); the service layer holds
// a per-match lock and retries conflicts once.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ligaflagmx/liga-api/internal/domain"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Filter narrows ListMatches.
type Filter struct {
	TorneoID  string
	Categoria string
	Estado    domain.Status
	Desde     time.Time
	Hasta     time.Time
	Limit     int
}

// GetMatch loads a match with its full ledger.
func (s *Store) GetMatch(ctx context.Context, id string) (*domain.Match, error) {
	m, err := s.scanMatch(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, "jugadas_by_partido", id)
	if err != nil {
		return nil, fmt.Errorf("load plays for %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p                     domain.Play
			principal, sec, tdRef []byte
			minuto, descripcion   *string
			registradoPor         *string
		)
		if err := rows.Scan(&p.ID, &p.Secuencia, &minuto, &p.Tipo, &p.EquipoEnPosesionID,
			&principal, &sec, &tdRef, &p.Touchdown, &p.Intercepcion, &p.Sack,
			&p.Puntos, &descripcion, &registradoPor, &p.RegistradoEn); err != nil {
			return nil, fmt.Errorf("scan play: %w", err)
		}
		p.MinutoJuego = deref(minuto)
		p.Descripcion = deref(descripcion)
		p.RegistradoPor = deref(registradoPor)
		if p.JugadorPrincipal, err = decodePlayer(principal); err != nil {
			return nil, err
		}
		if p.JugadorSecundario, err = decodePlayer(sec); err != nil {
			return nil, err
		}
		if p.JugadorTouchdown, err = decodePlayer(tdRef); err != nil {
			return nil, err
		}
		m.Jugadas = append(m.Jugadas, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Store) scanMatch(ctx context.Context, id string) (*domain.Match, error) {
	var (
		m                   domain.Match
		sedeNombre, sedeDir *string
		arbitros, observs   []byte
		modificadoPor       *string
	)
	err := s.pool.QueryRow(ctx, "partido_by_id", id).Scan(
		&m.ID, &m.TorneoID, &m.Categoria, &m.EquipoLocalID, &m.EquipoVisitanteID,
		&m.FechaHora, &m.DuracionMin, &sedeNombre, &sedeDir, &arbitros, &m.Estado,
		&m.MarcadorLocal, &m.MarcadorVisitante, &observs, &m.Version,
		&m.CreadoPor, &m.CreadoEn, &modificadoPor, &m.ModificadoEn,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("match %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get match %s: %w", id, err)
	}
	if sedeNombre != nil {
		m.Sede = &domain.Venue{Nombre: *sedeNombre, Direccion: deref(sedeDir)}
	}
	m.ModificadoPor = deref(modificadoPor)
	if len(arbitros) > 0 {
		if err := json.Unmarshal(arbitros, &m.Arbitros); err != nil {
			return nil, fmt.Errorf("decode arbitros for %s: %w", id, err)
		}
	}
	if len(observs) > 0 {
		if err := json.Unmarshal(observs, &m.Observaciones); err != nil {
			return nil, fmt.Errorf("decode observaciones for %s: %w", id, err)
		}
	}
	return &m, nil
}

// ListMatches returns matches without their ledgers.
func (s *Store) ListMatches(ctx context.Context, f Filter) ([]domain.Match, error) {
	sql := `SELECT id, torneo_id, categoria, equipo_local_id, equipo_visitante_id,
		fecha_hora, duracion_min, sede_nombre, sede_direccion, arbitros, estado,
		marcador_local, marcador_visitante, observaciones, version,
		creado_por, creado_en, modificado_por, modificado_en
		FROM partidos WHERE 1=1`
	args := []any{}
	add := func(clause string, v any) {
		args = append(args, v)
		sql += fmt.Sprintf(" AND %s $%d", clause, len(args))
	}
	if f.TorneoID != "" {
		add("torneo_id =", f.TorneoID)
	}
	if f.Categoria != "" {
		add("categoria =", f.Categoria)
	}
	if f.Estado != "" {
		add("estado =", f.Estado)
	}
	if !f.Desde.IsZero() {
		add("fecha_hora >=", f.Desde)
	}
	if !f.Hasta.IsZero() {
		add("fecha_hora <=", f.Hasta)
	}
	sql += " ORDER BY fecha_hora"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		sql += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []domain.Match
	for rows.Next() {
		var (
			m                   domain.Match
			sedeNombre, sedeDir *string
			arbitros, observs   []byte
			modificadoPor       *string
		)
		if err := rows.Scan(&m.ID, &m.TorneoID, &m.Categoria, &m.EquipoLocalID, &m.EquipoVisitanteID,
			&m.FechaHora, &m.DuracionMin, &sedeNombre, &sedeDir, &arbitros, &m.Estado,
			&m.MarcadorLocal, &m.MarcadorVisitante, &observs, &m.Version,
			&m.CreadoPor, &m.CreadoEn, &modificadoPor, &m.ModificadoEn); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		if sedeNombre != nil {
			m.Sede = &domain.Venue{Nombre: *sedeNombre, Direccion: deref(sedeDir)}
		}
		m.ModificadoPor = deref(modificadoPor)
		if len(arbitros) > 0 {
			if err := json.Unmarshal(arbitros, &m.Arbitros); err != nil {
				return nil, fmt.Errorf("decode arbitros: %w", err)
			}
		}
		if len(observs) > 0 {
			if err := json.Unmarshal(observs, &m.Observaciones); err != nil {
				return nil, fmt.Errorf("decode observaciones: %w", err)
			}
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// InsertMatch persists a new match at version 1.
func (s *Store) InsertMatch(ctx context.Context, m *domain.Match) error {
	return s.insertMatch(ctx, s.pool, m)
}

// InsertMatches persists a generated schedule atomically: either every
// fixture materializes or none do.
func (s *Store) InsertMatches(ctx context.Context, matches []domain.Match) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin insert schedule: %w", err)
	}
	defer tx.Rollback(ctx)

	for i := range matches {
		if err := s.insertMatch(ctx, tx, &matches[i]); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// pgxQuerier is the slice of pgx satisfied by both *pgxpool.Pool and
// pgx.Tx, so row writers can run standalone or inside a transaction.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (s *Store) insertMatch(ctx context.Context, q pgxQuerier, m *domain.Match) error {
	arbitros, err := json.Marshal(m.Arbitros)
	if err != nil {
		return fmt.Errorf("encode arbitros: %w", err)
	}
	observs, err := json.Marshal(m.Observaciones)
	if err != nil {
		return fmt.Errorf("encode observaciones: %w", err)
	}
	var sedeNombre, sedeDir *string
	if m.Sede != nil {
		sedeNombre = &m.Sede.Nombre
		sedeDir = &m.Sede.Direccion
	}
	m.Version = 1
	_, err = q.Exec(ctx, `INSERT INTO partidos
		(id, torneo_id, categoria, equipo_local_id, equipo_visitante_id,
		 fecha_hora, duracion_min, sede_nombre, sede_direccion, arbitros, estado,
		 marcador_local, marcador_visitante, observaciones, version,
		 creado_por, creado_en, modificado_por, modificado_en)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`,
		m.ID, m.TorneoID, m.Categoria, m.EquipoLocalID, m.EquipoVisitanteID,
		m.FechaHora, m.DuracionMin, sedeNombre, sedeDir, arbitros, m.Estado,
		m.MarcadorLocal, m.MarcadorVisitante, observs, m.Version,
		m.CreadoPor, m.CreadoEn, nullable(m.ModificadoPor), m.ModificadoEn)
	if err != nil {
		return fmt.Errorf("insert match %s: %w", m.ID, err)
	}
	return nil
}

// UpdateMatch writes the match row (not the ledger) with a version check.
// On success m.Version is bumped to the stored value.
func (s *Store) UpdateMatch(ctx context.Context, m *domain.Match) error {
	return s.updateMatchRow(ctx, s.pool, m)
}

func (s *Store) updateMatchRow(ctx context.Context, q pgxQuerier, m *domain.Match) error {
	arbitros, err := json.Marshal(m.Arbitros)
	if err != nil {
		return fmt.Errorf("encode arbitros: %w", err)
	}
	observs, err := json.Marshal(m.Observaciones)
	if err != nil {
		return fmt.Errorf("encode observaciones: %w", err)
	}
	var sedeNombre, sedeDir *string
	if m.Sede != nil {
		sedeNombre = &m.Sede.Nombre
		sedeDir = &m.Sede.Direccion
	}
	tag, err := q.Exec(ctx, `UPDATE partidos SET
		fecha_hora=$2, duracion_min=$3, sede_nombre=$4, sede_direccion=$5,
		arbitros=$6, estado=$7, marcador_local=$8, marcador_visitante=$9,
		observaciones=$10, version=version+1, modificado_por=$11, modificado_en=$12
		WHERE id=$1 AND version=$13`,
		m.ID, m.FechaHora, m.DuracionMin, sedeNombre, sedeDir,
		arbitros, m.Estado, m.MarcadorLocal, m.MarcadorVisitante,
		observs, nullable(m.ModificadoPor), m.ModificadoEn, m.Version)
	if err != nil {
		return fmt.Errorf("update match %s: %w", m.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return s.conflictOrGone(ctx, m.ID)
	}
	m.Version++
	return nil
}

// AppendPlay writes the new play row and the updated match row in one
// transaction so the ledger and the derived score cannot diverge.
func (s *Store) AppendPlay(ctx context.Context, m *domain.Match, p *domain.Play) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin append play: %w", err)
	}
	defer tx.Rollback(ctx)

	principal, err := encodePlayer(p.JugadorPrincipal)
	if err != nil {
		return err
	}
	sec, err := encodePlayer(p.JugadorSecundario)
	if err != nil {
		return err
	}
	tdRef, err := encodePlayer(p.JugadorTouchdown)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `INSERT INTO jugadas
		(id, partido_id, secuencia, minuto_juego, tipo, equipo_en_posesion_id,
		 jugador_principal, jugador_secundario, jugador_touchdown,
		 touchdown, intercepcion, sack, puntos, descripcion, registrado_por, registrado_en)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		p.ID, m.ID, p.Secuencia, nullable(p.MinutoJuego), p.Tipo, p.EquipoEnPosesionID,
		principal, sec, tdRef, p.Touchdown, p.Intercepcion, p.Sack,
		p.Puntos, nullable(p.Descripcion), nullable(p.RegistradoPor), p.RegistradoEn)
	if err != nil {
		return fmt.Errorf("insert play %s: %w", p.ID, err)
	}

	if err := s.updateMatchRow(ctx, tx, m); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// DeletePlay removes the play row and writes the recomputed match row in
// one transaction.
func (s *Store) DeletePlay(ctx context.Context, m *domain.Match, playID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete play: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, "DELETE FROM jugadas WHERE id = $1 AND partido_id = $2", playID, m.ID)
	if err != nil {
		return fmt.Errorf("delete play %s: %w", playID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("play %s: %w", playID, domain.ErrNotFound)
	}

	if err := s.updateMatchRow(ctx, tx, m); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// DeleteMatch removes a match only while it is still programado. A match
// whose status ever left programado is never physically deleted.
func (s *Store) DeleteMatch(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM partidos WHERE id = $1 AND estado = $2", id, domain.StatusProgramado)
	if err != nil {
		return fmt.Errorf("delete match %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := s.scanMatch(ctx, id); err != nil {
			return err
		}
		return &domain.ValidationError{Field: "estado", Reason: "only programado matches can be deleted"}
	}
	return nil
}

// DeleteScheduled bulk-removes a category's not-yet-started generated
// fixtures and returns how many were removed.
func (s *Store) DeleteScheduled(ctx context.Context, torneoID, categoria string) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM partidos WHERE torneo_id = $1 AND categoria = $2 AND estado = $3",
		torneoID, categoria, domain.StatusProgramado)
	if err != nil {
		return 0, fmt.Errorf("clear schedule %s/%s: %w", torneoID, categoria, err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) conflictOrGone(ctx context.Context, id string) error {
	var n int
	err := s.pool.QueryRow(ctx, "SELECT 1 FROM partidos WHERE id = $1", id).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("match %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("check match %s: %w", id, err)
	}
	return fmt.Errorf("match %s: %w", id, domain.ErrVersionConflict)
}

func encodePlayer(p *domain.PlayerRef) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode player ref: %w", err)
	}
	return b, nil
}

func decodePlayer(b []byte) (*domain.PlayerRef, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var p domain.PlayerRef
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("decode player ref: %w", err)
	}
	return &p, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
