// Package ledger owns the append-only play sequence of a match and the
// derived score. Two deletion operations exist on purpose and are not
// equivalent: delete-by-id recomputes the score from the remaining plays,
// while delete-last decrements by the removed play's points and floors at
// zero. Callers must not unify them.
package ledger

import (
	"fmt"

	"github.com/ligaflagmx/liga-api/internal/domain"
)

// NextSequence returns the sequence number the next play will take.
// Sequences start at 1 and are strictly increasing within the match.
func NextSequence(m *domain.Match) int {
	last := 0
	for _, p := range m.Jugadas {
		if p.Secuencia > last {
			last = p.Secuencia
		}
	}
	return last + 1
}

// Append validates the match is live, assigns the next sequence number,
// and records the play, crediting its points to the team in possession.
// The play's Puntos and flags must already be set via domain.ApplyPlayType.
// The match is untouched on error.
func Append(m *domain.Match, p *domain.Play) error {
	if !m.Estado.Live() {
		return domain.ErrMatchNotLive
	}
	if !m.HasTeam(p.EquipoEnPosesionID) {
		return &domain.ValidationError{
			Field:  "equipoEnPosesion",
			Reason: fmt.Sprintf("team %s is not playing in match %s", p.EquipoEnPosesionID, m.ID),
		}
	}
	p.Secuencia = NextSequence(m)
	m.Jugadas = append(m.Jugadas, *p)
	m.AddPoints(p.EquipoEnPosesionID, p.Puntos)
	return nil
}

// RemoveByID removes the identified play and fully recomputes the score
// from the remaining plays. The recompute is order-independent and
// idempotent; it never decrements point-wise.
func RemoveByID(m *domain.Match, playID string) (*domain.Play, error) {
	idx := -1
	for i, p := range m.Jugadas {
		if p.ID == playID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("play %s: %w", playID, domain.ErrNotFound)
	}
	removed := m.Jugadas[idx]
	m.Jugadas = append(m.Jugadas[:idx], m.Jugadas[idx+1:]...)
	Recompute(m)
	return &removed, nil
}

// RemoveLast removes the play with the highest sequence number and
// decrements the score by exactly that play's points, flooring each side
// at zero. This is the narrow "undo" shortcut, not a recompute.
func RemoveLast(m *domain.Match) (*domain.Play, error) {
	if len(m.Jugadas) == 0 {
		return nil, fmt.Errorf("ledger is empty: %w", domain.ErrNotFound)
	}
	idx := 0
	for i, p := range m.Jugadas {
		if p.Secuencia > m.Jugadas[idx].Secuencia {
			idx = i
		}
	}
	removed := m.Jugadas[idx]
	m.Jugadas = append(m.Jugadas[:idx], m.Jugadas[idx+1:]...)
	m.AddPoints(removed.EquipoEnPosesionID, -removed.Puntos)
	if m.MarcadorLocal < 0 {
		m.MarcadorLocal = 0
	}
	if m.MarcadorVisitante < 0 {
		m.MarcadorVisitante = 0
	}
	return &removed, nil
}

// Recompute derives the score from scratch: the sum of Puntos grouped by
// the credited team over the full ledger.
func Recompute(m *domain.Match) {
	m.MarcadorLocal = 0
	m.MarcadorVisitante = 0
	for _, p := range m.Jugadas {
		m.AddPoints(p.EquipoEnPosesionID, p.Puntos)
	}
}
