// Package roster resolves jersey numbers to rostered players. Jersey
// number 0 is a real number worn by real players, so the reference type
// distinguishes "field omitted" from "field present with value 0" — they
// are different inputs with different outcomes.
package roster

import (
	"context"
	"encoding/json"
	"fmt"
)

// NumberRef is a three-valued jersey-number reference: omitted, or present
// with a value (0 included). It unmarshals JSON null and absent fields to
// the omitted state.
type NumberRef struct {
	present bool
	value   int
}

// Number returns a present reference.
func Number(n int) NumberRef { return NumberRef{present: true, value: n} }

// NoNumber returns the omitted reference.
func NoNumber() NumberRef { return NumberRef{} }

// Present reports whether the caller supplied a number at all.
func (r NumberRef) Present() bool { return r.present }

// Value returns the jersey number; only meaningful when Present.
func (r NumberRef) Value() int { return r.value }

func (r NumberRef) String() string {
	if !r.present {
		return "<omitido>"
	}
	return fmt.Sprintf("%d", r.value)
}

func (r *NumberRef) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = NumberRef{}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("jersey number: %w", err)
	}
	if n < 0 {
		return fmt.Errorf("jersey number must be non-negative, got %d", n)
	}
	*r = NumberRef{present: true, value: n}
	return nil
}

func (r NumberRef) MarshalJSON() ([]byte, error) {
	if !r.present {
		return []byte("null"), nil
	}
	return json.Marshal(r.value)
}

// Player is one roster entry as seen by the resolver.
type Player struct {
	ID       string
	Nombre   string
	Numero   int
	Posicion string
}

// Lookup is the slice of the team directory the resolver needs. The second
// return is false when no player on the team wears numero.
type Lookup interface {
	PlayerByNumber(ctx context.Context, equipoID string, numero int) (*Player, bool, error)
}

// Resolution is the outcome of resolving one NumberRef.
//   - Omitted: the caller did not supply a number; no player, no warning.
//   - Found: the number matched a roster entry; Player is set.
//   - otherwise: present but unmatched — the caller turns this into a
//     warning, never a hard failure.
type Resolution struct {
	Omitted bool
	Found   bool
	Numero  int
	Player  *Player
}

// Resolver resolves jersey numbers against one team's roster at a time.
type Resolver struct {
	teams Lookup
}

func NewResolver(teams Lookup) *Resolver {
	return &Resolver{teams: teams}
}

// Resolve looks numero up on equipoID's roster. An omitted reference
// short-circuits without touching the directory.
func (r *Resolver) Resolve(ctx context.Context, equipoID string, numero NumberRef) (Resolution, error) {
	if !numero.Present() {
		return Resolution{Omitted: true}, nil
	}
	p, ok, err := r.teams.PlayerByNumber(ctx, equipoID, numero.Value())
	if err != nil {
		return Resolution{}, fmt.Errorf("lookup number %d on team %s: %w", numero.Value(), equipoID, err)
	}
	if !ok {
		return Resolution{Numero: numero.Value()}, nil
	}
	return Resolution{Found: true, Numero: numero.Value(), Player: p}, nil
}
