package roster

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

type stubLookup struct {
	players map[string]map[int]*Player // equipoID -> numero -> player
	err     error
	calls   int
}

func (s *stubLookup) PlayerByNumber(ctx context.Context, equipoID string, numero int) (*Player, bool, error) {
	s.calls++
	if s.err != nil {
		return nil, false, s.err
	}
	p, ok := s.players[equipoID][numero]
	return p, ok, nil
}

func TestResolveFound(t *testing.T) {
	lookup := &stubLookup{players: map[string]map[int]*Player{
		"tigres": {7: {ID: "p7", Nombre: "Ana Ruiz", Numero: 7, Posicion: "QB"}},
	}}
	r := NewResolver(lookup)

	res, err := r.Resolve(context.Background(), "tigres", Number(7))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found || res.Omitted {
		t.Fatalf("resolution = %+v, want found", res)
	}
	if res.Player.ID != "p7" || res.Numero != 7 {
		t.Fatalf("player = %+v", res.Player)
	}
}

// Jersey number 0 is a real number and must resolve like any other.
func TestResolveNumberZero(t *testing.T) {
	lookup := &stubLookup{players: map[string]map[int]*Player{
		"tigres": {0: {ID: "p0", Nombre: "Luz Vega", Numero: 0}},
	}}
	r := NewResolver(lookup)

	res, err := r.Resolve(context.Background(), "tigres", Number(0))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found {
		t.Fatal("number 0 did not resolve")
	}
	if res.Player.ID != "p0" {
		t.Fatalf("player = %+v", res.Player)
	}
}

func TestResolveOmittedShortCircuits(t *testing.T) {
	lookup := &stubLookup{}
	r := NewResolver(lookup)

	res, err := r.Resolve(context.Background(), "tigres", NoNumber())
	if err != nil {
		t.Fatal(err)
	}
	if !res.Omitted || res.Found {
		t.Fatalf("resolution = %+v, want omitted", res)
	}
	if lookup.calls != 0 {
		t.Fatalf("directory hit %d times for an omitted number", lookup.calls)
	}
}

func TestResolveUnmatched(t *testing.T) {
	lookup := &stubLookup{players: map[string]map[int]*Player{}}
	r := NewResolver(lookup)

	res, err := r.Resolve(context.Background(), "tigres", Number(99))
	if err != nil {
		t.Fatal(err)
	}
	if res.Found || res.Omitted {
		t.Fatalf("resolution = %+v, want unmatched", res)
	}
	if res.Numero != 99 {
		t.Fatalf("numero = %d, want 99", res.Numero)
	}
}

func TestResolveLookupError(t *testing.T) {
	lookup := &stubLookup{err: errors.New("connection refused")}
	r := NewResolver(lookup)

	if _, err := r.Resolve(context.Background(), "tigres", Number(7)); err == nil {
		t.Fatal("expected error")
	}
}

func TestNumberRefJSON(t *testing.T) {
	var ref NumberRef
	if err := json.Unmarshal([]byte("0"), &ref); err != nil {
		t.Fatal(err)
	}
	if !ref.Present() || ref.Value() != 0 {
		t.Fatalf("ref = %v, want present 0", ref)
	}

	if err := json.Unmarshal([]byte("null"), &ref); err != nil {
		t.Fatal(err)
	}
	if ref.Present() {
		t.Fatal("null should unmarshal to omitted")
	}

	if err := json.Unmarshal([]byte("-3"), &ref); err == nil {
		t.Fatal("negative number accepted")
	}

	// absent field leaves the zero value, which is omitted
	var body struct {
		Numero NumberRef `json:"numero"`
	}
	if err := json.Unmarshal([]byte(`{}`), &body); err != nil {
		t.Fatal(err)
	}
	if body.Numero.Present() {
		t.Fatal("absent field should be omitted")
	}

	out, err := json.Marshal(Number(0))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "0" {
		t.Fatalf("marshal = %s, want 0", out)
	}
	out, err = json.Marshal(NoNumber())
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "null" {
		t.Fatalf("marshal = %s, want null", out)
	}
}
