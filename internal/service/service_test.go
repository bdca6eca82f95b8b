package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/ligaflagmx/liga-api/internal/directory"
	"github.com/ligaflagmx/liga-api/internal/domain"
	"github.com/ligaflagmx/liga-api/internal/roster"
	"github.com/ligaflagmx/liga-api/internal/store"
)

var (
	admin      = Actor{ID: "admin-1", Rol: "admin"}
	espectador = Actor{ID: "user-9", Rol: "espectador"}
)

// stubStore keeps matches in memory and can inject one version conflict.
type stubStore struct {
	matches       map[string]*domain.Match
	conflictsLeft int
	updates       int
	inserted      []domain.Match
	deletedPlays  []string
}

func newStubStore() *stubStore {
	return &stubStore{matches: map[string]*domain.Match{}}
}

func copyMatch(m *domain.Match) *domain.Match {
	out := *m
	out.Jugadas = append([]domain.Play(nil), m.Jugadas...)
	out.Observaciones = append([]domain.Observation(nil), m.Observaciones...)
	out.Arbitros = append([]domain.RefereeAssignment(nil), m.Arbitros...)
	return &out
}

func (s *stubStore) GetMatch(ctx context.Context, id string) (*domain.Match, error) {
	m, ok := s.matches[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyMatch(m), nil
}

func (s *stubStore) ListMatches(ctx context.Context, f store.Filter) ([]domain.Match, error) {
	var out []domain.Match
	for _, m := range s.matches {
		out = append(out, *copyMatch(m))
	}
	return out, nil
}

func (s *stubStore) InsertMatch(ctx context.Context, m *domain.Match) error {
	s.matches[m.ID] = copyMatch(m)
	return nil
}

func (s *stubStore) InsertMatches(ctx context.Context, matches []domain.Match) error {
	s.inserted = append(s.inserted, matches...)
	for i := range matches {
		s.matches[matches[i].ID] = copyMatch(&matches[i])
	}
	return nil
}

func (s *stubStore) UpdateMatch(ctx context.Context, m *domain.Match) error {
	if s.conflictsLeft > 0 {
		s.conflictsLeft--
		return domain.ErrVersionConflict
	}
	s.updates++
	s.matches[m.ID] = copyMatch(m)
	return nil
}

func (s *stubStore) AppendPlay(ctx context.Context, m *domain.Match, p *domain.Play) error {
	if s.conflictsLeft > 0 {
		s.conflictsLeft--
		return domain.ErrVersionConflict
	}
	s.matches[m.ID] = copyMatch(m)
	return nil
}

func (s *stubStore) DeletePlay(ctx context.Context, m *domain.Match, playID string) error {
	s.deletedPlays = append(s.deletedPlays, playID)
	s.matches[m.ID] = copyMatch(m)
	return nil
}

func (s *stubStore) DeleteMatch(ctx context.Context, id string) error {
	m, ok := s.matches[id]
	if !ok {
		return domain.ErrNotFound
	}
	if m.Estado != domain.StatusProgramado {
		return &domain.ValidationError{Field: "estado", Reason: "only programado matches can be deleted"}
	}
	delete(s.matches, id)
	return nil
}

func (s *stubStore) DeleteScheduled(ctx context.Context, torneoID, categoria string) (int64, error) {
	var n int64
	for id, m := range s.matches {
		if m.TorneoID == torneoID && m.Categoria == categoria && m.Estado == domain.StatusProgramado {
			delete(s.matches, id)
			n++
		}
	}
	return n, nil
}

// stubDirectory answers team, tournament, referee, and roster lookups.
type stubDirectory struct {
	teams   map[string]directory.Team
	rosters map[string]map[int]*roster.Player
}

func newStubDirectory() *stubDirectory {
	return &stubDirectory{
		teams: map[string]directory.Team{
			"tigres": {ID: "tigres", Nombre: "Tigres", Categoria: "varonil"},
			"osos":   {ID: "osos", Nombre: "Osos", Categoria: "varonil"},
			"lobos":  {ID: "lobos", Nombre: "Lobos", Categoria: "varonil"},
		},
		rosters: map[string]map[int]*roster.Player{
			"tigres": {
				7: {ID: "p7", Nombre: "Ana Ruiz", Numero: 7},
				0: {ID: "p0", Nombre: "Luz Vega", Numero: 0},
			},
			"osos": {
				22: {ID: "p22", Nombre: "Eva Mora", Numero: 22},
			},
		},
	}
}

func (d *stubDirectory) Team(ctx context.Context, id string) (*directory.Team, error) {
	t, ok := d.teams[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (d *stubDirectory) TeamsInCategory(ctx context.Context, torneoID, categoria string) ([]directory.Team, error) {
	var out []directory.Team
	for _, id := range []string{"tigres", "osos", "lobos"} {
		if t := d.teams[id]; t.Categoria == categoria {
			out = append(out, t)
		}
	}
	return out, nil
}

func (d *stubDirectory) PlayerByNumber(ctx context.Context, equipoID string, numero int) (*roster.Player, bool, error) {
	p, ok := d.rosters[equipoID][numero]
	return p, ok, nil
}

type stubExists struct{ ids map[string]bool }

func (s stubExists) Exists(ctx context.Context, id string) (bool, error) { return s.ids[id], nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService() (*MatchService, *stubStore) {
	st := newStubStore()
	dir := newStubDirectory()
	svc := NewMatchService(
		st,
		dir,
		stubExists{ids: map[string]bool{"t1": true}},
		stubExists{ids: map[string]bool{"arb-1": true, "arb-2": true}},
		directory.NewRoleSet([]string{"admin", "arbitro"}),
		roster.NewResolver(dir),
		nil, // no live mirror in tests
		testLogger(),
	)
	return svc, st
}

func seedMatch(st *stubStore, estado domain.Status) *domain.Match {
	m := &domain.Match{
		ID:                "m1",
		TorneoID:          "t1",
		Categoria:         "varonil",
		EquipoLocalID:     "tigres",
		EquipoVisitanteID: "osos",
		FechaHora:         time.Date(2026, 9, 5, 12, 0, 0, 0, time.UTC),
		Estado:            estado,
	}
	st.matches[m.ID] = m
	return m
}

// --------------------------------------------------------------------------
// Match CRUD
// --------------------------------------------------------------------------

func TestCreateMatch(t *testing.T) {
	svc, st := newTestService()
	m, err := svc.CreateMatch(context.Background(), CreateMatchInput{
		TorneoID:          "t1",
		Categoria:         "varonil",
		EquipoLocalID:     "tigres",
		EquipoVisitanteID: "osos",
		FechaHora:         time.Date(2026, 9, 5, 12, 0, 0, 0, time.UTC),
		DuracionMin:       50,
		Arbitros: []domain.RefereeAssignment{
			{ArbitroID: "arb-1", Rol: domain.RolePrincipal},
		},
	}, admin)
	if err != nil {
		t.Fatal(err)
	}
	if m.ID == "" || m.Estado != domain.StatusProgramado {
		t.Fatalf("created match = %+v", m)
	}
	if _, ok := st.matches[m.ID]; !ok {
		t.Fatal("match not persisted")
	}
}

func TestCreateMatchRejections(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	valid := CreateMatchInput{
		TorneoID:          "t1",
		EquipoLocalID:     "tigres",
		EquipoVisitanteID: "osos",
		FechaHora:         time.Now(),
	}

	if _, err := svc.CreateMatch(ctx, valid, espectador); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("unprivileged: err = %v", err)
	}

	in := valid
	in.EquipoVisitanteID = "tigres"
	var ve *domain.ValidationError
	if _, err := svc.CreateMatch(ctx, in, admin); !errors.As(err, &ve) {
		t.Errorf("same team: err = %v", err)
	}

	in = valid
	in.TorneoID = "nope"
	if _, err := svc.CreateMatch(ctx, in, admin); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown tournament: err = %v", err)
	}

	in = valid
	in.EquipoLocalID = "fantasmas"
	if _, err := svc.CreateMatch(ctx, in, admin); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown team: err = %v", err)
	}

	in = valid
	in.Arbitros = []domain.RefereeAssignment{
		{ArbitroID: "arb-1", Rol: domain.RolePrincipal},
		{ArbitroID: "arb-2", Rol: domain.RolePrincipal},
	}
	if _, err := svc.CreateMatch(ctx, in, admin); !errors.As(err, &ve) {
		t.Errorf("duplicate referee role: err = %v", err)
	}

	in = valid
	in.Arbitros = []domain.RefereeAssignment{{ArbitroID: "arb-1", Rol: "portero"}}
	if _, err := svc.CreateMatch(ctx, in, admin); !errors.As(err, &ve) {
		t.Errorf("unknown referee role: err = %v", err)
	}
}

func TestUpdateMatchFrozenAfterStart(t *testing.T) {
	svc, st := newTestService()
	seedMatch(st, domain.StatusEnCurso)
	ctx := context.Background()

	later := time.Date(2026, 9, 6, 12, 0, 0, 0, time.UTC)
	if _, err := svc.UpdateMatch(ctx, "m1", UpdateMatchInput{FechaHora: &later}, espectador); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("frozen field edit: err = %v", err)
	}

	// observations stay open to everyone
	m, err := svc.UpdateMatch(ctx, "m1", UpdateMatchInput{Observacion: "cambio de cancha"}, espectador)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Observaciones) != 1 || m.Observaciones[0].Texto != "cambio de cancha" {
		t.Fatalf("observaciones = %+v", m.Observaciones)
	}

	// privileged callers may still edit
	if _, err := svc.UpdateMatch(ctx, "m1", UpdateMatchInput{FechaHora: &later}, admin); err != nil {
		t.Fatal(err)
	}
	if got := st.matches["m1"].FechaHora; !got.Equal(later) {
		t.Fatalf("fechaHora = %v", got)
	}
}

func TestDeleteMatchOnlyScheduled(t *testing.T) {
	svc, st := newTestService()
	seedMatch(st, domain.StatusEnCurso)
	ctx := context.Background()

	var ve *domain.ValidationError
	if err := svc.DeleteMatch(ctx, "m1", admin); !errors.As(err, &ve) {
		t.Fatalf("delete en_curso: err = %v", err)
	}

	st.matches["m1"].Estado = domain.StatusProgramado
	if err := svc.DeleteMatch(ctx, "m1", admin); err != nil {
		t.Fatal(err)
	}
	if _, ok := st.matches["m1"]; ok {
		t.Fatal("match still present")
	}
}

// --------------------------------------------------------------------------
// Transitions
// --------------------------------------------------------------------------

func TestTransitionWithMotivo(t *testing.T) {
	svc, st := newTestService()
	seedMatch(st, domain.StatusEnCurso)

	m, err := svc.Transition(context.Background(), "m1", domain.StatusSuspendido, "tormenta eléctrica", admin)
	if err != nil {
		t.Fatal(err)
	}
	if m.Estado != domain.StatusSuspendido {
		t.Fatalf("estado = %s", m.Estado)
	}
	if len(m.Observaciones) != 1 {
		t.Fatalf("observaciones = %+v", m.Observaciones)
	}
	obs := m.Observaciones[0].Texto
	if !strings.Contains(obs, "tormenta eléctrica") || !strings.Contains(obs, "en_curso") {
		t.Fatalf("observation text = %q", obs)
	}
}

func TestTransitionIllegalEdge(t *testing.T) {
	svc, st := newTestService()
	seedMatch(st, domain.StatusFinalizado)

	_, err := svc.Transition(context.Background(), "m1", domain.StatusProgramado, "", admin)
	var ite *domain.InvalidTransitionError
	if !errors.As(err, &ite) {
		t.Fatalf("err = %v", err)
	}
	if st.matches["m1"].Estado != domain.StatusFinalizado {
		t.Fatal("match mutated on rejected transition")
	}
}

func TestTransitionForbidden(t *testing.T) {
	svc, st := newTestService()
	seedMatch(st, domain.StatusProgramado)
	if _, err := svc.Transition(context.Background(), "m1", domain.StatusEnCurso, "", espectador); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("err = %v", err)
	}
}

func TestTransitionRetriesVersionConflictOnce(t *testing.T) {
	svc, st := newTestService()
	seedMatch(st, domain.StatusEnCurso)
	st.conflictsLeft = 1

	if _, err := svc.Transition(context.Background(), "m1", domain.StatusFinalizado, "", admin); err != nil {
		t.Fatalf("single conflict should be retried: %v", err)
	}

	seedMatch(st, domain.StatusEnCurso)
	st.conflictsLeft = 2
	if _, err := svc.Transition(context.Background(), "m1", domain.StatusFinalizado, "", admin); !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("double conflict should surface: %v", err)
	}
}

// --------------------------------------------------------------------------
// Plays
// --------------------------------------------------------------------------

func TestAppendPlayScoresTouchdown(t *testing.T) {
	svc, st := newTestService()
	seedMatch(st, domain.StatusEnCurso)

	p, warnings, err := svc.AppendPlay(context.Background(), "m1", PlayInput{
		Tipo:               domain.PlayPaseCompleto,
		EquipoEnPosesionID: "tigres",
		NumeroPrincipal:    roster.Number(7),
		NumeroTouchdown:    roster.Number(0),
		Touchdown:          true,
	}, admin)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v", warnings)
	}
	if p.Puntos != 6 || !p.Touchdown || p.Secuencia != 1 {
		t.Fatalf("play = %+v", p)
	}
	if p.JugadorPrincipal == nil || p.JugadorPrincipal.JugadorID != "p7" {
		t.Fatalf("principal = %+v", p.JugadorPrincipal)
	}
	// jersey number 0 resolves
	if p.JugadorTouchdown == nil || p.JugadorTouchdown.JugadorID != "p0" {
		t.Fatalf("anotador = %+v", p.JugadorTouchdown)
	}
	if m := st.matches["m1"]; m.MarcadorLocal != 6 || m.MarcadorVisitante != 0 {
		t.Fatalf("score = %d-%d", m.MarcadorLocal, m.MarcadorVisitante)
	}
}

func TestAppendPlayRosterMissWarns(t *testing.T) {
	svc, st := newTestService()
	seedMatch(st, domain.StatusEnCurso)

	p, warnings, err := svc.AppendPlay(context.Background(), "m1", PlayInput{
		Tipo:               domain.PlayConversion2,
		EquipoEnPosesionID: "tigres",
		NumeroPrincipal:    roster.Number(99),
	}, admin)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v", warnings)
	}
	if !strings.Contains(warnings[0], "99") || !strings.Contains(warnings[0], "tigres") {
		t.Fatalf("warning = %q", warnings[0])
	}
	if p.JugadorPrincipal != nil {
		t.Fatalf("principal should be nil, got %+v", p.JugadorPrincipal)
	}
	if m := st.matches["m1"]; m.MarcadorLocal != 2 {
		t.Fatalf("score = %d, play should register despite the miss", m.MarcadorLocal)
	}
}

// For an intercepcion the secondary player is the defender, looked up on
// the opposing roster.
func TestAppendPlaySecondaryOnOpposingRoster(t *testing.T) {
	svc, st := newTestService()
	seedMatch(st, domain.StatusEnCurso)

	p, warnings, err := svc.AppendPlay(context.Background(), "m1", PlayInput{
		Tipo:               domain.PlayIntercepcion,
		EquipoEnPosesionID: "tigres",
		NumeroSecundario:   roster.Number(22), // on osos
	}, admin)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v", warnings)
	}
	if p.JugadorSecundario == nil || p.JugadorSecundario.JugadorID != "p22" {
		t.Fatalf("secundario = %+v", p.JugadorSecundario)
	}
	if !p.Intercepcion || p.Puntos != 0 {
		t.Fatalf("play = %+v", p)
	}
}

func TestAppendPlayRejections(t *testing.T) {
	svc, st := newTestService()
	seedMatch(st, domain.StatusProgramado)
	ctx := context.Background()
	valid := PlayInput{Tipo: domain.PlayConversion1, EquipoEnPosesionID: "tigres"}

	if _, _, err := svc.AppendPlay(ctx, "m1", valid, espectador); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("unprivileged: err = %v", err)
	}
	if _, _, err := svc.AppendPlay(ctx, "m1", valid, admin); !errors.Is(err, domain.ErrMatchNotLive) {
		t.Errorf("not live: err = %v", err)
	}

	st.matches["m1"].Estado = domain.StatusEnCurso
	in := valid
	in.Tipo = "gol"
	var ve *domain.ValidationError
	if _, _, err := svc.AppendPlay(ctx, "m1", in, admin); !errors.As(err, &ve) {
		t.Errorf("unknown type: err = %v", err)
	}

	in = valid
	in.EquipoEnPosesionID = "lobos"
	if _, _, err := svc.AppendPlay(ctx, "m1", in, admin); !errors.As(err, &ve) {
		t.Errorf("foreign team: err = %v", err)
	}
}

func TestDeletePlayRecomputes(t *testing.T) {
	svc, st := newTestService()
	seedMatch(st, domain.StatusEnCurso)
	ctx := context.Background()

	first, _, err := svc.AppendPlay(ctx, "m1", PlayInput{
		Tipo: domain.PlayPaseCompleto, EquipoEnPosesionID: "tigres", Touchdown: true,
	}, admin)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.AppendPlay(ctx, "m1", PlayInput{
		Tipo: domain.PlayConversion1, EquipoEnPosesionID: "tigres",
	}, admin); err != nil {
		t.Fatal(err)
	}

	m, err := svc.DeletePlay(ctx, "m1", first.ID, admin)
	if err != nil {
		t.Fatal(err)
	}
	if m.MarcadorLocal != 1 || len(m.Jugadas) != 1 {
		t.Fatalf("after delete: score=%d plays=%d", m.MarcadorLocal, len(m.Jugadas))
	}
}

func TestDeleteLastPlay(t *testing.T) {
	svc, st := newTestService()
	seedMatch(st, domain.StatusEnCurso)
	ctx := context.Background()

	if _, _, err := svc.AppendPlay(ctx, "m1", PlayInput{
		Tipo: domain.PlayPaseCompleto, EquipoEnPosesionID: "tigres", Touchdown: true,
	}, admin); err != nil {
		t.Fatal(err)
	}
	last, _, err := svc.AppendPlay(ctx, "m1", PlayInput{
		Tipo: domain.PlayConversion2, EquipoEnPosesionID: "tigres",
	}, admin)
	if err != nil {
		t.Fatal(err)
	}

	m, err := svc.DeleteLastPlay(ctx, "m1", admin)
	if err != nil {
		t.Fatal(err)
	}
	if m.MarcadorLocal != 6 || len(m.Jugadas) != 1 {
		t.Fatalf("after undo: score=%d plays=%d", m.MarcadorLocal, len(m.Jugadas))
	}
	if len(st.deletedPlays) != 1 || st.deletedPlays[0] != last.ID {
		t.Fatalf("deleted plays = %v, want [%s]", st.deletedPlays, last.ID)
	}
}

func TestDeleteLastPlayEmpty(t *testing.T) {
	svc, st := newTestService()
	seedMatch(st, domain.StatusEnCurso)
	if _, err := svc.DeleteLastPlay(context.Background(), "m1", admin); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}
