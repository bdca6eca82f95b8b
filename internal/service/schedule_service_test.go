package service

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/ligaflagmx/liga-api/internal/directory"
	"github.com/ligaflagmx/liga-api/internal/domain"
	"github.com/ligaflagmx/liga-api/internal/schedule"
)

func newTestScheduleService() (*ScheduleService, *stubStore) {
	st := newStubStore()
	svc := NewScheduleService(
		st,
		newStubDirectory(),
		stubExists{ids: map[string]bool{"t1": true}},
		directory.NewRoleSet([]string{"admin", "arbitro"}),
		testLogger(),
	)
	svc.newRand = func() *rand.Rand { return rand.New(rand.NewSource(1)) }
	return svc, st
}

func generateInput() GenerateInput {
	return GenerateInput{
		TorneoID:    "t1",
		Categoria:   "varonil",
		Modo:        schedule.ModeTodosContraTodos,
		FechaInicio: time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		FechaFin:    time.Date(2026, 9, 27, 0, 0, 0, 0, time.UTC),
		Dias:        schedule.DefaultDias,
		DuracionMin: 50,
	}
}

func TestGenerateSchedule(t *testing.T) {
	svc, st := newTestScheduleService()
	matches, err := svc.Generate(context.Background(), generateInput(), admin)
	if err != nil {
		t.Fatal(err)
	}
	// 3 teams in varonil: 3 pairings
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(matches))
	}
	for _, m := range matches {
		if m.ID == "" {
			t.Fatal("match without id")
		}
		if m.Estado != domain.StatusProgramado {
			t.Fatalf("estado = %s", m.Estado)
		}
		if m.CreadoPor != admin.ID {
			t.Fatalf("creadoPor = %s", m.CreadoPor)
		}
	}
	if len(st.inserted) != 3 {
		t.Fatalf("persisted %d matches", len(st.inserted))
	}
}

func TestGenerateScheduleRejections(t *testing.T) {
	svc, _ := newTestScheduleService()
	ctx := context.Background()

	if _, err := svc.Generate(ctx, generateInput(), espectador); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("unprivileged: err = %v", err)
	}

	in := generateInput()
	in.Categoria = "senior"
	var ve *domain.ValidationError
	if _, err := svc.Generate(ctx, in, admin); !errors.As(err, &ve) {
		t.Errorf("unknown category: err = %v", err)
	}

	in = generateInput()
	in.TorneoID = "nope"
	if _, err := svc.Generate(ctx, in, admin); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown tournament: err = %v", err)
	}

	// femenil has no registered teams
	in = generateInput()
	in.Categoria = "femenil"
	if _, err := svc.Generate(ctx, in, admin); !errors.As(err, &ve) {
		t.Errorf("too few teams: err = %v", err)
	}

	in = generateInput()
	in.Dias = []time.Weekday{time.Wednesday}
	in.FechaInicio = time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	in.FechaFin = time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Generate(ctx, in, admin); !errors.Is(err, domain.ErrNoValidDates) {
		t.Errorf("no valid dates: err = %v", err)
	}
}

func TestClearSchedule(t *testing.T) {
	svc, st := newTestScheduleService()
	ctx := context.Background()

	if _, err := svc.Generate(ctx, generateInput(), admin); err != nil {
		t.Fatal(err)
	}
	// a started match survives the sweep
	for _, m := range st.matches {
		m.Estado = domain.StatusEnCurso
		break
	}

	n, err := svc.Clear(ctx, "t1", "varonil", admin)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("cleared %d, want 2", n)
	}
	if len(st.matches) != 1 {
		t.Fatalf("%d matches remain, want 1", len(st.matches))
	}

	if _, err := svc.Clear(ctx, "t1", "varonil", espectador); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("unprivileged clear: err = %v", err)
	}
}
