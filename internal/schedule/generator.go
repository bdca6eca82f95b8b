// Package schedule generates round-robin fixture schedules for a
// tournament category and spreads kickoffs across an allowed date window.
package schedule

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/ligaflagmx/liga-api/internal/domain"
)

// Mode selects between a full round robin and a capped random sample.
type Mode string

const (
	ModeTodosContraTodos Mode = "todos_contra_todos"
	ModeLimitado         Mode = "limitado"
)

// ValidMode reports whether m is a known generation mode.
func ValidMode(m Mode) bool {
	return m == ModeTodosContraTodos || m == ModeLimitado
}

// defaultKickoffs is used when the request carries no preferred times.
var defaultKickoffs = []string{"12:00"}

// Pair is one unordered team pairing, in roster order (Local before
// Visitante by input position).
type Pair struct {
	Local     string
	Visitante string
}

// Request describes one generation run for a tournament category.
type Request struct {
	TorneoID    string
	Categoria   string
	Equipos     []string // team ids in roster order, length >= 2
	Modo        Mode
	Jornadas    int // requested fixture count, limitado only
	FechaInicio time.Time
	FechaFin    time.Time
	Dias        []time.Weekday // allowed weekdays
	Horarios    []string       // preferred kickoff times, "15:04" format
	Sede        *domain.Venue
	DuracionMin int
	CreadoPor   string
}

// Pairs enumerates all unordered pairings (i, j) with i < j in roster
// order: n·(n-1)/2 candidates.
func Pairs(equipos []string) []Pair {
	var out []Pair
	for i := 0; i < len(equipos); i++ {
		for j := i + 1; j < len(equipos); j++ {
			out = append(out, Pair{Local: equipos[i], Visitante: equipos[j]})
		}
	}
	return out
}

// validDates enumerates every calendar date in [start, end] whose weekday
// is allowed, at midnight in start's location.
func validDates(start, end time.Time, allowed []time.Weekday) []time.Time {
	allowedSet := make(map[time.Weekday]bool, len(allowed))
	for _, d := range allowed {
		allowedSet[d] = true
	}
	var out []time.Time
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, start.Location())
	for !day.After(last) {
		if allowedSet[day.Weekday()] {
			out = append(out, day)
		}
		day = day.AddDate(0, 0, 1)
	}
	return out
}

// Generate produces one programado Match per fixture. It is a pure
// function of the request except for the limitado sampling step, which
// draws from rng (Fisher-Yates via rand.Shuffle, so every pairing subset
// is equally likely).
func Generate(req Request, rng *rand.Rand) ([]domain.Match, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	pairs := Pairs(req.Equipos)
	if req.Modo == ModeLimitado {
		rng.Shuffle(len(pairs), func(i, j int) {
			pairs[i], pairs[j] = pairs[j], pairs[i]
		})
		if req.Jornadas < len(pairs) {
			pairs = pairs[:req.Jornadas]
		}
	}

	dates := validDates(req.FechaInicio, req.FechaFin, req.Dias)
	if len(dates) == 0 {
		return nil, domain.ErrNoValidDates
	}

	horarios := req.Horarios
	if len(horarios) == 0 {
		horarios = defaultKickoffs
	}
	kickoffs, err := parseKickoffs(horarios)
	if err != nil {
		return nil, err
	}

	// Spread fixtures as evenly as possible: ceil(fixtures/dates) per date,
	// cycling the preferred kickoff times within each date.
	perDate := (len(pairs) + len(dates) - 1) / len(dates)
	now := time.Now().UTC()
	matches := make([]domain.Match, 0, len(pairs))
	idx := 0
	for _, date := range dates {
		for slot := 0; slot < perDate && idx < len(pairs); slot++ {
			k := kickoffs[slot%len(kickoffs)]
			pair := pairs[idx]
			matches = append(matches, domain.Match{
				TorneoID:          req.TorneoID,
				Categoria:         req.Categoria,
				EquipoLocalID:     pair.Local,
				EquipoVisitanteID: pair.Visitante,
				FechaHora:         date.Add(k),
				DuracionMin:       req.DuracionMin,
				Sede:              req.Sede,
				Estado:            domain.StatusProgramado,
				CreadoPor:         req.CreadoPor,
				CreadoEn:          now,
				ModificadoEn:      now,
			})
			idx++
		}
	}
	return matches, nil
}

func validate(req Request) error {
	if len(req.Equipos) < 2 {
		return &domain.ValidationError{Field: "equipos", Reason: "at least 2 teams required"}
	}
	if !ValidMode(req.Modo) {
		return &domain.ValidationError{Field: "tipoRol", Reason: "unknown mode " + string(req.Modo)}
	}
	if req.Modo == ModeLimitado && req.Jornadas < 1 {
		return &domain.ValidationError{Field: "jornadas", Reason: "limitado mode requires a positive fixture count"}
	}
	if req.FechaFin.Before(req.FechaInicio) {
		return &domain.ValidationError{Field: "fechaFin", Reason: "end date precedes start date"}
	}
	return nil
}

func parseKickoffs(horarios []string) ([]time.Duration, error) {
	out := make([]time.Duration, len(horarios))
	for i, h := range horarios {
		t, err := time.Parse("15:04", h)
		if err != nil {
			return nil, &domain.ValidationError{Field: "horarios", Reason: fmt.Sprintf("bad kickoff time %q", h)}
		}
		out[i] = time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
	}
	return out, nil
}
