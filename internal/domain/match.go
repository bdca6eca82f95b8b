// Package domain holds the match aggregate: lifecycle statuses with their
// transition table, the play model with its scoring rules, and the error
// taxonomy shared by the service and API layers.
package domain

import "time"

// Status is a match lifecycle state.
type Status string

const (
	StatusProgramado  Status = "programado"
	StatusEnCurso     Status = "en_curso"
	StatusMedioTiempo Status = "medio_tiempo"
	StatusFinalizado  Status = "finalizado"
	StatusSuspendido  Status = "suspendido"
	StatusCancelado   Status = "cancelado"
)

// transitions is the full lifecycle graph. cancelado is terminal.
// finalizado → en_curso (reopening a finished match) is intentionally legal.
var transitions = map[Status][]Status{
	StatusProgramado:  {StatusEnCurso, StatusSuspendido, StatusCancelado},
	StatusEnCurso:     {StatusMedioTiempo, StatusFinalizado, StatusSuspendido},
	StatusMedioTiempo: {StatusEnCurso, StatusFinalizado, StatusSuspendido},
	StatusSuspendido:  {StatusProgramado, StatusEnCurso, StatusCancelado},
	StatusFinalizado:  {StatusEnCurso},
	StatusCancelado:   {},
}

// Valid reports whether s is a known lifecycle status.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Live reports whether plays may be appended in this status.
func (s Status) Live() bool {
	return s == StatusEnCurso || s == StatusMedioTiempo
}

// AllowedTransitions returns the statuses reachable from s.
func AllowedTransitions(s Status) []Status {
	out := make([]Status, len(transitions[s]))
	copy(out, transitions[s])
	return out
}

// CanTransition reports whether from → to is a legal edge.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RefereeRole is one of the three officiating roles assignable to a match.
type RefereeRole string

const (
	RolePrincipal   RefereeRole = "principal"
	RoleJuezDeFondo RefereeRole = "juez_de_fondo"
	RoleEstadistico RefereeRole = "estadistico"
)

// ValidRefereeRole reports whether r is a known officiating role.
func ValidRefereeRole(r RefereeRole) bool {
	return r == RolePrincipal || r == RoleJuezDeFondo || r == RoleEstadistico
}

// RefereeAssignment binds a referee to a match in one role.
type RefereeAssignment struct {
	ArbitroID string      `json:"arbitroId"`
	Rol       RefereeRole `json:"rol"`
}

// Venue is an optional match location.
type Venue struct {
	Nombre    string `json:"nombre"`
	Direccion string `json:"direccion,omitempty"`
}

// Observation is one timestamped entry in the match's free-text log.
// State transitions with a motivo land here, as do manual notes.
type Observation struct {
	Fecha time.Time `json:"fecha"`
	Autor string    `json:"autor,omitempty"`
	Texto string    `json:"texto"`
}

// Match is the aggregate root. Marcador* are derived from Jugadas and must
// always equal the per-team sums of Play.Puntos; they are never edited
// independently. Version backs optimistic concurrency in the store.
type Match struct {
	ID                string
	TorneoID          string
	Categoria         string
	EquipoLocalID     string
	EquipoVisitanteID string
	FechaHora         time.Time
	DuracionMin       int
	Sede              *Venue
	Arbitros          []RefereeAssignment
	Estado            Status
	MarcadorLocal     int
	MarcadorVisitante int
	Jugadas           []Play
	Observaciones     []Observation

	Version       int
	CreadoPor     string
	CreadoEn      time.Time
	ModificadoPor string
	ModificadoEn  time.Time
}

// HasTeam reports whether equipoID is one of the two sides.
func (m *Match) HasTeam(equipoID string) bool {
	return equipoID == m.EquipoLocalID || equipoID == m.EquipoVisitanteID
}

// OpposingTeam returns the other side's team id.
func (m *Match) OpposingTeam(equipoID string) string {
	if equipoID == m.EquipoLocalID {
		return m.EquipoVisitanteID
	}
	return m.EquipoLocalID
}

// ScoreFor returns the current score credited to equipoID.
func (m *Match) ScoreFor(equipoID string) int {
	if equipoID == m.EquipoLocalID {
		return m.MarcadorLocal
	}
	return m.MarcadorVisitante
}

// AddPoints credits puntos (may be negative during an undo) to equipoID.
func (m *Match) AddPoints(equipoID string, puntos int) {
	if equipoID == m.EquipoLocalID {
		m.MarcadorLocal += puntos
	} else {
		m.MarcadorVisitante += puntos
	}
}

// Observe appends a timestamped entry to the observation log.
func (m *Match) Observe(autor, texto string, at time.Time) {
	m.Observaciones = append(m.Observaciones, Observation{Fecha: at, Autor: autor, Texto: texto})
}

// Transition moves the match to target if the edge is legal, returning an
// *InvalidTransitionError (with the allowed set) otherwise. The match is
// untouched on error.
func (m *Match) Transition(target Status) error {
	if !target.Valid() {
		return &ValidationError{Field: "estado", Reason: "unknown status " + string(target)}
	}
	if !CanTransition(m.Estado, target) {
		return &InvalidTransitionError{From: m.Estado, To: target, Allowed: AllowedTransitions(m.Estado)}
	}
	m.Estado = target
	return nil
}
