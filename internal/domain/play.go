package domain

import "time"

// PlayType is the kind of a single recorded play.
type PlayType string

const (
	PlayConversion1    PlayType = "conversion_1pt"
	PlayConversion2    PlayType = "conversion_2pt"
	PlaySafety         PlayType = "safety"
	PlayIntercepcion   PlayType = "intercepcion"
	PlayCorrida        PlayType = "corrida"
	PlayPaseCompleto   PlayType = "pase_completo"
	PlayPaseIncompleto PlayType = "pase_incompleto"
	PlaySack           PlayType = "sack"
	PlayTackleo        PlayType = "tackleo"
)

// Outcome is the points and flags a play type yields.
type Outcome struct {
	Puntos       int
	Touchdown    bool
	Intercepcion bool
	Sack         bool
}

// playTable fixes points and flags per type. Types with Puntos == -1 score
// 6 when the caller marks a touchdown and 0 otherwise.
var playTable = map[PlayType]Outcome{
	PlayConversion1:    {Puntos: 1},
	PlayConversion2:    {Puntos: 2},
	PlaySafety:         {Puntos: 2},
	PlayIntercepcion:   {Puntos: -1, Intercepcion: true},
	PlayCorrida:        {Puntos: -1},
	PlayPaseCompleto:   {Puntos: -1},
	PlayPaseIncompleto: {Puntos: 0},
	PlaySack:           {Puntos: 0, Sack: true},
	PlayTackleo:        {Puntos: 0},
}

// ValidPlayType reports whether t is a known play type.
func ValidPlayType(t PlayType) bool {
	_, ok := playTable[t]
	return ok
}

// ApplyPlayType resolves the outcome for t given the caller's touchdown
// flag. Points are later credited to the play's equipo en posesión as-is:
// there is no offense/defense derivation, so a defensive type (intercepcion,
// sack, tackleo) only ever scores when the caller flags the touchdown. That
// mirrors the recorded behavior of the league and is deliberate.
func ApplyPlayType(t PlayType, touchdown bool) (Outcome, error) {
	out, ok := playTable[t]
	if !ok {
		return Outcome{}, &ValidationError{Field: "tipoJugada", Reason: "unknown play type " + string(t)}
	}
	if out.Puntos == -1 {
		out.Touchdown = touchdown
		if touchdown {
			out.Puntos = 6
		} else {
			out.Puntos = 0
		}
	}
	return out, nil
}

// SecondaryOnOpposingTeam reports whether the secondary player of a play of
// type t is rostered on the opposing team (a defender acting against the
// team in possession) rather than on the credited team.
func SecondaryOnOpposingTeam(t PlayType) bool {
	switch t {
	case PlayIntercepcion, PlayCorrida, PlaySack, PlayTackleo:
		return true
	}
	return false
}

// PlayerRef is a resolved roster reference attached to a play. A play whose
// jersey number did not match any roster entry carries a nil reference and
// the registration response carries a warning instead.
type PlayerRef struct {
	JugadorID string `json:"jugadorId"`
	Nombre    string `json:"nombre,omitempty"`
	Numero    int    `json:"numero"`
}

// Play is one atomic entry in a match's ledger. Secuencia is strictly
// increasing within the match; MinutoJuego is informational only.
type Play struct {
	ID                 string
	Secuencia          int
	MinutoJuego        string
	Tipo               PlayType
	EquipoEnPosesionID string
	JugadorPrincipal   *PlayerRef
	JugadorSecundario  *PlayerRef
	JugadorTouchdown   *PlayerRef
	Touchdown          bool
	Intercepcion       bool
	Sack               bool
	Puntos             int
	Descripcion        string
	RegistradoPor      string
	RegistradoEn       time.Time
}
