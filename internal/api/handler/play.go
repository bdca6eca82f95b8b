package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ligaflagmx/liga-api/internal/api/respond"
	"github.com/ligaflagmx/liga-api/internal/domain"
	"github.com/ligaflagmx/liga-api/internal/roster"
	"github.com/ligaflagmx/liga-api/internal/service"
)

type resultadoJSON struct {
	Touchdown    bool `json:"touchdown"`
	Intercepcion bool `json:"intercepcion"`
	Sack         bool `json:"sack"`
}

type playJSON struct {
	ID                string            `json:"id"`
	Secuencia         int               `json:"secuencia"`
	MinutoJuego       string            `json:"minutoJuego,omitempty"`
	TipoJugada        domain.PlayType   `json:"tipoJugada"`
	EquipoEnPosesion  string            `json:"equipoEnPosesion"`
	JugadorPrincipal  *domain.PlayerRef `json:"jugadorPrincipal"`
	JugadorSecundario *domain.PlayerRef `json:"jugadorSecundario,omitempty"`
	JugadorTouchdown  *domain.PlayerRef `json:"jugadorTouchdown,omitempty"`
	Resultado         resultadoJSON     `json:"resultado"`
	Puntos            int               `json:"puntos"`
	Descripcion       string            `json:"descripcion,omitempty"`
	RegistradoPor     string            `json:"registradoPor,omitempty"`
	RegistradoEn      time.Time         `json:"registradoEn"`
}

func toPlayJSON(p *domain.Play) playJSON {
	return playJSON{
		ID:                p.ID,
		Secuencia:         p.Secuencia,
		MinutoJuego:       p.MinutoJuego,
		TipoJugada:        p.Tipo,
		EquipoEnPosesion:  p.EquipoEnPosesionID,
		JugadorPrincipal:  p.JugadorPrincipal,
		JugadorSecundario: p.JugadorSecundario,
		JugadorTouchdown:  p.JugadorTouchdown,
		Resultado:         resultadoJSON{Touchdown: p.Touchdown, Intercepcion: p.Intercepcion, Sack: p.Sack},
		Puntos:            p.Puntos,
		Descripcion:       p.Descripcion,
		RegistradoPor:     p.RegistradoPor,
		RegistradoEn:      p.RegistradoEn,
	}
}

type playRequest struct {
	TipoJugada              string           `json:"tipoJugada"`
	EquipoEnPosesion        string           `json:"equipoEnPosesion"`
	MinutoJuego             string           `json:"minutoJuego"`
	NumeroJugadorPrincipal  roster.NumberRef `json:"numeroJugadorPrincipal"`
	NumeroJugadorSecundario roster.NumberRef `json:"numeroJugadorSecundario"`
	NumeroJugadorTouchdown  roster.NumberRef `json:"numeroJugadorTouchdown"`
	Descripcion             string           `json:"descripcion"`
	Resultado               *struct {
		Touchdown bool `json:"touchdown"`
	} `json:"resultado"`
}

type playResponse struct {
	Jugada       playJSON     `json:"jugada"`
	Marcador     marcadorJSON `json:"marcador"`
	Advertencias []string     `json:"advertencias,omitempty"`
}

type ledgerResponse struct {
	PartidoID string        `json:"partidoId"`
	Estado    domain.Status `json:"estado"`
	Marcador  marcadorJSON  `json:"marcador"`
	Jugadas   []playJSON    `json:"jugadas"`
}

// AppendPlay registers a play against a live match. Roster misses are
// reported as advertencias on a 201, not as failures.
// @Summary Register a play
// @Tags jugadas
// @Accept json
// @Produce json
// @Param id path string true "Match id"
// @Param jugada body playRequest true "Play"
// @Success 201 {object} playResponse
// @Failure 400 {object} respond.ErrorResponse
// @Router /partidos/{id}/jugadas [post]
func (h *Handler) AppendPlay(w http.ResponseWriter, r *http.Request) {
	var req playRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed JSON body")
		return
	}
	matchID := chi.URLParam(r, "id")
	in := service.PlayInput{
		Tipo:               domain.PlayType(req.TipoJugada),
		EquipoEnPosesionID: req.EquipoEnPosesion,
		MinutoJuego:        req.MinutoJuego,
		NumeroPrincipal:    req.NumeroJugadorPrincipal,
		NumeroSecundario:   req.NumeroJugadorSecundario,
		NumeroTouchdown:    req.NumeroJugadorTouchdown,
		Descripcion:        req.Descripcion,
	}
	if req.Resultado != nil {
		in.Touchdown = req.Resultado.Touchdown
	}
	p, warnings, err := h.matches.AppendPlay(r.Context(), matchID, in, actorFrom(r))
	if err != nil {
		respond.Error(w, err)
		return
	}
	m, err := h.matches.GetMatch(r.Context(), matchID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, playResponse{
		Jugada:       toPlayJSON(p),
		Marcador:     marcadorJSON{Local: m.MarcadorLocal, Visitante: m.MarcadorVisitante},
		Advertencias: warnings,
	})
}

// ListPlays returns the ledger and current score.
// @Summary List the play ledger
// @Tags jugadas
// @Produce json
// @Param id path string true "Match id"
// @Success 200 {object} ledgerResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /partidos/{id}/jugadas [get]
func (h *Handler) ListPlays(w http.ResponseWriter, r *http.Request) {
	m, err := h.matches.GetMatch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	jugadas := make([]playJSON, len(m.Jugadas))
	for i := range m.Jugadas {
		jugadas[i] = toPlayJSON(&m.Jugadas[i])
	}
	respond.WriteJSON(w, http.StatusOK, ledgerResponse{
		PartidoID: m.ID,
		Estado:    m.Estado,
		Marcador:  marcadorJSON{Local: m.MarcadorLocal, Visitante: m.MarcadorVisitante},
		Jugadas:   jugadas,
	})
}

// DeletePlay removes a play by id; the score is recomputed from the
// remaining ledger.
// @Summary Delete a play by id
// @Tags jugadas
// @Produce json
// @Param id path string true "Match id"
// @Param jugadaId path string true "Play id"
// @Success 200 {object} ledgerResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /partidos/{id}/jugadas/{jugadaId} [delete]
func (h *Handler) DeletePlay(w http.ResponseWriter, r *http.Request) {
	m, err := h.matches.DeletePlay(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "jugadaId"), actorFrom(r))
	if err != nil {
		respond.Error(w, err)
		return
	}
	h.writeLedger(w, m)
}

// DeleteLastPlay removes the most recent play (decrement shortcut).
// @Summary Delete the most recent play
// @Tags jugadas
// @Produce json
// @Param id path string true "Match id"
// @Success 200 {object} ledgerResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /partidos/{id}/jugadas/ultima [delete]
func (h *Handler) DeleteLastPlay(w http.ResponseWriter, r *http.Request) {
	m, err := h.matches.DeleteLastPlay(r.Context(), chi.URLParam(r, "id"), actorFrom(r))
	if err != nil {
		respond.Error(w, err)
		return
	}
	h.writeLedger(w, m)
}

func (h *Handler) writeLedger(w http.ResponseWriter, m *domain.Match) {
	jugadas := make([]playJSON, len(m.Jugadas))
	for i := range m.Jugadas {
		jugadas[i] = toPlayJSON(&m.Jugadas[i])
	}
	respond.WriteJSON(w, http.StatusOK, ledgerResponse{
		PartidoID: m.ID,
		Estado:    m.Estado,
		Marcador:  marcadorJSON{Local: m.MarcadorLocal, Visitante: m.MarcadorVisitante},
		Jugadas:   jugadas,
	})
}
