package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ligaflagmx/liga-api/internal/api/respond"
	"github.com/ligaflagmx/liga-api/internal/domain"
	"github.com/ligaflagmx/liga-api/internal/service"
	"github.com/ligaflagmx/liga-api/internal/store"
)

// --------------------------------------------------------------------------
// Wire types
// --------------------------------------------------------------------------

type marcadorJSON struct {
	Local     int `json:"local"`
	Visitante int `json:"visitante"`
}

type matchJSON struct {
	ID              string                     `json:"id"`
	TorneoID        string                     `json:"torneoId"`
	Categoria       string                     `json:"categoria"`
	EquipoLocal     string                     `json:"equipoLocal"`
	EquipoVisitante string                     `json:"equipoVisitante"`
	FechaHora       time.Time                  `json:"fechaHora"`
	DuracionMin     int                        `json:"duracionMin,omitempty"`
	Sede            *domain.Venue              `json:"sede,omitempty"`
	Arbitros        []domain.RefereeAssignment `json:"arbitros,omitempty"`
	Estado          domain.Status              `json:"estado"`
	Marcador        marcadorJSON               `json:"marcador"`
	Jugadas         []playJSON                 `json:"jugadas,omitempty"`
	Observaciones   []domain.Observation       `json:"observaciones,omitempty"`
	CreadoPor       string                     `json:"creadoPor,omitempty"`
	CreadoEn        time.Time                  `json:"creadoEn"`
	ModificadoPor   string                     `json:"modificadoPor,omitempty"`
	ModificadoEn    time.Time                  `json:"modificadoEn"`
}

func toMatchJSON(m *domain.Match, withPlays bool) matchJSON {
	out := matchJSON{
		ID:              m.ID,
		TorneoID:        m.TorneoID,
		Categoria:       m.Categoria,
		EquipoLocal:     m.EquipoLocalID,
		EquipoVisitante: m.EquipoVisitanteID,
		FechaHora:       m.FechaHora,
		DuracionMin:     m.DuracionMin,
		Sede:            m.Sede,
		Arbitros:        m.Arbitros,
		Estado:          m.Estado,
		Marcador:        marcadorJSON{Local: m.MarcadorLocal, Visitante: m.MarcadorVisitante},
		Observaciones:   m.Observaciones,
		CreadoPor:       m.CreadoPor,
		CreadoEn:        m.CreadoEn,
		ModificadoPor:   m.ModificadoPor,
		ModificadoEn:    m.ModificadoEn,
	}
	if withPlays {
		out.Jugadas = make([]playJSON, len(m.Jugadas))
		for i := range m.Jugadas {
			out.Jugadas[i] = toPlayJSON(&m.Jugadas[i])
		}
	}
	return out
}

type createMatchRequest struct {
	TorneoID        string                     `json:"torneoId"`
	Categoria       string                     `json:"categoria"`
	EquipoLocal     string                     `json:"equipoLocal"`
	EquipoVisitante string                     `json:"equipoVisitante"`
	FechaHora       time.Time                  `json:"fechaHora"`
	DuracionMin     int                        `json:"duracionMin"`
	Sede            *domain.Venue              `json:"sede"`
	Arbitros        []domain.RefereeAssignment `json:"arbitros"`
}

type updateMatchRequest struct {
	FechaHora   *time.Time                 `json:"fechaHora"`
	DuracionMin *int                       `json:"duracionMin"`
	Sede        *domain.Venue              `json:"sede"`
	Arbitros    []domain.RefereeAssignment `json:"arbitros"`
	Observacion string                     `json:"observacion"`
}

type transitionRequest struct {
	Estado string `json:"estado"`
	Motivo string `json:"motivo"`
}

// --------------------------------------------------------------------------
// Handlers
// --------------------------------------------------------------------------

// CreateMatch creates a single match manually, outside the generator.
// @Summary Create a match
// @Tags partidos
// @Accept json
// @Produce json
// @Param partido body createMatchRequest true "Match"
// @Success 201 {object} matchJSON
// @Failure 400 {object} respond.ErrorResponse
// @Router /partidos [post]
func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed JSON body")
		return
	}
	m, err := h.matches.CreateMatch(r.Context(), service.CreateMatchInput{
		TorneoID:          req.TorneoID,
		Categoria:         req.Categoria,
		EquipoLocalID:     req.EquipoLocal,
		EquipoVisitanteID: req.EquipoVisitante,
		FechaHora:         req.FechaHora,
		DuracionMin:       req.DuracionMin,
		Sede:              req.Sede,
		Arbitros:          req.Arbitros,
	}, actorFrom(r))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, toMatchJSON(m, false))
}

// GetMatch returns a match with its ledger and score.
// @Summary Get a match
// @Tags partidos
// @Produce json
// @Param id path string true "Match id"
// @Success 200 {object} matchJSON
// @Failure 404 {object} respond.ErrorResponse
// @Router /partidos/{id} [get]
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	m, err := h.matches.GetMatch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, toMatchJSON(m, true))
}

// ListMatches returns matches filtered by torneo/categoria/estado/fecha.
// @Summary List matches
// @Tags partidos
// @Produce json
// @Success 200 {array} matchJSON
// @Router /partidos [get]
func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.Filter{
		TorneoID:  q.Get("torneoId"),
		Categoria: q.Get("categoria"),
		Estado:    domain.Status(q.Get("estado")),
	}
	if v := q.Get("desde"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			respond.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "bad desde date, want YYYY-MM-DD")
			return
		}
		f.Desde = t
	}
	if v := q.Get("hasta"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			respond.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "bad hasta date, want YYYY-MM-DD")
			return
		}
		f.Hasta = t.AddDate(0, 0, 1)
	}
	matches, err := h.matches.ListMatches(r.Context(), f)
	if err != nil {
		respond.Error(w, err)
		return
	}
	out := make([]matchJSON, len(matches))
	for i := range matches {
		out[i] = toMatchJSON(&matches[i], false)
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// UpdateMatch edits scheduling fields of a match.
// @Summary Update a match
// @Tags partidos
// @Accept json
// @Produce json
// @Param id path string true "Match id"
// @Param partido body updateMatchRequest true "Editable fields"
// @Success 200 {object} matchJSON
// @Failure 403 {object} respond.ErrorResponse
// @Router /partidos/{id} [put]
func (h *Handler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	var req updateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed JSON body")
		return
	}
	m, err := h.matches.UpdateMatch(r.Context(), chi.URLParam(r, "id"), service.UpdateMatchInput{
		FechaHora:   req.FechaHora,
		DuracionMin: req.DuracionMin,
		Sede:        req.Sede,
		Arbitros:    req.Arbitros,
		Observacion: req.Observacion,
	}, actorFrom(r))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, toMatchJSON(m, false))
}

// DeleteMatch removes a match that is still programado.
// @Summary Delete a scheduled match
// @Tags partidos
// @Param id path string true "Match id"
// @Success 204
// @Failure 400 {object} respond.ErrorResponse
// @Router /partidos/{id} [delete]
func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	if err := h.matches.DeleteMatch(r.Context(), chi.URLParam(r, "id"), actorFrom(r)); err != nil {
		respond.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TransitionMatch invokes a lifecycle transition.
// @Summary Change match status
// @Tags partidos
// @Accept json
// @Produce json
// @Param id path string true "Match id"
// @Param transicion body transitionRequest true "Target status and optional reason"
// @Success 200 {object} matchJSON
// @Failure 400 {object} respond.ErrorResponse
// @Failure 403 {object} respond.ErrorResponse
// @Router /partidos/{id}/estado [patch]
func (h *Handler) TransitionMatch(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed JSON body")
		return
	}
	if req.Estado == "" {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "estado is required")
		return
	}
	m, err := h.matches.Transition(r.Context(), chi.URLParam(r, "id"),
		domain.Status(req.Estado), req.Motivo, actorFrom(r))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, toMatchJSON(m, false))
}
