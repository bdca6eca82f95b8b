package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ligaflagmx/liga-api/internal/api/respond"
	"github.com/ligaflagmx/liga-api/internal/domain"
	"github.com/ligaflagmx/liga-api/internal/schedule"
	"github.com/ligaflagmx/liga-api/internal/service"
)

type generateRequest struct {
	TorneoID      string `json:"torneoId"`
	Categoria     string `json:"categoria"`
	TipoRol       string `json:"tipoRol"`
	Jornadas      int    `json:"jornadas"`
	FechaInicio   string `json:"fechaInicio"` // YYYY-MM-DD
	FechaFin      string `json:"fechaFin"`    // YYYY-MM-DD
	Configuracion *struct {
		Dias        []string      `json:"dias"`
		Horarios    []string      `json:"horarios"`
		Sede        *domain.Venue `json:"sede"`
		DuracionMin int           `json:"duracionMin"`
	} `json:"configuracion"`
}

type generateResponse struct {
	TorneoID  string      `json:"torneoId"`
	Categoria string      `json:"categoria"`
	Partidos  []matchJSON `json:"partidos"`
	Total     int         `json:"total"`
}

// GenerateSchedule generates the fixture schedule for a tournament
// category and materializes it as programado matches.
// @Summary Generate a fixture schedule
// @Tags rol
// @Accept json
// @Produce json
// @Param rol body generateRequest true "Generation request"
// @Success 201 {object} generateResponse
// @Failure 400 {object} respond.ErrorResponse
// @Router /generar-rol [post]
func (h *Handler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed JSON body")
		return
	}
	inicio, err := time.Parse("2006-01-02", req.FechaInicio)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "bad fechaInicio, want YYYY-MM-DD")
		return
	}
	fin, err := time.Parse("2006-01-02", req.FechaFin)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "bad fechaFin, want YYYY-MM-DD")
		return
	}

	in := service.GenerateInput{
		TorneoID:    req.TorneoID,
		Categoria:   req.Categoria,
		Modo:        schedule.Mode(req.TipoRol),
		Jornadas:    req.Jornadas,
		FechaInicio: inicio,
		FechaFin:    fin,
		Dias:        schedule.DefaultDias,
	}
	if req.Configuracion != nil {
		// A present-but-empty dias list deliberately fails with
		// NO_VALID_DATES; only an absent list falls back to weekends.
		if req.Configuracion.Dias != nil {
			dias, err := schedule.ParseDias(req.Configuracion.Dias)
			if err != nil {
				respond.Error(w, err)
				return
			}
			in.Dias = dias
		}
		in.Horarios = req.Configuracion.Horarios
		in.Sede = req.Configuracion.Sede
		in.DuracionMin = req.Configuracion.DuracionMin
	}

	matches, err := h.schedule.Generate(r.Context(), in, actorFrom(r))
	if err != nil {
		respond.Error(w, err)
		return
	}
	out := make([]matchJSON, len(matches))
	for i := range matches {
		out[i] = toMatchJSON(&matches[i], false)
	}
	respond.WriteJSON(w, http.StatusCreated, generateResponse{
		TorneoID:  req.TorneoID,
		Categoria: req.Categoria,
		Partidos:  out,
		Total:     len(out),
	})
}

// ClearSchedule bulk-removes a category's not-yet-started fixtures.
// @Summary Clear generated fixtures
// @Tags rol
// @Produce json
// @Param torneoId path string true "Tournament id"
// @Param categoria path string true "Category"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} respond.ErrorResponse
// @Router /rol/{torneoId}/{categoria} [delete]
func (h *Handler) ClearSchedule(w http.ResponseWriter, r *http.Request) {
	n, err := h.schedule.Clear(r.Context(),
		chi.URLParam(r, "torneoId"), chi.URLParam(r, "categoria"), actorFrom(r))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"torneoId":   chi.URLParam(r, "torneoId"),
		"categoria":  chi.URLParam(r, "categoria"),
		"eliminados": n,
	})
}
