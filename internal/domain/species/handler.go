package species

import (
	"encoding/json"
	"net/http"
	"strconv"

	"adopthub/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/species", func(sr chi.Router) {
		sr.Get("/", listSpeciesHandler(svc, log))
		sr.Get("/{speciesID}/breeds", listBreedsHandler(svc, log))
	})
}

type speciesResponse struct {
	SpeciesID   int64  `json:"species_id"`
	SpeciesName string `json:"species_name"`
}

type breedResponse struct {
	BreedID   int64  `json:"breed_id"`
	BreedName string `json:"breed_name"`
}

// listSpeciesHandler godoc
// @Summary Lista de especies (referencia)
// @Tags species
// @Produce json
// @Success 200 {array} species.speciesResponse
// @Router /api/species [get]
func listSpeciesHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListSpecies(r.Context())
		if err != nil {
			log.Error("list species failed", map[string]any{"err": err.Error()})
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]speciesResponse, 0, len(items))
		for _, sp := range items {
			out = append(out, speciesResponse{SpeciesID: sp.ID, SpeciesName: sp.Name})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// listBreedsHandler godoc
// @Summary Razas de una especie (referencia)
// @Tags species
// @Produce json
// @Param speciesID path int true "Species ID"
// @Success 200 {array} species.breedResponse
// @Router /api/species/{speciesID}/breeds [get]
func listBreedsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "speciesID"), 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid species id")
			return
		}

		items, err := svc.ListBreeds(r.Context(), id)
		if err != nil {
			log.Error("list breeds failed", map[string]any{"err": err.Error()})
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]breedResponse, 0, len(items))
		for _, b := range items {
			out = append(out, breedResponse{BreedID: b.ID, BreedName: b.Name})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// Duplicado a propósito por módulo; ver nota en animals/handler.go.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
