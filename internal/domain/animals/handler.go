package animals

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"adopthub/internal/middleware"
	"adopthub/internal/platform/logger"
	"adopthub/internal/ports/media"

	"github.com/go-chi/chi/v5"
)

// Tope del body multipart completo: 3 archivos de 5 MiB + margen para campos.
const maxFormBytes = (media.DefaultMaxBytes * DefaultMaxImages) + (1 << 20)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/animals", func(ar chi.Router) {
		ar.Get("/", listAnimalsHandler(svc, log))
		ar.Get("/{animalID}", getAnimalHandler(svc, log))

		// Mutaciones: el gate de admin vive en el service, no acá.
		ar.Post("/", createAnimalHandler(svc, log))
		ar.Put("/{animalID}", updateAnimalHandler(svc, log))
		ar.Delete("/{animalID}", deleteAnimalHandler(svc, log))
	})
}

type animalResponse struct {
	AnimalID    int64     `json:"animal_id"`
	Name        string    `json:"name"`
	Species     string    `json:"species"`
	Breed       string    `json:"breed"`
	Gender      string    `json:"gender"`
	AgeMonths   int       `json:"age_months"`
	Temperament string    `json:"temperament"`
	Status      string    `json:"status"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type animalDetailResponse struct {
	animalResponse
	Images []string `json:"images"`
}

// listAnimalsHandler godoc
// @Summary Lista todos los animales (orden: id asc)
// @Tags animals
// @Produce json
// @Success 200 {array} animals.animalResponse
// @Router /api/animals [get]
func listAnimalsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeServiceError(w, log, "list animals", err)
			return
		}

		out := make([]animalResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAnimalResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getAnimalHandler godoc
// @Summary Perfil de un animal con su lista de imágenes resuelta
// @Tags animals
// @Produce json
// @Param animalID path int true "Animal ID"
// @Success 200 {object} animals.animalDetailResponse
// @Failure 404 {object} animals.errorResponse
// @Router /api/animals/{animalID} [get]
func getAnimalHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseAnimalID(chi.URLParam(r, "animalID"))
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid animal id")
			return
		}

		d, err := svc.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, log, "get animal", err)
			return
		}

		writeJSON(w, http.StatusOK, animalDetailResponse{
			animalResponse: toAnimalResponse(d.Animal),
			Images:         d.Images,
		})
	}
}

// createAnimalHandler godoc
// @Summary Alta de animal (admin, multipart con 1-3 imágenes en "image")
// @Tags animals
// @Accept mpfd
// @Produce json
// @Success 201 {object} map[string]int64
// @Failure 400 {object} animals.errorResponse
// @Failure 401 {object} animals.errorResponse
// @Failure 403 {object} animals.errorResponse
// @Router /api/animals [post]
func createAnimalHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := middleware.GetCaller(r.Context())

		in, uploads, err := parseAnimalForm(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		id, err := svc.Create(r.Context(), caller, in, uploads)
		if err != nil {
			writeServiceError(w, log, "create animal", err)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]int64{"animal_id": id})
	}
}

// updateAnimalHandler godoc
// @Summary Reemplazo completo de campos; con imágenes nuevas reemplaza el set entero
// @Tags animals
// @Accept mpfd
// @Produce json
// @Param animalID path int true "Animal ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} animals.errorResponse
// @Router /api/animals/{animalID} [put]
func updateAnimalHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := middleware.GetCaller(r.Context())

		id, ok := parseAnimalID(chi.URLParam(r, "animalID"))
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid animal id")
			return
		}

		in, uploads, err := parseAnimalForm(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := svc.Update(r.Context(), caller, id, in, uploads); err != nil {
			writeServiceError(w, log, "update animal", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// deleteAnimalHandler godoc
// @Summary Baja de animal; el image set cae en cascada
// @Tags animals
// @Produce json
// @Param animalID path int true "Animal ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} animals.errorResponse
// @Router /api/animals/{animalID} [delete]
func deleteAnimalHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := middleware.GetCaller(r.Context())

		id, ok := parseAnimalID(chi.URLParam(r, "animalID"))
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid animal id")
			return
		}

		if err := svc.Delete(r.Context(), caller, id); err != nil {
			writeServiceError(w, log, "delete animal", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func parseAnimalID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseAnimalForm lee el multipart form: campos escalares + archivos "image".
// Los archivos se leen completos acá; el media store valida tipo y tamaño.
func parseAnimalForm(w http.ResponseWriter, r *http.Request) (Input, []media.Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	if err := r.ParseMultipartForm(maxFormBytes); err != nil {
		return Input{}, nil, errors.New("invalid multipart form")
	}

	ageRaw := r.FormValue("age_months")
	age, err := strconv.Atoi(ageRaw)
	if err != nil {
		// Mismo mensaje que la validación de rango: el campo es inválido igual.
		return Input{}, nil, errors.New("age_months must be an integer >= 0")
	}

	in := Input{
		Name:        r.FormValue("name"),
		Species:     r.FormValue("species"),
		Breed:       r.FormValue("breed"),
		Gender:      r.FormValue("gender"),
		AgeMonths:   age,
		Temperament: r.FormValue("temperament"),
		Status:      r.FormValue("status"),
	}

	var files []*multipart.FileHeader
	if r.MultipartForm != nil {
		files = r.MultipartForm.File["image"]
	}

	uploads := make([]media.Upload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return Input{}, nil, errors.New("could not read uploaded file")
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return Input{}, nil, errors.New("could not read uploaded file")
		}
		uploads = append(uploads, media.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	return in, uploads, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeServiceError mapea la taxonomía del protocolo a HTTP.
// Internal nunca filtra la causa al cliente; se loguea server-side.
func writeServiceError(w http.ResponseWriter, log logger.Logger, op string, err error) {
	var fe *FieldError

	switch {
	case errors.As(err, &fe):
		writeError(w, http.StatusBadRequest, fe.Message)
	case errors.Is(err, ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "Animal not found")
	case errors.Is(err, media.ErrInvalidType):
		writeError(w, http.StatusBadRequest, media.ErrInvalidType.Error())
	case errors.Is(err, media.ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, media.ErrTooLarge.Error())
	default:
		log.Error(op+" failed", map[string]any{"err": err.Error()})
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func toAnimalResponse(a Animal) animalResponse {
	return animalResponse{
		AnimalID:    a.ID,
		Name:        a.Name,
		Species:     a.Species,
		Breed:       a.Breed,
		Gender:      string(a.Gender),
		AgeMonths:   a.AgeMonths,
		Temperament: a.Temperament,
		Status:      string(a.Status),
		ImageURL:    a.CoverImage,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// writeJSON/writeError están duplicados a propósito en los handlers de cada
// módulo (animals/species/users) para no crear helpers compartidos antes de
// tiempo; mismo criterio que el resto del código.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
