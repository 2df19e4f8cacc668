package animals

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"adopthub/internal/platform/logger"
	"adopthub/internal/ports/auth"
	"adopthub/internal/ports/media"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("admin access required")
	ErrNotFound        = errors.New("animal not found")
)

// FieldError es un error de validación que nombra el campo ofensivo.
// El cliente corrige y reintenta; nunca se reintenta automáticamente.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

func fieldErr(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

const DefaultMaxImages = 3

// Service es el protocolo de mutación de animales: orquesta el record store,
// el image set store y el media store, con validación y gate de admin.
// El caller llega explícito en cada llamada; no hay estado global de usuario.
type Service struct {
	records   RecordRepository
	images    ImageSetRepository
	media     media.Store
	maxImages int
	now       func() time.Time
	log       logger.Logger
}

func NewService(records RecordRepository, images ImageSetRepository, mediaStore media.Store, log logger.Logger) *Service {
	if log == nil {
		log = logger.New(logger.Options{})
	}
	return &Service{
		records:   records,
		images:    images,
		media:     mediaStore,
		maxImages: DefaultMaxImages,
		now:       time.Now,
		log:       log,
	}
}

// WithMaxImages ajusta el tope de imágenes por animal (default 3).
func (s *Service) WithMaxImages(n int) *Service {
	if n > 0 {
		s.maxImages = n
	}
	return s
}

type Input struct {
	Name        string
	Species     string
	Breed       string
	Gender      string
	AgeMonths   int
	Temperament string
	Status      string
}

// requireAdmin distingue "sin identidad" (401) de "identidad sin rol" (403).
func requireAdmin(caller auth.Caller) error {
	if caller.ID == 0 {
		return ErrUnauthenticated
	}
	if !caller.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

func validateFields(in Input) (Fields, error) {
	name := strings.TrimSpace(in.Name)
	species := strings.TrimSpace(in.Species)
	breed := strings.TrimSpace(in.Breed)
	temperament := strings.TrimSpace(in.Temperament)

	if name == "" {
		return Fields{}, fieldErr("name", "Name is required")
	}
	if species == "" {
		return Fields{}, fieldErr("species", "Species is required")
	}
	if breed == "" {
		return Fields{}, fieldErr("breed", "Breed is required")
	}
	if temperament == "" {
		return Fields{}, fieldErr("temperament", "Temperament is required")
	}
	if in.AgeMonths < 0 {
		return Fields{}, fieldErr("age_months", "age_months must be an integer >= 0")
	}

	gender, ok := ParseGender(in.Gender)
	if !ok {
		return Fields{}, fieldErr("gender", "Invalid gender")
	}
	status, ok := ParseStatus(in.Status)
	if !ok {
		return Fields{}, fieldErr("status", "Invalid status")
	}

	return Fields{
		Name:        name,
		Species:     species,
		Breed:       breed,
		Gender:      gender,
		AgeMonths:   in.AgeMonths,
		Temperament: temperament,
		Status:      status,
	}, nil
}

// storeUploads persiste cada archivo y devuelve las refs en orden de subida.
// Si un archivo falla, borra best-effort los ya guardados y aborta: nunca
// queda registrado un set parcial.
func (s *Service) storeUploads(ctx context.Context, uploads []media.Upload) ([]string, error) {
	refs := make([]string, 0, len(uploads))
	for _, up := range uploads {
		ref, err := s.media.Save(ctx, up)
		if err != nil {
			s.cleanupRefs(ctx, refs)
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (s *Service) cleanupRefs(ctx context.Context, refs []string) {
	for _, ref := range refs {
		if err := s.media.Remove(ctx, ref); err != nil {
			s.log.Warn("orphan media file left behind", map[string]any{"ref": ref, "err": err.Error()})
		}
	}
}

// Create inserta el animal y su image set inicial como unidad: la cover es
// la primera imagen subida, el sort_order preserva el orden de subida.
func (s *Service) Create(ctx context.Context, caller auth.Caller, in Input, uploads []media.Upload) (int64, error) {
	if err := requireAdmin(caller); err != nil {
		return 0, err
	}

	fields, err := validateFields(in)
	if err != nil {
		return 0, err
	}

	if len(uploads) == 0 {
		return 0, fieldErr("image", "At least 1 image is required")
	}
	if len(uploads) > s.maxImages {
		return 0, fieldErr("image", fmt.Sprintf("You can upload up to %d images", s.maxImages))
	}

	refs, err := s.storeUploads(ctx, uploads)
	if err != nil {
		return 0, err
	}

	now := s.now()
	id, err := s.records.Insert(ctx, Animal{
		Fields:     fields,
		CoverImage: refs[0],
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		s.cleanupRefs(ctx, refs)
		return 0, err
	}

	// La fila del animal y su set deben hacerse visibles juntos. Los stores
	// son independientes, así que compensamos: si el set falla, se borra la
	// fila recién insertada y los archivos.
	if err := s.images.InsertSet(ctx, id, refs); err != nil {
		if derr := s.records.Delete(ctx, id); derr != nil {
			s.log.Error("create rollback failed, orphan animal row", map[string]any{"animal_id": id, "err": derr.Error()})
		}
		s.cleanupRefs(ctx, refs)
		return 0, err
	}

	return id, nil
}

// Update reemplaza los escalares completos. Sin imágenes nuevas, la cover y
// el set quedan intactos. Con imágenes nuevas, la cover pasa a ser la primera
// y el set anterior se reemplaza entero (destructivo, no merge).
func (s *Service) Update(ctx context.Context, caller auth.Caller, id int64, in Input, uploads []media.Upload) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}

	fields, err := validateFields(in)
	if err != nil {
		return err
	}
	if len(uploads) > s.maxImages {
		return fieldErr("image", fmt.Sprintf("You can upload up to %d images", s.maxImages))
	}

	if len(uploads) == 0 {
		return s.records.Update(ctx, id, fields, nil, s.now())
	}

	refs, err := s.storeUploads(ctx, uploads)
	if err != nil {
		return err
	}

	if err := s.records.Update(ctx, id, fields, &refs[0], s.now()); err != nil {
		s.cleanupRefs(ctx, refs)
		return err
	}

	// Frontera de no-atomicidad aceptada: los escalares ya están commiteados.
	// Si el reemplazo del set falla acá, no se revierte; el caller reintenta
	// el update completo. ReplaceSet en sí es todo-o-nada.
	if err := s.images.ReplaceSet(ctx, id, refs); err != nil {
		s.log.Error("image set replacement failed after scalar update", map[string]any{"animal_id": id, "err": err.Error()})
		return err
	}

	return nil
}

// Delete borra el animal y su image set en la misma operación lógica.
// No borra los archivos de media (garbage collection fuera de alcance).
func (s *Service) Delete(ctx context.Context, caller auth.Caller, id int64) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}

	if err := s.records.Delete(ctx, id); err != nil {
		return err
	}

	// Cascade como contrato explícito del image set store. En postgres el
	// FK ya borró las filas; en memoria esta llamada es la que borra.
	return s.images.DeleteForAnimal(ctx, id)
}

// Get resuelve el animal con su image set ordenado. La cover se fuerza
// presente y primera; si ya aparece en el set no se duplica.
func (s *Service) Get(ctx context.Context, id int64) (Detail, error) {
	a, err := s.records.Get(ctx, id)
	if err != nil {
		return Detail{}, err
	}

	refs, err := s.images.ListForAnimal(ctx, id)
	if err != nil {
		return Detail{}, err
	}

	return Detail{Animal: a, Images: withCoverFirst(a.CoverImage, refs)}, nil
}

func (s *Service) List(ctx context.Context) ([]Animal, error) {
	return s.records.List(ctx)
}

func withCoverFirst(cover string, refs []string) []string {
	if cover == "" {
		return refs
	}

	out := make([]string, 0, len(refs)+1)
	out = append(out, cover)
	for _, ref := range refs {
		if ref != cover {
			out = append(out, ref)
		}
	}
	return out
}
