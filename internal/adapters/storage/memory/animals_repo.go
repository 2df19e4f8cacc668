package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"adopthub/internal/domain/animals"
)

// animalsRepo implementa los dos stores (record + image set) sobre el mismo
// mutex: en memoria conviene que compartan lock, el protocolo igual los ve
// como repos separados.
type animalsRepo struct {
	mu     sync.RWMutex
	byID   map[int64]animals.Animal
	images map[int64][]string
	nextID int64
}

// NewAnimalStores devuelve el mismo repo bajo las dos interfaces del protocolo.
func NewAnimalStores() (animals.RecordRepository, animals.ImageSetRepository) {
	r := &animalsRepo{
		byID:   make(map[int64]animals.Animal),
		images: make(map[int64][]string),
		nextID: 1,
	}
	return r, r
}

func (r *animalsRepo) Insert(ctx context.Context, a animals.Animal) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a.ID = r.nextID
	r.nextID++
	r.byID[a.ID] = a
	return a.ID, nil
}

func (r *animalsRepo) Update(ctx context.Context, id int64, f animals.Fields, cover *string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return animals.ErrNotFound
	}

	a.Fields = f
	if cover != nil {
		a.CoverImage = *cover
	}
	a.UpdatedAt = updatedAt
	r.byID[id] = a
	return nil
}

func (r *animalsRepo) Get(ctx context.Context, id int64) (animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return animals.Animal{}, animals.ErrNotFound
	}
	return a, nil
}

func (r *animalsRepo) List(ctx context.Context) ([]animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]animals.Animal, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *animalsRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return animals.ErrNotFound
	}
	delete(r.byID, id)
	// el image set NO cae acá: DeleteForAnimal es el contrato de cascade
	return nil
}

func (r *animalsRepo) InsertSet(ctx context.Context, animalID int64, refs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.images[animalID] = append([]string(nil), refs...)
	return nil
}

func (r *animalsRepo) ReplaceSet(ctx context.Context, animalID int64, refs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.images[animalID] = append([]string(nil), refs...)
	return nil
}

func (r *animalsRepo) ListForAnimal(ctx context.Context, animalID int64) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.images[animalID]...), nil
}

func (r *animalsRepo) DeleteForAnimal(ctx context.Context, animalID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.images, animalID)
	return nil
}
