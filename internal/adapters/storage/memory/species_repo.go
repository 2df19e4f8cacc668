package memory

import (
	"context"
	"sort"

	"adopthub/internal/domain/species"
)

// speciesRepo sirve la data de referencia seedeada: suficiente para dev y
// tests, el repo es read-only igual que el contrato.
type speciesRepo struct {
	species []species.Species
	breeds  []species.Breed
}

func NewSpeciesRepo() species.Repository {
	return &speciesRepo{
		species: []species.Species{
			{ID: 1, Name: "Dog"},
			{ID: 2, Name: "Cat"},
			{ID: 3, Name: "Rabbit"},
		},
		breeds: []species.Breed{
			{ID: 1, SpeciesID: 1, Name: "Labrador"},
			{ID: 2, SpeciesID: 1, Name: "Beagle"},
			{ID: 3, SpeciesID: 1, Name: "Mixed"},
			{ID: 4, SpeciesID: 2, Name: "Siamese"},
			{ID: 5, SpeciesID: 2, Name: "Persian"},
			{ID: 6, SpeciesID: 2, Name: "Common"},
			{ID: 7, SpeciesID: 3, Name: "Holland Lop"},
		},
	}
}

func (r *speciesRepo) ListSpecies(ctx context.Context) ([]species.Species, error) {
	out := append([]species.Species(nil), r.species...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *speciesRepo) ListBreeds(ctx context.Context, speciesID int64) ([]species.Breed, error) {
	out := make([]species.Breed, 0)
	for _, b := range r.breeds {
		if b.SpeciesID == speciesID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
