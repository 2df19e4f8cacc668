package species

import "context"

type Repository interface {
	// ListSpecies devuelve todas las especies ordenadas por nombre.
	ListSpecies(ctx context.Context) ([]Species, error)

	// ListBreeds devuelve las razas de una especie. Especie inexistente => lista vacía.
	ListBreeds(ctx context.Context, speciesID int64) ([]Breed, error)
}
