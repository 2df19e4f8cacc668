package postgres

import (
	"context"
	"database/sql"

	"adopthub/internal/domain/species"
)

type SpeciesRepo struct {
	db *sql.DB
}

func NewSpeciesRepo(db *sql.DB) *SpeciesRepo {
	return &SpeciesRepo{db: db}
}

func (r *SpeciesRepo) ListSpecies(ctx context.Context) ([]species.Species, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT species_id, species_name
		FROM species
		ORDER BY species_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]species.Species, 0)
	for rows.Next() {
		var sp species.Species
		if err := rows.Scan(&sp.ID, &sp.Name); err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

func (r *SpeciesRepo) ListBreeds(ctx context.Context, speciesID int64) ([]species.Breed, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT breed_id, species_id, breed_name
		FROM breed
		WHERE species_id = $1
		ORDER BY breed_name
	`, speciesID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]species.Breed, 0)
	for rows.Next() {
		var b species.Breed
		if err := rows.Scan(&b.ID, &b.SpeciesID, &b.Name); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
