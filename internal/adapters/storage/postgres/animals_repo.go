package postgres

import (
	"context"
	"database/sql"
	"time"

	"adopthub/internal/domain/animals"
)

type AnimalsRepo struct {
	db *sql.DB
}

func NewAnimalsRepo(db *sql.DB) *AnimalsRepo {
	return &AnimalsRepo{db: db}
}

func (r *AnimalsRepo) Insert(ctx context.Context, a animals.Animal) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO animals (
			name, species, breed, gender,
			age_months, temperament, status,
			image_url, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING animal_id
	`,
		a.Name,
		a.Species,
		a.Breed,
		string(a.Gender),
		a.AgeMonths,
		a.Temperament,
		string(a.Status),
		a.CoverImage,
		a.CreatedAt,
		a.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update reemplaza los escalares; la cover solo cambia si cover != nil
// (COALESCE), igual que el resto del sistema espera.
func (r *AnimalsRepo) Update(ctx context.Context, id int64, f animals.Fields, cover *string, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE animals
		SET
			name = $2,
			species = $3,
			breed = $4,
			gender = $5,
			age_months = $6,
			temperament = $7,
			status = $8,
			image_url = COALESCE($9, image_url),
			updated_at = $10
		WHERE animal_id = $1
	`,
		id,
		f.Name,
		f.Species,
		f.Breed,
		string(f.Gender),
		f.AgeMonths,
		f.Temperament,
		string(f.Status),
		cover,
		updatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return animals.ErrNotFound
	}
	return nil
}

func (r *AnimalsRepo) Get(ctx context.Context, id int64) (animals.Animal, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			animal_id, name, species, breed, gender,
			age_months, temperament, status,
			image_url, created_at, updated_at
		FROM animals
		WHERE animal_id = $1
	`, id)

	a, err := scanAnimal(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return animals.Animal{}, animals.ErrNotFound
		}
		return animals.Animal{}, err
	}
	return a, nil
}

func (r *AnimalsRepo) List(ctx context.Context) ([]animals.Animal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			animal_id, name, species, breed, gender,
			age_months, temperament, status,
			image_url, created_at, updated_at
		FROM animals
		ORDER BY animal_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]animals.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AnimalsRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM animals WHERE animal_id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return animals.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnimal(row rowScanner) (animals.Animal, error) {
	var a animals.Animal
	var gender, status string
	var cover sql.NullString

	if err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Species,
		&a.Breed,
		&gender,
		&a.AgeMonths,
		&a.Temperament,
		&status,
		&cover,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return animals.Animal{}, err
	}

	a.Gender = animals.Gender(gender)
	a.Status = animals.Status(status)
	if cover.Valid {
		a.CoverImage = cover.String
	}
	return a, nil
}
