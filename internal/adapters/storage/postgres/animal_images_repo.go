package postgres

import (
	"context"
	"database/sql"
)

type AnimalImagesRepo struct {
	db *sql.DB
}

func NewAnimalImagesRepo(db *sql.DB) *AnimalImagesRepo {
	return &AnimalImagesRepo{db: db}
}

// InsertSet inserta todas las refs en una transacción: sort_order = índice
// de subida. Nunca queda un set parcial.
func (r *AnimalImagesRepo) InsertSet(ctx context.Context, animalID int64, refs []string) error {
	if len(refs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := insertRefs(ctx, tx, animalID, refs); err != nil {
		return err
	}
	return tx.Commit()
}

// ReplaceSet borra el set anterior e inserta el nuevo en una transacción:
// o se ve el set viejo completo o el nuevo completo, nunca una mezcla.
func (r *AnimalImagesRepo) ReplaceSet(ctx context.Context, animalID int64, refs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM animal_images WHERE animal_id = $1`, animalID); err != nil {
		return err
	}
	if err := insertRefs(ctx, tx, animalID, refs); err != nil {
		return err
	}
	return tx.Commit()
}

func insertRefs(ctx context.Context, tx *sql.Tx, animalID int64, refs []string) error {
	for i, ref := range refs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO animal_images (animal_id, image_url, sort_order)
			VALUES ($1, $2, $3)
		`, animalID, ref, i); err != nil {
			return err
		}
	}
	return nil
}

// ListForAnimal devuelve las refs en orden de display:
// sort_order asc, empates por orden de inserción (id).
func (r *AnimalImagesRepo) ListForAnimal(ctx context.Context, animalID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT image_url
		FROM animal_images
		WHERE animal_id = $1
		ORDER BY sort_order ASC, image_id ASC
	`, animalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

// DeleteForAnimal es el contrato explícito de cascade. El FK ON DELETE
// CASCADE del schema ya borra las filas cuando cae el animal; esta llamada
// es idempotente y cubre el caso de stores sin FK.
func (r *AnimalImagesRepo) DeleteForAnimal(ctx context.Context, animalID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM animal_images WHERE animal_id = $1`, animalID)
	return err
}
