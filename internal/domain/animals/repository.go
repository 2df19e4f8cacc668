package animals

import (
	"context"
	"time"
)

// RecordRepository es el store de filas de animals.
// Update/Delete devuelven ErrNotFound cuando no afectan filas.
type RecordRepository interface {
	// Insert crea la fila y devuelve el id asignado por el store.
	Insert(ctx context.Context, a Animal) (int64, error)

	// Update reemplaza los campos escalares. Si cover != nil también
	// reemplaza la referencia de cover; si es nil la deja intacta.
	Update(ctx context.Context, id int64, f Fields, cover *string, updatedAt time.Time) error

	Get(ctx context.Context, id int64) (Animal, error)

	// List devuelve todos los animales ordenados por id ascendente.
	List(ctx context.Context) ([]Animal, error)

	Delete(ctx context.Context, id int64) error
}

// ImageSetRepository es el store de animal_images.
// El set de un animal se lee en orden de sort_order (empates por inserción).
type ImageSetRepository interface {
	// InsertSet inserta todas las refs preservando el orden de subida
	// como sort_order. Todo-o-nada.
	InsertSet(ctx context.Context, animalID int64, refs []string) error

	// ReplaceSet borra el set anterior e inserta el nuevo. Todo-o-nada:
	// nunca deja un set a medio reemplazar.
	ReplaceSet(ctx context.Context, animalID int64, refs []string) error

	ListForAnimal(ctx context.Context, animalID int64) ([]string, error)

	// DeleteForAnimal borra el set completo del animal. Es el contrato
	// explícito de cascade que invoca el protocolo en delete; en postgres
	// el FK ON DELETE CASCADE ya lo hizo y esta llamada es idempotente.
	DeleteForAnimal(ctx context.Context, animalID int64) error
}
