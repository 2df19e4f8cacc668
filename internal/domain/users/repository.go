package users

import "context"

type Repository interface {
	// Insert crea el usuario y devuelve el id asignado.
	// Email duplicado => ErrEmailTaken.
	Insert(ctx context.Context, u User) (int64, error)

	GetByEmail(ctx context.Context, email string) (User, error)
}
