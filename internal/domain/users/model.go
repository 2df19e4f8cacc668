package users

import (
	"time"

	"adopthub/internal/ports/auth"
)

// User es el credential store: email único, hash bcrypt, rol admin|user.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         auth.Role

	CreatedAt time.Time
}

// Caller arma la identidad de sesión a partir del usuario.
func (u User) Caller() auth.Caller {
	return auth.Caller{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
