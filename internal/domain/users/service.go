package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"adopthub/internal/ports/auth"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput = errors.New("missing fields")
	ErrWeakPassword = errors.New("password must be at least 8 characters")
	ErrEmailTaken   = errors.New("email already in use")

	// Mensaje único para email inexistente y password incorrecta:
	// no revelamos cuál de los dos falló.
	ErrInvalidCredentials = errors.New("invalid email/password")
)

// Mismo costo que el deployment de referencia.
const bcryptCost = 12

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Register crea el usuario con hash bcrypt. El rol viene del form de demo y
// se clampa a admin|user; cualquier otra cosa termina siendo user.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if name == "" || email == "" || in.Password == "" {
		return User{}, ErrInvalidInput
	}
	if len(in.Password) < 8 {
		return User{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return User{}, err
	}

	u := User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         auth.ParseRole(in.Role),
		CreatedAt:    s.now(),
	}

	id, err := s.repo.Insert(ctx, u)
	if err != nil {
		return User{}, err
	}
	u.ID = id

	return u, nil
}

// Login verifica credenciales contra el hash almacenado.
func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return User{}, ErrInvalidInput
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}

	return u, nil
}
