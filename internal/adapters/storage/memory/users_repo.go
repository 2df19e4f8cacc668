package memory

import (
	"context"
	"errors"
	"sync"

	"adopthub/internal/domain/users"
)

var (
	ErrNotFound = errors.New("not found")
)

type usersRepo struct {
	mu      sync.RWMutex
	byEmail map[string]users.User
	nextID  int64
}

func NewUsersRepo() users.Repository {
	return &usersRepo{
		byEmail: make(map[string]users.User),
		nextID:  1,
	}
}

func (r *usersRepo) Insert(ctx context.Context, u users.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[u.Email]; exists {
		return 0, users.ErrEmailTaken
	}

	u.ID = r.nextID
	r.nextID++
	r.byEmail[u.Email] = u
	return u.ID, nil
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[email]
	if !ok {
		return users.User{}, ErrNotFound
	}
	return u, nil
}
