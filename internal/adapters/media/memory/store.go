package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"adopthub/internal/ports/media"

	"github.com/google/uuid"
)

// Store es un media store en memoria para dev y tests: mismas reglas de
// validación que el de disco, refs con la misma forma.
type Store struct {
	mu       sync.RWMutex
	files    map[string][]byte
	maxBytes int
}

func New() *Store {
	return &Store{
		files:    make(map[string][]byte),
		maxBytes: media.DefaultMaxBytes,
	}
}

func (s *Store) Save(ctx context.Context, up media.Upload) (string, error) {
	if !strings.HasPrefix(up.ContentType, "image/") {
		return "", media.ErrInvalidType
	}
	if len(up.Data) > s.maxBytes {
		return "", media.ErrTooLarge
	}

	ref := "/images/" + uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[ref] = append([]byte(nil), up.Data...)
	return ref, nil
}

func (s *Store) Remove(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[ref]; !ok {
		return fmt.Errorf("media ref not found: %q", ref)
	}
	delete(s.files, ref)
	return nil
}

// Len expone cuántos archivos hay guardados (solo para asserts en tests).
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}
