package local

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"adopthub/internal/ports/media"

	"github.com/google/uuid"
)

// URLPrefix es el path público bajo el que se sirven los archivos guardados.
const URLPrefix = "/images/"

// Store guarda imágenes en disco bajo root y devuelve referencias públicas
// /images/<nombre>. El nombre es timestamp + uuid: único frente a subidas
// previas o concurrentes.
type Store struct {
	root     string
	maxBytes int
}

func New(root string) (*Store, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("media root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	return &Store{root: root, maxBytes: media.DefaultMaxBytes}, nil
}

// WithMaxBytes ajusta el techo por archivo (default 5 MiB).
func (s *Store) WithMaxBytes(n int) *Store {
	if n > 0 {
		s.maxBytes = n
	}
	return s
}

func (s *Store) Save(ctx context.Context, up media.Upload) (string, error) {
	if !strings.HasPrefix(up.ContentType, "image/") {
		return "", media.ErrInvalidType
	}
	if len(up.Data) > s.maxBytes {
		return "", media.ErrTooLarge
	}

	ext := strings.ToLower(filepath.Ext(up.Filename))
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)

	if err := os.WriteFile(filepath.Join(s.root, name), up.Data, 0o644); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}

	return URLPrefix + name, nil
}

func (s *Store) Remove(ctx context.Context, ref string) error {
	name := path.Base(strings.TrimPrefix(ref, URLPrefix))
	if name == "" || name == "." || name == "/" {
		return fmt.Errorf("invalid media ref: %q", ref)
	}
	return os.Remove(filepath.Join(s.root, name))
}
