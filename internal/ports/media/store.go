package media

import (
	"context"
	"errors"
)

// Límite por archivo del deployment de referencia (5 MiB).
const DefaultMaxBytes = 5 << 20

var (
	ErrInvalidType = errors.New("only image files allowed")
	ErrTooLarge    = errors.New("image file too large")
)

// Upload es un archivo ya leído del multipart form.
// ContentType es el tipo declarado por el cliente; el store decide si lo acepta.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Store persiste archivos subidos y devuelve una referencia estable (path público).
// No garantiza transaccionalidad entre archivos: quien sube varios debe
// limpiar con Remove si aborta a mitad de camino.
type Store interface {
	// Save valida tipo/tamaño y persiste. Devuelve la referencia pública.
	Save(ctx context.Context, up Upload) (string, error)

	// Remove borra una referencia previamente guardada. Best-effort:
	// se usa solo para limpiar mutaciones abortadas.
	Remove(ctx context.Context, ref string) error
}
