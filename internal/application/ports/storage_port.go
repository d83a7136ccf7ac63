package ports

import (
	"context"
	"io"
)

// AvatarStorage define el puerto de almacenamiento de avatares.
// Save escribe el blob bajo la clave dada y devuelve la ruta pública con la
// que queda referenciado en el registro del usuario. No hay Delete: los blobs
// reemplazados quedan huérfanos a propósito.
type AvatarStorage interface {
	Save(ctx context.Context, key string, contentType string, content io.Reader) (string, error)
}
