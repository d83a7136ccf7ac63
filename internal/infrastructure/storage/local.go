// Package storage contiene los adaptadores de almacenamiento de avatares:
// disco local (servido estáticamente bajo /uploads) y bucket S3-compatible.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/baselshm/breathtech-api/internal/application/ports"
)

var _ ports.AvatarStorage = (*LocalStorage)(nil)

// PublicPrefix ruta bajo la que el servidor HTTP sirve los avatares locales.
const PublicPrefix = "/uploads"

// LocalStorage guarda los avatares en un directorio del disco.
type LocalStorage struct {
	dir string
}

// NewLocalStorage construye el adaptador y asegura que el directorio exista.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de uploads: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

// Save escribe el blob en disco y devuelve la ruta pública (/uploads/<key>).
// El contentType no se persiste: el servidor estático lo infiere por extensión.
func (s *LocalStorage) Save(_ context.Context, key string, _ string, content io.Reader) (string, error) {
	dst := filepath.Join(s.dir, filepath.Base(key))
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("crear archivo de avatar: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		return "", fmt.Errorf("escribir avatar: %w", err)
	}
	return PublicPrefix + "/" + filepath.Base(key), nil
}

// Dir devuelve el directorio local, para montar el file server estático.
func (s *LocalStorage) Dir() string {
	return s.dir
}
