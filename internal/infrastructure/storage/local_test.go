package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveDevuelveRutaPublica(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	path, err := store.Save(context.Background(), "1700000000.png", "image/png", bytes.NewReader([]byte("png-bytes")))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1700000000.png", path)

	written, err := os.ReadFile(filepath.Join(dir, "1700000000.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), written)
}

// La clave se reduce a su nombre base: un key malicioso no puede escapar del
// directorio de uploads.
func TestLocalStorage_SaveIgnoraRutasEnLaClave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	path, err := store.Save(context.Background(), "../../etc/passwd.png", "image/png", bytes.NewReader([]byte("x")))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/passwd.png", path)

	_, err = os.Stat(filepath.Join(dir, "passwd.png"))
	assert.NoError(t, err, "el archivo queda dentro del directorio de uploads")
}

func TestNewLocalStorage_CreaElDirectorio(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "anidado", "uploads")
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, dir, store.Dir())
}
