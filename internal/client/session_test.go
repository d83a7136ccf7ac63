package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baselshm/breathtech-api/internal/application/dto"
)

func newTestStore(t *testing.T) *SessionStore {
	t.Helper()
	store, err := NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	return store
}

func TestSessionStore_SinArchivoEsAnonima(t *testing.T) {
	store := newTestStore(t)

	s := store.Load()
	require.NotNil(t, s)
	assert.False(t, s.Authenticated())
}

func TestSessionStore_GuardaYRehidrata(t *testing.T) {
	store := newTestStore(t)

	saved := &Session{
		Token: "tok-123",
		User:  &dto.UserResponse{Email: "a@x.com", FullName: "Ana", Role: "doctor"},
	}
	require.NoError(t, store.Save(saved))

	loaded := store.Load()
	assert.True(t, loaded.Authenticated())
	assert.Equal(t, "tok-123", loaded.Token)
	assert.Equal(t, "a@x.com", loaded.User.Email)
	assert.Equal(t, "doctor", loaded.User.Role)
}

// Archivo corrupto no es error fatal: la sesión vuelve a anónima, igual que
// cuando el navegador original perdía el localStorage.
func TestSessionStore_ArchivoCorruptoVuelveAAnonima(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, err := NewSessionStore(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("{esto no es json"), 0o600))

	s := store.Load()
	require.NotNil(t, s)
	assert.False(t, s.Authenticated())
}

func TestSessionStore_ClearEsIdempotente(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(&Session{Token: "tok", User: &dto.UserResponse{Email: "a@x.com"}}))
	require.NoError(t, store.Clear())
	assert.False(t, store.Load().Authenticated())

	// Borrar de nuevo sin archivo presente no falla.
	assert.NoError(t, store.Clear())
}

func TestSessionStore_ArchivoConPermisosPrivados(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, err := NewSessionStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(&Session{Token: "tok"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "el token no debe ser legible por otros usuarios")
}

func TestSession_Authenticated(t *testing.T) {
	assert.False(t, (&Session{}).Authenticated())
	assert.False(t, (&Session{Token: "tok"}).Authenticated(), "token sin usuario no es sesión completa")
	assert.False(t, (&Session{User: &dto.UserResponse{}}).Authenticated())
	assert.True(t, (&Session{Token: "tok", User: &dto.UserResponse{Email: "a@x.com"}}).Authenticated())
}
