// Package client implementa el cliente del portal: llamadas REST al API y la
// sesión local persistida en disco (el único estado durable del lado cliente).
package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/baselshm/breathtech-api/internal/application/dto"
)

// Session estado de autenticación del cliente. La variante "anónima" es una
// sesión sin token: ninguna página revisa punteros sueltos, revisan
// Authenticated().
type Session struct {
	Token string            `json:"token,omitempty"`
	User  *dto.UserResponse `json:"user,omitempty"`
}

// Authenticated indica si hay una cuenta con sesión iniciada.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != "" && s.User != nil
}

// SessionStore persiste la sesión como JSON en un archivo fijo.
type SessionStore struct {
	path string
}

// NewSessionStore construye el store; path vacío usa ~/.breathtech/session.json.
func NewSessionStore(path string) (*SessionStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolver home: %w", err)
		}
		path = filepath.Join(home, ".breathtech", "session.json")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("crear directorio de sesión: %w", err)
	}
	return &SessionStore{path: path}, nil
}

// Load rehidrata la sesión guardada. Un archivo ausente o corrupto no es
// error: se vuelve a la sesión anónima.
func (st *SessionStore) Load() *Session {
	raw, err := os.ReadFile(st.path)
	if err != nil {
		return &Session{}
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return &Session{}
	}
	return &s
}

// Save persiste la sesión (permisos solo para el usuario: contiene el token).
func (st *SessionStore) Save(s *Session) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(st.path, raw, 0o600)
}

// Clear elimina la sesión guardada (logout / cuenta eliminada).
func (st *SessionStore) Clear() error {
	err := os.Remove(st.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
