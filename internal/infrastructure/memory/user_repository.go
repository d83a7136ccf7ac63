// Package memory implementa el puerto UserRepository en memoria. Se usa en
// tests y como store efímero para correr el API sin PostgreSQL.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/baselshm/breathtech-api/internal/domain"
	"github.com/baselshm/breathtech-api/internal/domain/entity"
	"github.com/baselshm/breathtech-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo store de usuarios en memoria, indexado por email. El mutex cumple
// el mismo papel que el constraint único de PostgreSQL: la inserción duplicada
// se rechaza atómicamente.
type UserRepo struct {
	mu      sync.RWMutex
	byEmail map[string]*entity.User
}

// NewUserRepository construye el store vacío.
func NewUserRepository() *UserRepo {
	return &UserRepo{byEmail: make(map[string]*entity.User)}
}

// Create inserta el usuario; email duplicado retorna ErrEmailAlreadyExists.
func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[user.Email]; ok {
		return domain.ErrEmailAlreadyExists
	}
	cp := *user
	r.byEmail[user.Email] = &cp
	return nil
}

// GetByID busca por ID. Devuelve (nil, nil) si no existe.
func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// GetByEmail busca por email. Devuelve (nil, nil) si no existe.
func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// Update sobrescribe el registro existente (last-write-wins).
func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.byEmail[user.Email] = &cp
	return nil
}

// List devuelve todos los usuarios ordenados por email para resultados estables.
func (r *UserRepo) List(_ context.Context) ([]*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.User, 0, len(r.byEmail))
	for _, u := range r.byEmail {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

// DeleteByEmail elimina el registro y reporta si existía.
func (r *UserRepo) DeleteByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[email]; !ok {
		return false, nil
	}
	delete(r.byEmail, email)
	return true, nil
}
