package repository

import (
	"context"

	"github.com/baselshm/breathtech-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// GetByEmail devuelve (nil, nil) cuando no existe; Create retorna
// domain.ErrEmailAlreadyExists si el email ya está registrado (constraint único,
// inserción atómica: el chequeo no es responsabilidad del caso de uso).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context) ([]*entity.User, error)
	// DeleteByEmail elimina por email y reporta si existía una fila.
	DeleteByEmail(ctx context.Context, email string) (bool, error)
}
