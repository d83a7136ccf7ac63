package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baselshm/breathtech-api/internal/domain"
	"github.com/baselshm/breathtech-api/internal/domain/entity"
	"github.com/baselshm/breathtech-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, full_name, age, sex, weight, height, email, password_hash, role, avatar, conditions, created_at, updated_at`

// Create persiste un nuevo usuario. La unicidad del email la garantiza el
// constraint UNIQUE: una violación se traduce a ErrEmailAlreadyExists sin
// ventana de carrera entre chequeo e inserción.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.pool.Exec(ctx, query,
		user.ID, user.FullName, user.Age, user.Sex, user.Weight, user.Height,
		user.Email, user.PasswordHash, user.Role, user.Avatar, user.Conditions,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

// GetByEmail obtiene un usuario por email. Devuelve (nil, nil) si no existe.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`
	return r.queryOne(ctx, query, email)
}

func (r *UserRepo) queryOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var u entity.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.FullName, &u.Age, &u.Sex, &u.Weight, &u.Height,
		&u.Email, &u.PasswordHash, &u.Role, &u.Avatar, &u.Conditions,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// Update sobrescribe los campos mutables del usuario (el merge parcial lo
// resuelve el caso de uso; aquí llega la entidad ya combinada). Email y role
// no se tocan: ninguna operación expuesta los cambia.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET full_name = $2, age = $3, weight = $4, height = $5, avatar = $6, conditions = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.pool.Exec(ctx, query,
		user.ID, user.FullName, user.Age, user.Weight, user.Height,
		user.Avatar, user.Conditions, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// List devuelve todos los usuarios ordenados por fecha de registro.
func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(
			&u.ID, &u.FullName, &u.Age, &u.Sex, &u.Weight, &u.Height,
			&u.Email, &u.PasswordHash, &u.Role, &u.Avatar, &u.Conditions,
			&u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// DeleteByEmail elimina la cuenta con ese email. El blob del avatar en el
// almacenamiento no se borra (queda huérfano, igual que en los reemplazos).
func (r *UserRepo) DeleteByEmail(ctx context.Context, email string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE email = $1`, email)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
