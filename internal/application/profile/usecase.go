package profile

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/baselshm/breathtech-api/internal/application/dto"
	"github.com/baselshm/breathtech-api/internal/application/ports"
	"github.com/baselshm/breathtech-api/internal/domain"
	"github.com/baselshm/breathtech-api/internal/domain/entity"
	"github.com/baselshm/breathtech-api/internal/domain/repository"
	"github.com/baselshm/breathtech-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens de sesión.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase ciclo de vida del perfil: registro, login, actualización y borrado
// de cuentas, incluyendo el ciclo del avatar (guardar blob, sentinel por
// defecto, reset explícito).
type UseCase struct {
	users   repository.UserRepository
	avatars ports.AvatarStorage
	jwtCfg  JWTConfig
}

// NewUseCase construye el caso de uso de perfil.
func NewUseCase(users repository.UserRepository, avatars ports.AvatarStorage, jwtCfg JWTConfig) *UseCase {
	return &UseCase{users: users, avatars: avatars, jwtCfg: jwtCfg}
}

// Register crea una cuenta: valida campos requeridos, hashea el password con
// bcrypt y persiste. La unicidad del email la decide el repositorio de forma
// atómica (ErrEmailAlreadyExists). Si llega avatar se guarda; si no, queda el
// sentinel por defecto.
func (uc *UseCase) Register(ctx context.Context, in dto.RegisterRequest, avatar *dto.FileUpload) (*dto.UserResponse, error) {
	if in.FullName == "" || in.Age == 0 || in.Sex == "" || in.Email == "" || in.Password == "" || in.Role == "" {
		return nil, fmt.Errorf("%w: fullName, age, sex, email, password y role son requeridos", domain.ErrValidation)
	}
	if !entity.ValidRole(in.Role) {
		return nil, fmt.Errorf("%w: role debe ser patient o doctor", domain.ErrValidation)
	}
	if !entity.ValidSex(in.Sex) {
		return nil, fmt.Errorf("%w: sex debe ser Male o Female", domain.ErrValidation)
	}

	weight, err := parseOptionalDecimal(in.Weight)
	if err != nil {
		return nil, fmt.Errorf("%w: weight inválido", domain.ErrValidation)
	}
	height, err := parseOptionalDecimal(in.Height)
	if err != nil {
		return nil, fmt.Errorf("%w: height inválido", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	avatarPath := entity.DefaultAvatar
	if !avatar.Empty() {
		avatarPath, err = uc.storeAvatar(ctx, avatar)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		FullName:     in.FullName,
		Age:          in.Age,
		Sex:          in.Sex,
		Weight:       weight,
		Height:       height,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		Avatar:       avatarPath,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica email/password, genera el token de sesión y retorna token + usuario.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

// UpdateProfile aplica un patch explícito sobre la cuenta identificada por
// email: solo los campos presentes en la petición se sobrescriben. El avatar
// tiene tres estados: archivo nuevo -> guardar y reemplazar ruta; RemoveAvatar
// -> volver al sentinel; ninguno -> dejar intacto. El blob anterior nunca se
// borra del almacenamiento. Email y role no son modificables.
func (uc *UseCase) UpdateProfile(ctx context.Context, email string, in dto.UpdateProfileRequest, avatar *dto.FileUpload) (*dto.UserResponse, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	if in.FullName != nil {
		user.FullName = *in.FullName
	}
	if in.Age != nil {
		user.Age = *in.Age
	}
	if in.Weight != nil {
		w, err := parseOptionalDecimal(*in.Weight)
		if err != nil {
			return nil, fmt.Errorf("%w: weight inválido", domain.ErrValidation)
		}
		user.Weight = w
	}
	if in.Height != nil {
		h, err := parseOptionalDecimal(*in.Height)
		if err != nil {
			return nil, fmt.Errorf("%w: height inválido", domain.ErrValidation)
		}
		user.Height = h
	}
	if in.Conditions != nil {
		user.Conditions = *in.Conditions
	}

	switch {
	case !avatar.Empty():
		path, err := uc.storeAvatar(ctx, avatar)
		if err != nil {
			return nil, err
		}
		user.Avatar = path
	case in.RemoveAvatar:
		user.Avatar = entity.DefaultAvatar
	}

	user.UpdatedAt = time.Now()
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// DeleteAccount elimina la cuenta. El archivo de avatar queda huérfano en el
// almacenamiento: no hay limpieza.
func (uc *UseCase) DeleteAccount(ctx context.Context, email string) error {
	deleted, err := uc.users.DeleteByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrUserNotFound
	}
	return nil
}

// List devuelve todas las cuentas sin password (endpoint de administración).
func (uc *UseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *toUserResponse(u))
	}
	return out, nil
}

// storeAvatar guarda el blob con clave timestamp + extensión original y
// devuelve la ruta pública resultante.
func (uc *UseCase) storeAvatar(ctx context.Context, avatar *dto.FileUpload) (string, error) {
	key := fmt.Sprintf("%d%s", time.Now().UnixNano(), filepath.Ext(avatar.Filename))
	path, err := uc.avatars.Save(ctx, key, avatar.ContentType, bytes.NewReader(avatar.Content))
	if err != nil {
		return "", fmt.Errorf("guardar avatar: %w", err)
	}
	return path, nil
}

// parseOptionalDecimal convierte el texto del formulario a decimal; cadena
// vacía significa "sin valor".
func parseOptionalDecimal(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:         u.ID,
		FullName:   u.FullName,
		Age:        u.Age,
		Sex:        u.Sex,
		Weight:     u.Weight,
		Height:     u.Height,
		Email:      u.Email,
		Role:       u.Role,
		Avatar:     u.Avatar,
		Conditions: u.Conditions,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
