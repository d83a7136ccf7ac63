package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterRequest entrada para registro. Llega como JSON o multipart (el avatar
// viaja aparte como archivo). Weight y Height vienen como texto porque el
// formulario los envía vacíos cuando no aplican.
type RegisterRequest struct {
	FullName string `json:"fullName" form:"fullName" validate:"required,min=1,max=200"`
	Age      int    `json:"age" form:"age" validate:"required,min=1"`
	Sex      string `json:"sex" form:"sex" validate:"required,oneof=Male Female"`
	Weight   string `json:"weight" form:"weight" validate:"omitempty"`
	Height   string `json:"height" form:"height" validate:"omitempty"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=8"`
	Role     string `json:"role" form:"role" validate:"required,oneof=patient doctor"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest patch explícito del perfil: solo los campos presentes
// (punteros no nulos) se sobrescriben; un formulario que no envía "conditions"
// no lo borra. RemoveAvatar indica de forma explícita volver al avatar por
// defecto, distinto de "no tocar el avatar".
type UpdateProfileRequest struct {
	FullName     *string `json:"fullName"`
	Age          *int    `json:"age"`
	Weight       *string `json:"weight"`
	Height       *string `json:"height"`
	Conditions   *string `json:"conditions"`
	RemoveAvatar bool    `json:"removeAvatar"`
}

// DeleteAccountRequest entrada para eliminar cuenta.
type DeleteAccountRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UserResponse salida de un usuario (sin password). Las claves JSON replican
// el contrato que consume el frontend (camelCase).
type UserResponse struct {
	ID         string           `json:"id"`
	FullName   string           `json:"fullName"`
	Age        int              `json:"age"`
	Sex        string           `json:"sex"`
	Weight     *decimal.Decimal `json:"weight,omitempty"`
	Height     *decimal.Decimal `json:"height,omitempty"`
	Email      string           `json:"email"`
	Role       string           `json:"role"`
	Avatar     string           `json:"avatar"`
	Conditions string           `json:"conditions,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// RegisterResponse salida del registro.
type RegisterResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// LoginResponse salida del login: token de sesión + usuario sin password.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UpdateProfileResponse salida de la actualización de perfil.
type UpdateProfileResponse struct {
	User UserResponse `json:"user"`
}
