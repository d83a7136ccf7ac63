package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Roles válidos para User.
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
)

// Sexos aceptados en el registro (valores del formulario original).
const (
	SexMale   = "Male"
	SexFemale = "Female"
)

// DefaultAvatar es el sentinel usado cuando el usuario no tiene foto propia.
// El avatar de un registro siempre es resoluble: o una ruta almacenada o este valor.
const DefaultAvatar = "/default-avatar.png"

// User representa la cuenta de un paciente o doctor del portal clínico.
// El email es único y actúa como clave natural para todas las operaciones expuestas.
type User struct {
	ID           string
	FullName     string
	Age          int
	Sex          string // Male | Female
	Weight       *decimal.Decimal // kg, opcional
	Height       *decimal.Decimal // cm, opcional
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // patient | doctor; inmutable después del registro
	Avatar       string // ruta almacenada o DefaultAvatar
	Conditions   string // texto libre, opcional
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidRole indica si el rol es uno de los aceptados en el registro.
func ValidRole(role string) bool {
	return role == RolePatient || role == RoleDoctor
}

// ValidSex indica si el sexo es uno de los aceptados en el registro.
func ValidSex(sex string) bool {
	return sex == SexMale || sex == SexFemale
}
