package http

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/baselshm/breathtech-api/internal/application/dto"
	"github.com/baselshm/breathtech-api/internal/application/profile"
	"github.com/baselshm/breathtech-api/internal/domain"
)

// ProfileHandler maneja registro, login, perfil y borrado de cuentas.
type ProfileHandler struct {
	uc *profile.UseCase
}

// NewProfileHandler construye el handler de perfil.
func NewProfileHandler(uc *profile.UseCase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar cuenta
// @Description  Acepta JSON o multipart (el avatar viaja como archivo "avatar").
// @Tags         profile
// @Accept       mpfd
// @Produce      json
// @Success      201  {object}  dto.RegisterResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/register [post]
func (h *ProfileHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	avatar, err := formFileUpload(c, "avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "avatar ilegible"})
	}

	user, err := h.uc.Register(c.Context(), in, avatar)
	if err != nil {
		// Duplicado y validación comparten 400: es el contrato del frontend.
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
		}
		if errors.Is(err, domain.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return serverError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.RegisterResponse{
		Message: "User registered successfully!",
		User:    *user,
	})
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         profile
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.LoginResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/login [post]
func (h *ProfileHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email y password son requeridos"})
	}
	out, err := h.uc.Login(c.Context(), in)
	if err != nil {
		// El contrato original responde 400 tanto para email desconocido como
		// para password incorrecto.
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "Email not found"})
		}
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_CREDENTIALS", Message: "Invalid password"})
		}
		return serverError(c, err)
	}
	return c.JSON(out)
}

// UpdateProfile godoc
// @Summary      Actualizar perfil (patch parcial)
// @Description  Solo los campos presentes se sobrescriben. removeAvatar=true
//               resetea al avatar por defecto; un archivo "avatar" lo reemplaza.
// @Tags         profile
// @Security     Bearer
// @Accept       mpfd
// @Produce      json
// @Success      200  {object}  dto.UpdateProfileResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/update-profile [put]
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	in, ok := parseUpdateRequest(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	avatar, err := formFileUpload(c, "avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "avatar ilegible"})
	}

	// La cuenta a modificar sale del token, no del cuerpo: cada quien edita lo suyo.
	user, err := h.uc.UpdateProfile(c.Context(), GetEmail(c), in, avatar)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "User not found"})
		}
		if errors.Is(err, domain.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return serverError(c, err)
	}
	return c.JSON(dto.UpdateProfileResponse{User: *user})
}

// DeleteAccount godoc
// @Summary      Eliminar cuenta
// @Tags         profile
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/delete-account [delete]
func (h *ProfileHandler) DeleteAccount(c *fiber.Ctx) error {
	// El cuerpo puede traer el email (contrato original), pero solo se acepta
	// si coincide con la cuenta autenticada.
	var in dto.DeleteAccountRequest
	_ = c.BodyParser(&in)
	email := GetEmail(c)
	if in.Email != "" && in.Email != email {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo puedes eliminar tu propia cuenta"})
	}

	if err := h.uc.DeleteAccount(c.Context(), email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "User not found"})
		}
		return serverError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Account deleted successfully"})
}

// ListUsers godoc
// @Summary      Listar cuentas (solo doctores)
// @Tags         profile
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.UserResponse
// @Router       /api/users [get]
func (h *ProfileHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.uc.List(c.Context())
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(users)
}

// parseUpdateRequest arma el patch de actualización. En JSON los punteros
// marcan presencia de forma natural; en multipart la presencia la da el propio
// formulario, así que se construye campo por campo.
func parseUpdateRequest(c *fiber.Ctx) (dto.UpdateProfileRequest, bool) {
	var in dto.UpdateProfileRequest
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if err := c.BodyParser(&in); err != nil {
			return in, false
		}
		return in, true
	}

	form, err := c.MultipartForm()
	if err != nil {
		return in, false
	}
	get := func(key string) *string {
		vals, ok := form.Value[key]
		if !ok || len(vals) == 0 {
			return nil
		}
		v := vals[0]
		return &v
	}
	in.FullName = get("fullName")
	in.Weight = get("weight")
	in.Height = get("height")
	in.Conditions = get("conditions")
	if raw := get("age"); raw != nil {
		age, err := strconv.Atoi(*raw)
		if err != nil {
			return in, false
		}
		in.Age = &age
	}
	if raw := get("removeAvatar"); raw != nil {
		in.RemoveAvatar = *raw == "true" || *raw == "1"
	}
	return in, true
}

// formFileUpload lee (bufferiza completo) el archivo del campo dado.
// Devuelve (nil, nil) si el campo no viene en la petición.
func formFileUpload(c *fiber.Ctx, field string) (*dto.FileUpload, error) {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &dto.FileUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Content:     content,
	}, nil
}

// serverError respuesta 500 genérica; el detalle va al log del recover, no al cliente.
func serverError(c *fiber.Ctx, _ error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "Server error"})
}
