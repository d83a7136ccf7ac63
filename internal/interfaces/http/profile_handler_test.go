package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baselshm/breathtech-api/internal/application/dto"
	"github.com/baselshm/breathtech-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// POST /api/register
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_CreaCuentaSinAvatar(t *testing.T) {
	env := newTestEnv(t)

	status, body := doRequest(t, env.app,
		multipartRequest(t, http.MethodPost, "/api/register", registerFields("a@x.com", entity.RolePatient), "", "", nil))
	require.Equal(t, http.StatusCreated, status)

	var out dto.RegisterResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "User registered successfully!", out.Message)
	assert.Equal(t, "a@x.com", out.User.Email)
	assert.Equal(t, entity.DefaultAvatar, out.User.Avatar)
}

func TestRegister_ConAvatarSirveElArchivo(t *testing.T) {
	env := newTestEnv(t)

	avatarBytes := []byte("contenido-del-png")
	status, body := doRequest(t, env.app,
		multipartRequest(t, http.MethodPost, "/api/register",
			registerFields("a@x.com", entity.RolePatient), "avatar", "foto.png", avatarBytes))
	require.Equal(t, http.StatusCreated, status)

	var out dto.RegisterResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.True(t, strings.HasPrefix(out.User.Avatar, "/uploads/"), "avatar: %s", out.User.Avatar)

	// La ruta devuelta debe ser servida por el estático de /uploads.
	status, served := doRequest(t, env.app, jsonRequest(t, http.MethodGet, out.User.Avatar, nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, avatarBytes, served)
}

func TestRegister_EmailDuplicadoResponde400(t *testing.T) {
	env := newTestEnv(t)

	status, _ := doRequest(t, env.app,
		multipartRequest(t, http.MethodPost, "/api/register", registerFields("a@x.com", entity.RolePatient), "", "", nil))
	require.Equal(t, http.StatusCreated, status)

	status, body := doRequest(t, env.app,
		multipartRequest(t, http.MethodPost, "/api/register", registerFields("a@x.com", entity.RolePatient), "", "", nil))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "EMAIL_EXISTS", decodeError(t, body).Code)
}

func TestRegister_CamposFaltantesResponde400(t *testing.T) {
	env := newTestEnv(t)

	fields := registerFields("a@x.com", entity.RolePatient)
	delete(fields, "password")
	status, body := doRequest(t, env.app,
		multipartRequest(t, http.MethodPost, "/api/register", fields, "", "", nil))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", decodeError(t, body).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// POST /api/login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_Contrato(t *testing.T) {
	env := newTestEnv(t)
	registerAndLogin(t, env, "a@x.com", entity.RolePatient)

	// Email desconocido y password incorrecto responden 400, como el portal original.
	status, body := doRequest(t, env.app,
		jsonRequest(t, http.MethodPost, "/api/login", dto.LoginRequest{Email: "nadie@x.com", Password: "p4ssword!"}))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Email not found", decodeError(t, body).Message)

	status, body = doRequest(t, env.app,
		jsonRequest(t, http.MethodPost, "/api/login", dto.LoginRequest{Email: "a@x.com", Password: "wrong"}))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid password", decodeError(t, body).Message)
}

// ──────────────────────────────────────────────────────────────────────────────
// PUT /api/update-profile
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateProfile_RequiereToken(t *testing.T) {
	env := newTestEnv(t)

	status, _ := doRequest(t, env.app,
		jsonRequest(t, http.MethodPut, "/api/update-profile", dto.UpdateProfileRequest{}))
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestUpdateProfile_PatchJSONParcial(t *testing.T) {
	env := newTestEnv(t)
	token := registerAndLogin(t, env, "a@x.com", entity.RolePatient)

	conditions := "asma leve"
	status, body := doRequest(t, env.app,
		withToken(jsonRequest(t, http.MethodPut, "/api/update-profile",
			dto.UpdateProfileRequest{Conditions: &conditions}), token))
	require.Equal(t, http.StatusOK, status)

	var out dto.UpdateProfileResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "asma leve", out.User.Conditions)
	// El resto del perfil queda como en el registro.
	assert.Equal(t, "Paciente De Prueba", out.User.FullName)
	assert.Equal(t, 34, out.User.Age)
}

func TestUpdateProfile_MultipartConAvatarYRemove(t *testing.T) {
	env := newTestEnv(t)
	token := registerAndLogin(t, env, "a@x.com", entity.RolePatient)

	// Subir avatar por multipart junto con un campo de texto.
	status, body := doRequest(t, env.app,
		withToken(multipartRequest(t, http.MethodPut, "/api/update-profile",
			map[string]string{"fullName": "Ana"}, "avatar", "nueva.png", []byte("png")), token))
	require.Equal(t, http.StatusOK, status)

	var out dto.UpdateProfileResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "Ana", out.User.FullName)
	assert.True(t, strings.HasPrefix(out.User.Avatar, "/uploads/"))

	// removeAvatar vuelve al sentinel sin tocar lo demás.
	status, body = doRequest(t, env.app,
		withToken(multipartRequest(t, http.MethodPut, "/api/update-profile",
			map[string]string{"removeAvatar": "true"}, "", "", nil), token))
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, entity.DefaultAvatar, out.User.Avatar)
	assert.Equal(t, "Ana", out.User.FullName)
}

// ──────────────────────────────────────────────────────────────────────────────
// DELETE /api/delete-account
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteAccount_SoloLaPropia(t *testing.T) {
	env := newTestEnv(t)
	token := registerAndLogin(t, env, "a@x.com", entity.RolePatient)

	// Un email ajeno en el cuerpo se rechaza aunque el token sea válido.
	status, body := doRequest(t, env.app,
		withToken(jsonRequest(t, http.MethodDelete, "/api/delete-account",
			dto.DeleteAccountRequest{Email: "otro@x.com"}), token))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", decodeError(t, body).Code)
}

func TestDeleteAccount_EliminaYElLoginFalla(t *testing.T) {
	env := newTestEnv(t)
	token := registerAndLogin(t, env, "a@x.com", entity.RolePatient)

	status, body := doRequest(t, env.app,
		withToken(jsonRequest(t, http.MethodDelete, "/api/delete-account", nil), token))
	require.Equal(t, http.StatusOK, status)

	var msg dto.MessageResponse
	require.NoError(t, json.Unmarshal(body, &msg))
	assert.Equal(t, "Account deleted successfully", msg.Message)

	status, body = doRequest(t, env.app,
		jsonRequest(t, http.MethodPost, "/api/login", dto.LoginRequest{Email: "a@x.com", Password: "p4ssword!"}))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Email not found", decodeError(t, body).Message)

	// Repetir el borrado con el token todavía vigente: la cuenta ya no existe.
	status, _ = doRequest(t, env.app,
		withToken(jsonRequest(t, http.MethodDelete, "/api/delete-account", nil), token))
	assert.Equal(t, http.StatusNotFound, status)
}

// ──────────────────────────────────────────────────────────────────────────────
// GET /api/users
// ──────────────────────────────────────────────────────────────────────────────

func TestListUsers_SoloDoctores(t *testing.T) {
	env := newTestEnv(t)
	patientToken := registerAndLogin(t, env, "p@x.com", entity.RolePatient)
	doctorToken := registerAndLogin(t, env, "d@x.com", entity.RoleDoctor)

	status, _ := doRequest(t, env.app,
		withToken(jsonRequest(t, http.MethodGet, "/api/users", nil), patientToken))
	assert.Equal(t, http.StatusForbidden, status)

	status, body := doRequest(t, env.app,
		withToken(jsonRequest(t, http.MethodGet, "/api/users", nil), doctorToken))
	require.Equal(t, http.StatusOK, status)

	var users []dto.UserResponse
	require.NoError(t, json.Unmarshal(body, &users))
	assert.Len(t, users, 2)
}
