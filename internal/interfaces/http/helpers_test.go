package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/baselshm/breathtech-api/internal/application/dto"
	"github.com/baselshm/breathtech-api/internal/application/profile"
	"github.com/baselshm/breathtech-api/internal/application/usecase"
	"github.com/baselshm/breathtech-api/internal/infrastructure/memory"
	"github.com/baselshm/breathtech-api/internal/infrastructure/storage"
)

const testSecret = "secret-de-pruebas"

// fakePulmonary dobla el puerto del modelo pulmonar registrando cada llamada.
type fakePulmonary struct {
	calls      int
	lastFile   dto.FileUpload
	lastFields map[string]string
	response   json.RawMessage
	err        error
}

func (f *fakePulmonary) Predict(_ context.Context, file dto.FileUpload, fields map[string]string) (json.RawMessage, error) {
	f.calls++
	f.lastFile = file
	f.lastFields = fields
	return f.response, f.err
}

// fakeSkin dobla el puerto del modelo de piel.
type fakeSkin struct {
	calls    int
	lastFile dto.FileUpload
	response json.RawMessage
	err      error
}

func (f *fakeSkin) Diagnose(_ context.Context, file dto.FileUpload) (json.RawMessage, error) {
	f.calls++
	f.lastFile = file
	return f.response, f.err
}

// testEnv aplicación completa montada sobre store en memoria, uploads en un
// directorio temporal y modelos de predicción dobles.
type testEnv struct {
	app       *fiber.App
	repo      *memory.UserRepo
	pulmonary *fakePulmonary
	skin      *fakeSkin
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := memory.NewUserRepository()
	avatars, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	profileUC := profile.NewUseCase(repo, avatars, profile.JWTConfig{
		Secret:     testSecret,
		ExpMinutes: 60,
		Issuer:     "breathtech-test",
	})

	pulmonary := &fakePulmonary{response: json.RawMessage(`{"prediction":"Healthy"}`)}
	skin := &fakeSkin{response: json.RawMessage(`{"diagnosis":"nevus"}`)}
	predictionUC := usecase.NewPredictionUseCase(pulmonary, skin)

	app := fiber.New()
	Router(app, RouterDeps{
		ProfileUC:    profileUC,
		PredictionUC: predictionUC,
		JWTSecret:    testSecret,
		UploadsDir:   avatars.Dir(),
	})

	return &testEnv{app: app, repo: repo, pulmonary: pulmonary, skin: skin}
}

// doRequest ejecuta la petición contra la app de Fiber y devuelve status + cuerpo.
func doRequest(t *testing.T, app *fiber.App, req *http.Request) (int, []byte) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return req
}

// multipartRequest arma la petición multipart con campos de texto y, si
// filename no es vacío, un archivo bajo fileField.
func multipartRequest(t *testing.T, method, target string, fields map[string]string, fileField, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func withToken(req *http.Request, token string) *http.Request {
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	return req
}

func registerFields(email, role string) map[string]string {
	return map[string]string{
		"fullName": "Paciente De Prueba",
		"age":      "34",
		"sex":      "Female",
		"email":    email,
		"password": "p4ssword!",
		"role":     role,
	}
}

// registerAndLogin crea la cuenta vía el API y devuelve el token de sesión.
func registerAndLogin(t *testing.T, env *testEnv, email, role string) string {
	t.Helper()
	status, body := doRequest(t, env.app,
		multipartRequest(t, http.MethodPost, "/api/register", registerFields(email, role), "", "", nil))
	require.Equal(t, http.StatusCreated, status, "registro: %s", body)

	status, body = doRequest(t, env.app,
		jsonRequest(t, http.MethodPost, "/api/login", dto.LoginRequest{Email: email, Password: "p4ssword!"}))
	require.Equal(t, http.StatusOK, status, "login: %s", body)

	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Token
}

func decodeError(t *testing.T, body []byte) dto.ErrorResponse {
	t.Helper()
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}
