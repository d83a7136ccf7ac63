package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/baselshm/breathtech-api/internal/application/dto"
)

// API cliente REST del portal.
type API struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPI construye el cliente apuntando al servidor dado.
func NewAPI(baseURL string) *API {
	return &API{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Register registra una cuenta; avatarPath opcional (vacío = sin avatar).
func (a *API) Register(ctx context.Context, in dto.RegisterRequest, avatarPath string) (*dto.UserResponse, error) {
	fields := map[string]string{
		"fullName": in.FullName,
		"age":      fmt.Sprintf("%d", in.Age),
		"sex":      in.Sex,
		"weight":   in.Weight,
		"height":   in.Height,
		"email":    in.Email,
		"password": in.Password,
		"role":     in.Role,
	}
	var out dto.RegisterResponse
	if err := a.postMultipart(ctx, "/api/register", "", "avatar", avatarPath, fields, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Login inicia sesión y devuelve token + usuario.
func (a *API) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	err := a.doJSON(ctx, http.MethodPost, "/api/login", "", dto.LoginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile envía el patch parcial; solo los campos no nulos se tocan.
func (a *API) UpdateProfile(ctx context.Context, token string, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	var out dto.UpdateProfileResponse
	if err := a.doJSON(ctx, http.MethodPut, "/api/update-profile", token, in, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// SetAvatar reemplaza la foto de perfil subiendo el archivo dado.
func (a *API) SetAvatar(ctx context.Context, token, avatarPath string) (*dto.UserResponse, error) {
	var out dto.UpdateProfileResponse
	if err := a.putMultipart(ctx, "/api/update-profile", token, "avatar", avatarPath, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// DeleteAccount elimina la cuenta autenticada.
func (a *API) DeleteAccount(ctx context.Context, token, email string) error {
	var out dto.MessageResponse
	return a.doJSON(ctx, http.MethodDelete, "/api/delete-account", token, dto.DeleteAccountRequest{Email: email}, &out)
}

// Predict sube el audio más los campos del paciente al diagnóstico pulmonar.
func (a *API) Predict(ctx context.Context, token, filePath string, fields map[string]string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := a.postMultipart(ctx, "/api/predict", token, "file", filePath, fields, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SkinDiagnose sube la imagen al diagnóstico de piel.
func (a *API) SkinDiagnose(ctx context.Context, token, filePath string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := a.postMultipart(ctx, "/api/skin-diagnose", token, "file", filePath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListUsers lista todas las cuentas (requiere rol doctor).
func (a *API) ListUsers(ctx context.Context, token string) ([]dto.UserResponse, error) {
	var out []dto.UserResponse
	if err := a.doJSON(ctx, http.MethodGet, "/api/users", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *API) doJSON(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.send(req, token, out)
}

func (a *API) postMultipart(ctx context.Context, path, token, fileField, filePath string, fields map[string]string, out any) error {
	return a.multipart(ctx, http.MethodPost, path, token, fileField, filePath, fields, out)
}

func (a *API) putMultipart(ctx context.Context, path, token, fileField, filePath string, fields map[string]string, out any) error {
	return a.multipart(ctx, http.MethodPut, path, token, fileField, filePath, fields, out)
}

func (a *API) multipart(ctx context.Context, method, path, token, fileField, filePath string, fields map[string]string, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return err
		}
	}
	if filePath != "" {
		content, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("leer %s: %w", filePath, err)
		}
		part, err := w.CreateFormFile(fileField, filepath.Base(filePath))
		if err != nil {
			return err
		}
		if _, err := part.Write(content); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return a.send(req, token, out)
}

// send ejecuta la petición, traduce errores del API y decodifica el cuerpo.
func (a *API) send(req *http.Request, token string, out any) error {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("llamada al servidor: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("leer respuesta: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr dto.ErrorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("%s (%s)", apiErr.Message, apiErr.Code)
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}
