package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/baselshm/breathtech-api/internal/application/dto"
	"github.com/baselshm/breathtech-api/internal/application/ports"
)

// Verificar en tiempo de compilación que PulmonaryClient implementa el puerto.
var _ ports.PulmonaryPredictor = (*PulmonaryClient)(nil)

// PulmonaryClient adaptador hacia el backend FastAPI del modelo pulmonar.
// Usa net/http de la librería estándar; el endpoint espera multipart con el
// audio en "file" y los datos del paciente (Age, BMI, SBP, DBP, HR, SpO2,
// Has_Crackles, Has_Wheezes, Sex_M, Chest_Location_*) como campos de texto.
type PulmonaryClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewPulmonaryClient construye el adaptador con timeout de red propio.
// El endpoint externo no se reintenta: un fallo se propaga al caller.
func NewPulmonaryClient(endpoint string, timeout time.Duration) *PulmonaryClient {
	return &PulmonaryClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Predict reenvía el audio y los campos auxiliares, y relaya el JSON del modelo.
func (c *PulmonaryClient) Predict(ctx context.Context, file dto.FileUpload, fields map[string]string) (json.RawMessage, error) {
	return forwardMultipart(ctx, c.httpClient, c.endpoint, file, fields)
}
