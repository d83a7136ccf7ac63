package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/baselshm/breathtech-api/internal/application/dto"
	"github.com/baselshm/breathtech-api/internal/application/ports"
)

var _ ports.SkinDiagnoser = (*SkinClient)(nil)

// SkinClient adaptador hacia el modelo de diagnóstico de piel. Contrato
// mínimo: un único archivo de imagen en "file", sin campos auxiliares.
type SkinClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewSkinClient construye el adaptador con timeout de red propio.
func NewSkinClient(endpoint string, timeout time.Duration) *SkinClient {
	return &SkinClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Diagnose reenvía la imagen y relaya el JSON del modelo.
func (c *SkinClient) Diagnose(ctx context.Context, file dto.FileUpload) (json.RawMessage, error) {
	return forwardMultipart(ctx, c.httpClient, c.endpoint, file, nil)
}
