package ports

import (
	"context"
	"encoding/json"

	"github.com/baselshm/breathtech-api/internal/application/dto"
)

// PulmonaryPredictor define el puerto de salida hacia el modelo de diagnóstico
// pulmonar. El adaptador reenvía el audio más los campos auxiliares del
// paciente (como strings opacos, sin validación de tipos) y relaya el JSON del
// endpoint sin interpretarlo.
type PulmonaryPredictor interface {
	Predict(ctx context.Context, file dto.FileUpload, fields map[string]string) (json.RawMessage, error)
}

// SkinDiagnoser define el puerto hacia el modelo de diagnóstico de piel.
// Mismo contrato que el pulmonar pero con un único archivo de imagen.
type SkinDiagnoser interface {
	Diagnose(ctx context.Context, file dto.FileUpload) (json.RawMessage, error)
}
