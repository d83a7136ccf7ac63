package usecase

import (
	"context"
	"encoding/json"

	"github.com/baselshm/breathtech-api/internal/application/dto"
	"github.com/baselshm/breathtech-api/internal/application/ports"
	"github.com/baselshm/breathtech-api/internal/domain"
)

// PredictionUseCase orquesta el reenvío de archivos a los modelos externos.
// No interpreta la respuesta: el JSON del endpoint se relaya tal cual al
// cliente. La única validación local es que exista un archivo; sin archivo no
// se hace ninguna llamada saliente.
type PredictionUseCase struct {
	pulmonary ports.PulmonaryPredictor
	skin      ports.SkinDiagnoser
}

// NewPredictionUseCase construye el caso de uso inyectando ambos puertos.
func NewPredictionUseCase(pulmonary ports.PulmonaryPredictor, skin ports.SkinDiagnoser) *PredictionUseCase {
	return &PredictionUseCase{pulmonary: pulmonary, skin: skin}
}

// PredictPulmonary reenvía el audio y los campos auxiliares del paciente
// (Age, BMI, vitales, indicadores de ubicación torácica...) como pares
// clave/valor opacos al modelo pulmonar.
func (uc *PredictionUseCase) PredictPulmonary(ctx context.Context, file *dto.FileUpload, fields map[string]string) (json.RawMessage, error) {
	if file.Empty() {
		return nil, domain.ErrNoFile
	}
	return uc.pulmonary.Predict(ctx, *file, fields)
}

// DiagnoseSkin reenvía la imagen al modelo de piel. Sin campos auxiliares.
func (uc *PredictionUseCase) DiagnoseSkin(ctx context.Context, file *dto.FileUpload) (json.RawMessage, error) {
	if file.Empty() {
		return nil, domain.ErrNoFile
	}
	return uc.skin.Diagnose(ctx, *file)
}
