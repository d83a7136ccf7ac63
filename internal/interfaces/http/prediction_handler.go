package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/baselshm/breathtech-api/internal/application/dto"
	"github.com/baselshm/breathtech-api/internal/application/usecase"
	"github.com/baselshm/breathtech-api/internal/domain"
)

// PredictionHandler maneja los endpoints de diagnóstico asistido: reenvía el
// archivo subido al modelo externo y relaya su JSON.
type PredictionHandler struct {
	uc *usecase.PredictionUseCase
}

// NewPredictionHandler construye el handler.
func NewPredictionHandler(uc *usecase.PredictionUseCase) *PredictionHandler {
	return &PredictionHandler{uc: uc}
}

// Predict godoc
// @Summary      Diagnóstico pulmonar (audio)
// @Description  Multipart con el audio en "file" y los datos del paciente como
//               campos de texto, reenviados sin validación de tipos al modelo.
// @Tags         predictions
// @Security     Bearer
// @Accept       mpfd
// @Produce      json
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/predict [post]
func (h *PredictionHandler) Predict(c *fiber.Ctx) error {
	file, err := formFileUpload(c, "file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "archivo ilegible"})
	}

	result, err := h.uc.PredictPulmonary(c.Context(), file, auxiliaryFields(c))
	if err != nil {
		return predictionError(c, err)
	}
	return sendRawJSON(c, result)
}

// SkinDiagnose godoc
// @Summary      Diagnóstico de piel (imagen)
// @Tags         predictions
// @Security     Bearer
// @Accept       mpfd
// @Produce      json
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/skin-diagnose [post]
func (h *PredictionHandler) SkinDiagnose(c *fiber.Ctx) error {
	file, err := formFileUpload(c, "file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "archivo ilegible"})
	}

	result, err := h.uc.DiagnoseSkin(c.Context(), file)
	if err != nil {
		return predictionError(c, err)
	}
	return sendRawJSON(c, result)
}

func predictionError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrNoFile) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "NO_FILE", Message: "No file uploaded"})
	}
	if errors.Is(err, domain.ErrUpstream) {
		// El detalle del endpoint externo se le devuelve al caller tal cual.
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "UPSTREAM", Message: err.Error()})
	}
	return serverError(c, err)
}

// auxiliaryFields recolecta todos los valores de texto del multipart (Age,
// BMI, vitales, ubicaciones torácicas...) como pares opacos clave/valor.
func auxiliaryFields(c *fiber.Ctx) map[string]string {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	fields := make(map[string]string, len(form.Value))
	for k, vals := range form.Value {
		if len(vals) > 0 {
			fields[k] = vals[0]
		}
	}
	return fields
}

// sendRawJSON relaya el cuerpo JSON del modelo sin re-serializarlo.
func sendRawJSON(c *fiber.Ctx, raw []byte) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(raw)
}
