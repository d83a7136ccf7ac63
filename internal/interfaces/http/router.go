package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/baselshm/breathtech-api/internal/application/profile"
	"github.com/baselshm/breathtech-api/internal/application/usecase"
	"github.com/baselshm/breathtech-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProfileUC    *profile.UseCase
	PredictionUC *usecase.PredictionUseCase
	JWTSecret    string
	UploadsDir   string // vacío = avatares en S3, no se monta el estático
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	profileHandler := NewProfileHandler(deps.ProfileUC)
	predictionHandler := NewPredictionHandler(deps.PredictionUC)

	// Registro y login (público)
	api.Post("/register", profileHandler.Register)
	api.Post("/login", profileHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Put("/update-profile", profileHandler.UpdateProfile)
	protected.Delete("/delete-account", profileHandler.DeleteAccount)

	// Listado de cuentas y modelos de diagnóstico: solo doctores. Los
	// pacientes del portal solo acceden al chat general, igual que en la UI.
	doctors := protected.Group("/", RequireRole(entity.RoleDoctor))
	doctors.Get("/users", profileHandler.ListUsers)
	doctors.Post("/predict", predictionHandler.Predict)
	doctors.Post("/skin-diagnose", predictionHandler.SkinDiagnose)

	// Avatares locales servidos estáticamente
	if deps.UploadsDir != "" {
		app.Static("/uploads", deps.UploadsDir)
	}
}
