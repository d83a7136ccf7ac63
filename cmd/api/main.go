package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/baselshm/breathtech-api/internal/application/profile"
	"github.com/baselshm/breathtech-api/internal/application/ports"
	"github.com/baselshm/breathtech-api/internal/application/usecase"
	infraai "github.com/baselshm/breathtech-api/internal/infrastructure/ai"
	"github.com/baselshm/breathtech-api/internal/infrastructure/postgres"
	"github.com/baselshm/breathtech-api/internal/infrastructure/storage"
	httpRouter "github.com/baselshm/breathtech-api/internal/interfaces/http"
	"github.com/baselshm/breathtech-api/pkg/config"
	"github.com/baselshm/breathtech-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	if err := postgres.RunMigrations(ctx, cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)

	// Almacenamiento de avatares: disco local (servido bajo /uploads) o S3.
	var avatarStore ports.AvatarStorage
	uploadsDir := ""
	switch cfg.Uploads.Driver {
	case "s3":
		avatarStore, err = storage.NewS3Storage(ctx, cfg.Uploads)
		if err != nil {
			log.Fatal().Err(err).Msg("almacenamiento S3")
		}
	default:
		local, err := storage.NewLocalStorage(cfg.Uploads.Dir)
		if err != nil {
			log.Fatal().Err(err).Msg("directorio de uploads")
		}
		avatarStore = local
		uploadsDir = local.Dir()
	}

	profileUC := profile.NewUseCase(userRepo, avatarStore, profile.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	aiTimeout := time.Duration(cfg.AI.TimeoutSeconds) * time.Second
	pulmonaryClient := infraai.NewPulmonaryClient(cfg.AI.PulmonaryURL, aiTimeout)
	skinClient := infraai.NewSkinClient(cfg.AI.SkinURL, aiTimeout)
	predictionUC := usecase.NewPredictionUseCase(pulmonaryClient, skinClient)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    16 * 1024 * 1024, // audios e imágenes se bufferizan completos
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "BreathTech API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProfileUC:    profileUC,
		PredictionUC: predictionUC,
		JWTSecret:    cfg.JWT.Secret,
		UploadsDir:   uploadsDir,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
