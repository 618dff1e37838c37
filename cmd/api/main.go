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

	"github.com/tu-usuario/contable-pro/internal/application/usecase"
	"github.com/tu-usuario/contable-pro/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/contable-pro/internal/interfaces/http"
	"github.com/tu-usuario/contable-pro/pkg/config"
	"github.com/tu-usuario/contable-pro/pkg/logger"
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
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.ApplyMigrations(cfg.DB.ConnectionString(), cfg.DB.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	txRunner := postgres.NewTxRunner(pool)
	groupRepo := postgres.NewGroupRepository(pool, txRunner)
	userRepo := postgres.NewUserRepository(pool)
	groupUC := usecase.NewGroupUseCase(groupRepo)

	var resolver httpRouter.IdentityResolver
	switch cfg.Auth.Mode {
	case "jwt":
		resolver = httpRouter.NewJWTIdentityResolver(cfg.JWT.Secret, userRepo)
	default:
		// Stub de desarrollo: identidad por header confiable.
		resolver = httpRouter.NewHeaderIdentityResolver(userRepo)
		log.Warn().Msg("AUTH_MODE=header: identidad sin verificación criptográfica, solo desarrollo")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.NewErrorHandler(log, cfg.App.Env),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestID())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Contable Pro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		GroupUC:  groupUC,
		Resolver: resolver,
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
