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
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/gestor-tareas/internal/application/access"
	"github.com/jhoicas/gestor-tareas/internal/application/analytics"
	"github.com/jhoicas/gestor-tareas/internal/application/auth"
	"github.com/jhoicas/gestor-tareas/internal/application/store"
	"github.com/jhoicas/gestor-tareas/internal/application/tasks"
	"github.com/jhoicas/gestor-tareas/internal/application/usecase"
	infrapdf "github.com/jhoicas/gestor-tareas/internal/infrastructure/pdf"
	"github.com/jhoicas/gestor-tareas/internal/infrastructure/redisstore"
	"github.com/jhoicas/gestor-tareas/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/gestor-tareas/internal/interfaces/http"
	"github.com/jhoicas/gestor-tareas/pkg/config"
	"github.com/jhoicas/gestor-tareas/pkg/logger"
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
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	docs, closeStore, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén de documentos")
	}
	defer closeStore()

	entityStore := store.New(docs, log)
	authorizer := access.NewAuthorizer(entityStore, access.Policy{
		EjecutorOnlyAssigned: cfg.Access.EjecutorOnlyAssigned,
	})
	lifecycle := tasks.NewLifecycleUseCase(entityStore, log)

	authUC := auth.NewAuthUseCase(entityStore, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	created, err := authUC.BootstrapSuperadmin(ctx, auth.SuperadminSeed{
		Email:    cfg.Superadmin.Email,
		Password: cfg.Superadmin.Password,
		Name:     cfg.Superadmin.Name,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("crear superadmin inicial")
	}
	if !created && cfg.Superadmin.Email == "" {
		log.Warn().Msg("SUPERADMIN_EMAIL no configurado; no se crea superadmin inicial")
	}

	// Redis opcional: proyecto activo compartido entre instancias y límite de login distribuido
	var (
		rdb        *redis.Client
		selections access.SelectionStore
	)
	if cfg.Redis.Enabled() {
		rdb, err = redisstore.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conectar a Redis")
		}
		defer rdb.Close()
		selections = redisstore.NewSelections(rdb, time.Duration(cfg.JWT.Expiration)*time.Minute)
		log.Info().Msg("proyecto activo y límite de login en Redis")
	}
	loginLimiter := httpRouter.NewRateLimiter(rdb, cfg.RateLimit.LoginPerMinute, cfg.RateLimit.LoginBurst, "login", log)

	// PDF: reporte del dashboard de tareas
	dashboardUC := analytics.NewDashboardUseCase(entityStore, authorizer, lifecycle, infrapdf.NewMarotoReportGenerator())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Gestor de Tareas API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		CompanyUC:  usecase.NewCompanyUseCase(entityStore, authorizer, log),
		ProjectUC:  usecase.NewProjectUseCase(entityStore, authorizer, log),
		UserUC:     usecase.NewUserUseCase(entityStore, authorizer, log),
		Lifecycle:  lifecycle,
		Dashboard:  dashboardUC,
		Authorizer: authorizer,
		Active:     access.NewActiveProjects(authorizer, selections),
		JWTSecret:  cfg.JWT.Secret,

		LoginLimiter: loginLimiter.Handler(),
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
