package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/jhoicas/Heladeria-api/docs"
	"github.com/jhoicas/Heladeria-api/internal/application/analytics"
	"github.com/jhoicas/Heladeria-api/internal/application/auth"
	"github.com/jhoicas/Heladeria-api/internal/application/sales"
	"github.com/jhoicas/Heladeria-api/internal/application/usecase"
	"github.com/jhoicas/Heladeria-api/internal/domain/repository"
	"github.com/jhoicas/Heladeria-api/internal/infrastructure/memory"
	"github.com/jhoicas/Heladeria-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Heladeria-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Heladeria-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Heladeria-api/internal/infrastructure/redis"
	"github.com/jhoicas/Heladeria-api/internal/infrastructure/supabase"
	httpRouter "github.com/jhoicas/Heladeria-api/internal/interfaces/http"
	"github.com/jhoicas/Heladeria-api/pkg/config"
	"github.com/jhoicas/Heladeria-api/pkg/logger"
	"github.com/jhoicas/Heladeria-api/pkg/validation"
)

// @title                       Heladería API
// @version                     1.0
// @description                 Catálogo, ventas con descuento de inventario, editor y reportes de una heladería.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Str("auth_provider", cfg.Auth.Provider).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Almacenamiento: PostgreSQL/Supabase o memoria (desarrollo)
	var (
		txRunner sales.TxRunner
		repos    sales.TxRepos
		reports  repository.ReportRepository
	)
	switch cfg.DB.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		txRunner = memory.NewTxRunner(store)
		repos = memory.NewRepos(store)
		reports = memory.NewReportRepository(store)
		log.Warn().Msg("DB_DRIVER=memory: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			applied, err := postgres.Migrate(ctx, pool)
			if err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Strs("aplicadas", applied).Msg("migraciones al día")
		}
		txRunner = postgres.NewTxRunner(pool)
		repos = postgres.NewRepos(pool)
		reports = postgres.NewReportRepository(pool)
	}

	// Redis (opcional): llaves de idempotencia de ventas y tokens revocados en el logout
	salesOpts := []sales.Option{
		sales.WithLogger(log.Component("sales")),
		sales.WithRecorder(metrics.Recorder{}),
		sales.WithPricePolicy(cfg.Sales.PricePolicy),
	}
	var localOpts []auth.LocalOption
	if cfg.Redis.Addr != "" {
		rdb, err := infraredis.Connect(ctx, infraredis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		salesOpts = append(salesOpts, sales.WithIdempotency(infraredis.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)))
		localOpts = append(localOpts, auth.WithRevocations(infraredis.NewTokenRevocations(rdb)))
	}

	// Proveedor de identidad
	var provider auth.IdentityProvider
	switch cfg.Auth.Provider {
	case config.AuthProviderSupabase:
		provider = supabase.NewIdentityProvider(cfg.Supabase.URL, cfg.Supabase.AnonKey)
	default:
		provider = auth.NewLocalProvider(repos.Users, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}, localOpts...)
		if cfg.Redis.Addr == "" {
			log.Warn().Msg("sin REDIS_ADDR el logout local no revoca el token: sigue válido hasta expirar")
		}
	}
	resolver := auth.NewSessionResolver(provider, repos.Users)
	authUC := auth.NewAuthUseCase(provider, resolver, log.Component("auth"))

	salesUC := sales.NewUseCase(txRunner, repos, salesOpts...)

	v := validation.New()
	productUC := usecase.NewProductUseCase(repos.Products)
	ingredientUC := usecase.NewIngredientUseCase(repos.Ingredients)
	recipeUC := usecase.NewRecipeUseCase(repos.Recipes)
	editorUC := usecase.NewEditorUseCase(productUC, ingredientUC, recipeUC, v)
	catalogUC := usecase.NewCatalogUseCase(repos.Products, reports)
	userUC := usecase.NewUserUseCase(repos.Users)

	// Administrador inicial (ADMIN_EMAIL / ADMIN_PASSWORD)
	if cfg.Admin.Enabled() {
		created, err := userUC.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			log.Fatal().Err(err).Str("correo", cfg.Admin.Email).Msg("crear administrador inicial")
		}
		if created {
			log.Info().Str("correo", cfg.Admin.Email).Msg("administrador inicial creado")
		}
	}

	// PDF: informe de rentabilidad
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	reportUC := analytics.NewProfitabilityUseCase(reports, pdfGenerator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Heladería API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		Resolver:  resolver,
		CatalogUC: catalogUC,
		SalesUC:   salesUC,
		EditorUC:  editorUC,
		UserUC:    userUC,
		ReportUC:  reportUC,
		Validator: v,
		Log:       log.Component("http"),
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
