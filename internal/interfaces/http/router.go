package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Heladeria-api/internal/application/analytics"
	"github.com/jhoicas/Heladeria-api/internal/application/auth"
	"github.com/jhoicas/Heladeria-api/internal/application/sales"
	"github.com/jhoicas/Heladeria-api/internal/application/usecase"
	"github.com/jhoicas/Heladeria-api/internal/domain/access"
	"github.com/jhoicas/Heladeria-api/pkg/logger"
	"github.com/jhoicas/Heladeria-api/pkg/validation"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	Resolver  *auth.SessionResolver
	CatalogUC *usecase.CatalogUseCase
	SalesUC   *sales.UseCase
	EditorUC  *usecase.EditorUseCase
	UserUC    *usecase.UserUseCase
	ReportUC  *analytics.ProfitabilityUseCase
	Validator *validation.Validator
	Log       *logger.Logger
}

// Router registra las rutas de la API. Cada request pasa por SessionMiddleware y cada
// ruta protegida declara la acción que exige con Require.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	v := deps.Validator
	if v == nil {
		v = validation.New()
	}

	api := app.Group("/api", SessionMiddleware(deps.Resolver, log.Component("session")))

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC, v, log)
	userHandler := NewUserHandler(deps.UserUC, v, log)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", userHandler.Register)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/me", Require(access.ViewProfile), authHandler.Me)
	authGroup.Put("/password", Require(access.ChangePassword), authHandler.ChangePassword)

	// Catálogo
	catalogHandler := NewCatalogHandler(deps.CatalogUC, log)
	api.Get("/catalog", Require(access.ViewCatalog), catalogHandler.List)
	api.Get("/calorias", Require(access.ViewCalories), catalogHandler.Calories)

	// Ventas
	saleHandler := NewSaleHandler(deps.SalesUC, v, log)
	ventas := api.Group("/ventas")
	ventas.Get("/", Require(access.ListSales), saleHandler.List)
	ventas.Get("/opciones", Require(access.RegisterSale), saleHandler.Options)
	ventas.Get("/compradores", Require(access.ChooseBuyer), saleHandler.Buyers)
	ventas.Post("/", Require(access.RegisterSale), saleHandler.Register)
	ventas.Delete("/:id", Require(access.DeleteSale), saleHandler.Delete)

	// Editor (admin)
	editorHandler := NewEditorHandler(deps.EditorUC, log)
	editor := api.Group("/editor", Require(access.ManageCatalog))
	editor.Get("/:tab", editorHandler.List)
	editor.Post("/:tab", editorHandler.Save)
	editor.Delete("/:tab/:id", editorHandler.Delete)

	// Usuarios (admin)
	users := api.Group("/users", Require(access.ManageUsers))
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Reportes (admin)
	reportHandler := NewReportHandler(deps.ReportUC, log)
	reports := api.Group("/rentabilidad", Require(access.ViewProfitability))
	reports.Get("/", reportHandler.Profitability)
	reports.Get("/pdf", reportHandler.ProfitabilityPDF)
}
