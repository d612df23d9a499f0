package server

import (
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/branch-expenses/constants"
	"github.com/joseph-ayodele/branch-expenses/internal/auth"
	"github.com/joseph-ayodele/branch-expenses/internal/catalog"
	"github.com/joseph-ayodele/branch-expenses/internal/expenses"
	"github.com/joseph-ayodele/branch-expenses/internal/export"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Expenses *expenses.Service
	Catalog  *catalog.Service
	Export   *export.Service
	Tokens   *auth.TokenResolver
	Oracle   *auth.Oracle
	// Driver is pinged by /healthz.
	Driver *entsql.Driver

	UploadDir       string
	UploadURLPrefix string
	MaxUploadMB     int
	Logger          *slog.Logger
}

// NewApp builds the fiber application with every route registered.
func NewApp(d Deps) *fiber.App {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxMB := d.MaxUploadMB
	if maxMB <= 0 {
		maxMB = 10
	}

	app := fiber.New(fiber.Config{
		AppName:               "branch-expenses",
		BodyLimit:             maxMB * 1024 * 1024,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		DisableStartupMessage: true,
		Immutable:             true,
		ErrorHandler:          errorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(accessLog(logger))
	app.Use(cors.New())

	app.Get("/healthz", healthz(d.Driver, logger))
	if d.UploadDir != "" && d.UploadURLPrefix != "" {
		app.Static(d.UploadURLPrefix, d.UploadDir)
	}

	api := app.Group("/api", principal(d.Tokens))

	h := &expenseHandlers{svc: d.Expenses, export: d.Export, logger: logger}
	gastos := api.Group("/gastos")
	gastos.Get("/", require(d.Oracle, constants.ModuleExpenses, constants.ActionView), h.report)
	gastos.Get("/export", require(d.Oracle, constants.ModuleExpenses, constants.ActionExport), h.exportXLSX)
	gastos.Get("/:id", require(d.Oracle, constants.ModuleExpenses, constants.ActionView), h.get)
	gastos.Post("/", require(d.Oracle, constants.ModuleExpenses, constants.ActionCreate), h.create)
	gastos.Put("/:id", require(d.Oracle, constants.ModuleExpenses, constants.ActionEdit), h.update)
	gastos.Post("/:id/anular", require(d.Oracle, constants.ModuleExpenses, constants.ActionEdit), h.void)
	gastos.Delete("/:id", require(d.Oracle, constants.ModuleExpenses, constants.ActionDelete), h.remove)

	ch := &catalogHandlers{svc: d.Catalog}
	api.Get("/sucursales", require(d.Oracle, constants.ModuleCatalogs, constants.ActionView), ch.listBranches)
	api.Post("/sucursales", require(d.Oracle, constants.ModuleCatalogs, constants.ActionCreate), ch.createBranch)
	api.Get("/conceptos-gasto", require(d.Oracle, constants.ModuleCatalogs, constants.ActionView), ch.listConcepts)
	api.Post("/conceptos-gasto", require(d.Oracle, constants.ModuleCatalogs, constants.ActionCreate), ch.createConcept)

	return app
}
