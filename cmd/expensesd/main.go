package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/branch-expenses/internal/auth"
	"github.com/joseph-ayodele/branch-expenses/internal/catalog"
	"github.com/joseph-ayodele/branch-expenses/internal/common"
	"github.com/joseph-ayodele/branch-expenses/internal/expenses"
	"github.com/joseph-ayodele/branch-expenses/internal/export"
	repo "github.com/joseph-ayodele/branch-expenses/internal/repository"
	"github.com/joseph-ayodele/branch-expenses/internal/server"
)

func main() {
	cfg, err := common.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(2)
	}
	logger := common.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	loc, _ := time.LoadLocation(cfg.Timezone)
	// monto is sent as a JSON number
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	drv, pool, err := repo.Open(ctx, repo.Config{
		Driver:           cfg.Database.Driver,
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err, "driver", cfg.Database.Driver)
		os.Exit(1)
	}
	defer repo.Close(drv, pool, logger)

	// Ping DB to ensure connectivity
	if err := repo.HealthCheck(ctx, drv, 5*time.Second, logger); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	if cfg.Database.AutoMigrate {
		if err := repo.Migrate(ctx, drv, logger); err != nil {
			os.Exit(1)
		}
	}

	grants, err := auth.LoadGrants(cfg.Auth.PermissionsFile)
	if err != nil {
		logger.Error("failed to load permission grants", "file", cfg.Auth.PermissionsFile, "error", err)
		os.Exit(1)
	}
	oracle, err := auth.NewOracle(grants)
	if err != nil {
		logger.Error("invalid permission grants", "error", err)
		os.Exit(1)
	}

	expenseRepo := repo.NewExpenseRepository(drv, logger)
	receiptRepo := repo.NewReceiptRepository(drv, logger)
	catalogRepo := repo.NewCatalogRepository(drv, logger)

	expenseService := expenses.NewService(
		expenseRepo,
		receiptRepo,
		repo.NewTxManager(drv, logger),
		expenses.NewReceiptStore(cfg.Uploads.Dir, cfg.Uploads.URLPrefix, logger),
		expenses.NewParser(loc, nil),
		logger,
	)

	app := server.NewApp(server.Deps{
		Expenses:        expenseService,
		Catalog:         catalog.NewService(catalogRepo, logger),
		Export:          export.NewService(expenseRepo, logger),
		Tokens:          auth.NewTokenResolver(cfg.Auth.JWTSecret, logger),
		Oracle:          oracle,
		Driver:          drv,
		UploadDir:       cfg.Uploads.Dir,
		UploadURLPrefix: cfg.Uploads.URLPrefix,
		MaxUploadMB:     cfg.Uploads.MaxUploadMB,
		Logger:          logger,
	})

	// gRPC health service
	health := server.NewHealthServer(logger)
	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", cfg.Server.GRPCAddr, "error", err)
		os.Exit(1)
	}
	health.SetServing(true)
	go health.Watch(ctx, drv, 15*time.Second)
	go func() {
		if err := health.Serve(lis); err != nil {
			logger.Error("gRPC serve error", "error", err)
			stop()
		}
	}()

	go func() {
		logger.Info("branch-expenses listening", "addr", cfg.Server.HTTPAddr, "timezone", cfg.Timezone)
		if err := app.Listen(cfg.Server.HTTPAddr); err != nil && !errors.Is(err, net.ErrClosed) {
			logger.Error("http serve error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	health.SetServing(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("http shutdown error", "error", err)
	}
	health.Stop()
}
