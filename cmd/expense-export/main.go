package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/joseph-ayodele/branch-expenses/internal/common"
	"github.com/joseph-ayodele/branch-expenses/internal/expenses"
	"github.com/joseph-ayodele/branch-expenses/internal/export"
	repo "github.com/joseph-ayodele/branch-expenses/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		branch = flag.String("sucursal", "", "branch id to filter by (optional)")
		date   = flag.String("fecha", "", "date to filter by, yyyy-mm-dd or dd/mm/yyyy (optional)")
		out    = flag.String("out", "", "output XLSX file path (defaults to gastos_<today>.xlsx)")
	)
	flag.Parse()

	cfg, err := common.LoadConfig()
	if err != nil {
		printError("Error: loading config: %v\n", err)
		os.Exit(1)
	}
	logger := common.NewLogger(os.Stderr, cfg.LogLevel)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		printError("Error: unknown TIMEZONE %q: %v\n", cfg.Timezone, err)
		os.Exit(1)
	}
	filter, err := expenses.NewParser(loc, nil).ParseFilter(*branch, *date)
	if err != nil {
		printError("Error: invalid filter: %v\n", err)
		os.Exit(1)
	}
	if *out == "" {
		*out = fmt.Sprintf("gastos_%s.xlsx", time.Now().In(loc).Format("20060102"))
	}

	ctx := context.Background()
	drv, pool, err := repo.Open(ctx, repo.Config{
		Driver:      cfg.Database.Driver,
		DSN:         cfg.Database.DSN,
		MaxConns:    2,
		MinConns:    1,
		DialTimeout: cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer repo.Close(drv, pool, logger)

	svc := export.NewService(repo.NewExpenseRepository(drv, logger), logger)
	data, err := svc.ExpensesXLSX(ctx, filter)
	if err != nil {
		logger.Error("failed to export expenses", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		logger.Error("failed to write output file", "error", err)
		os.Exit(1)
	}
	fmt.Printf("Export complete: %s\n", *out)
}
