package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joseph-ayodele/branch-expenses/internal/auth"
	"github.com/joseph-ayodele/branch-expenses/internal/common"
)

func main() {
	var (
		userID = flag.Int64("user", 0, "principal user id (required, positive)")
		role   = flag.String("role", "admin", "role name used for permission grants")
		branch = flag.Int64("sucursal", 0, "default branch id (optional)")
		ttl    = flag.Duration("ttl", 24*time.Hour, "token lifetime")
	)
	flag.Parse()

	if *userID <= 0 {
		fmt.Fprintln(os.Stderr, "Error: --user is required")
		os.Exit(2)
	}
	cfg, err := common.LoadConfig()
	if err != nil || cfg.Auth.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "Error: JWT_SECRET env var is required")
		os.Exit(2)
	}

	var branchID *int64
	if *branch > 0 {
		branchID = branch
	}
	logger := common.NewLogger(os.Stderr, cfg.LogLevel)
	tok, err := auth.NewTokenResolver(cfg.Auth.JWTSecret, logger).Issue(*userID, *role, branchID, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: signing token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
