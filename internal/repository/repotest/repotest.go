// Package repotest opens throwaway in-memory SQLite databases migrated with the
// production schema, for tests in any package.
package repotest

import (
	"context"
	"io"
	"log/slog"
	"testing"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/branch-expenses/internal/repository"
)

// Logger discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// New returns a migrated driver that is closed when t finishes.
func New(t testing.TB) *entsql.Driver {
	t.Helper()
	logger := Logger()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	drv, _, err := repository.Open(context.Background(), repository.Config{Driver: "sqlite", DSN: dsn}, logger)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { repository.Close(drv, nil, logger) })
	if err := repository.Migrate(context.Background(), drv, logger); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return drv
}

// Seed creates one branch and one concept and returns their ids.
func Seed(t testing.TB, drv *entsql.Driver, branch, concept string) (branchID, conceptID int64) {
	t.Helper()
	repo := repository.NewCatalogRepository(drv, Logger())
	br, err := repo.CreateBranch(context.Background(), branch)
	if err != nil {
		t.Fatalf("seed branch: %v", err)
	}
	c, err := repo.CreateConcept(context.Background(), concept)
	if err != nil {
		t.Fatalf("seed concept: %v", err)
	}
	return br.ID, c.ID
}
