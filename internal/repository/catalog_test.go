package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/joseph-ayodele/branch-expenses/internal/common"
	"github.com/joseph-ayodele/branch-expenses/internal/repository"
	"github.com/joseph-ayodele/branch-expenses/internal/repository/repotest"
)

func TestCatalogRepository(t *testing.T) {
	ctx := context.Background()
	drv := repotest.New(t)
	repo := repository.NewCatalogRepository(drv, repotest.Logger())

	for _, name := range []string{"Norte", "Centro"} {
		if _, err := repo.CreateBranch(ctx, name); err != nil {
			t.Fatalf("CreateBranch(%s): %v", name, err)
		}
	}
	branches, err := repo.ListBranches(ctx)
	if err != nil {
		t.Fatalf("ListBranches: %v", err)
	}
	if len(branches) != 2 || branches[0].Name != "Centro" {
		t.Fatalf("branches not ordered by name: %+v", branches)
	}

	if _, err := repo.CreateBranch(ctx, "Centro"); !errors.Is(err, common.ErrConstraint) {
		t.Fatalf("duplicate branch: got %v, want constraint violation", err)
	}

	if _, err := repo.CreateConcept(ctx, "Renta"); err != nil {
		t.Fatalf("CreateConcept: %v", err)
	}
	concepts, err := repo.ListConcepts(ctx, true)
	if err != nil {
		t.Fatalf("ListConcepts: %v", err)
	}
	if len(concepts) != 1 || !concepts[0].Active {
		t.Fatalf("unexpected concepts: %+v", concepts)
	}
}
