package repository

import (
	"context"
	"log/slog"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/branch-expenses/internal/entity"
)

// CatalogRepository reads and seeds the branch and expense-concept catalogs.
type CatalogRepository interface {
	ListBranches(ctx context.Context) ([]*entity.Branch, error)
	ListConcepts(ctx context.Context, onlyActive bool) ([]*entity.ExpenseConcept, error)
	CreateBranch(ctx context.Context, name string) (*entity.Branch, error)
	CreateConcept(ctx context.Context, name string) (*entity.ExpenseConcept, error)
}

type catalogRepository struct {
	db      DBTX
	dialect string
	logger  *slog.Logger
}

func NewCatalogRepository(drv *entsql.Driver, logger *slog.Logger) CatalogRepository {
	return &catalogRepository{
		db:      drv.DB(),
		dialect: drv.Dialect(),
		logger:  logger,
	}
}

func (r *catalogRepository) ListBranches(ctx context.Context) ([]*entity.Branch, error) {
	b := entsql.Dialect(r.dialect)
	query, args := b.Select("id", "name").
		From(b.Table(branchesTable)).
		OrderBy("name").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list branches", "error", err)
		return nil, classify("list branches", err)
	}
	defer rows.Close()

	out := []*entity.Branch{}
	for rows.Next() {
		br := &entity.Branch{}
		if err := rows.Scan(&br.ID, &br.Name); err != nil {
			return nil, classify("scan branch", err)
		}
		out = append(out, br)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate branches", err)
	}
	return out, nil
}

func (r *catalogRepository) ListConcepts(ctx context.Context, onlyActive bool) ([]*entity.ExpenseConcept, error) {
	b := entsql.Dialect(r.dialect)
	sel := b.Select("id", "name", "active").From(b.Table(conceptsTable))
	if onlyActive {
		sel.Where(entsql.EQ("active", true))
	}
	query, args := sel.OrderBy("name").Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list expense concepts", "error", err)
		return nil, classify("list expense concepts", err)
	}
	defer rows.Close()

	out := []*entity.ExpenseConcept{}
	for rows.Next() {
		c := &entity.ExpenseConcept{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Active); err != nil {
			return nil, classify("scan expense concept", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate expense concepts", err)
	}
	return out, nil
}

func (r *catalogRepository) CreateBranch(ctx context.Context, name string) (*entity.Branch, error) {
	query, args := entsql.Dialect(r.dialect).
		Insert(branchesTable).
		Columns("name").
		Values(name).
		Returning("id").
		Query()

	br := &entity.Branch{Name: name}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&br.ID); err != nil {
		r.logger.Error("failed to create branch", "name", name, "error", err)
		return nil, classify("create branch", err)
	}
	return br, nil
}

func (r *catalogRepository) CreateConcept(ctx context.Context, name string) (*entity.ExpenseConcept, error) {
	query, args := entsql.Dialect(r.dialect).
		Insert(conceptsTable).
		Columns("name", "active").
		Values(name, true).
		Returning("id").
		Query()

	c := &entity.ExpenseConcept{Name: name, Active: true}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&c.ID); err != nil {
		r.logger.Error("failed to create expense concept", "name", name, "error", err)
		return nil, classify("create expense concept", err)
	}
	return c, nil
}
