package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/branch-expenses/constants"
	"github.com/joseph-ayodele/branch-expenses/internal/common"
	"github.com/joseph-ayodele/branch-expenses/internal/entity"
)

type ExpenseRepository interface {
	Create(ctx context.Context, e *entity.Expense) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.Expense, error)
	// GetForUpdate is GetByID with a row lock where the dialect supports one.
	GetForUpdate(ctx context.Context, id int64) (*entity.Expense, error)
	Update(ctx context.Context, e *entity.Expense) error
	SetStatus(ctx context.Context, id int64, status constants.ExpenseStatus) error
	Delete(ctx context.Context, id int64) error
	Report(ctx context.Context, f entity.ExpenseFilter) ([]*entity.ExpenseReportRow, error)
	Count(ctx context.Context, f entity.ExpenseFilter) (int, error)
	// WithTx returns a repository bound to tx.
	WithTx(tx *sql.Tx) ExpenseRepository
}

type expenseRepository struct {
	db      DBTX
	dialect string
	logger  *slog.Logger
}

func NewExpenseRepository(drv *entsql.Driver, logger *slog.Logger) ExpenseRepository {
	return &expenseRepository{
		db:      drv.DB(),
		dialect: drv.Dialect(),
		logger:  logger,
	}
}

func (r *expenseRepository) WithTx(tx *sql.Tx) ExpenseRepository {
	return &expenseRepository{db: tx, dialect: r.dialect, logger: r.logger}
}

func (r *expenseRepository) Create(ctx context.Context, e *entity.Expense) (int64, error) {
	query, args := entsql.Dialect(r.dialect).
		Insert(expensesTable).
		Columns(
			"branch_id", "concept_id", "amount", "payment_method", "description",
			"observations", "folio", "expense_date", "status", "receipt_id",
			"created_by", "created_at", "updated_at",
		).
		Values(
			e.BranchID, e.ConceptID, e.Amount.StringFixed(2), e.PaymentMethod, e.Description,
			e.Observations, nullString(e.Folio), e.Date, string(e.Status), nullInt64(e.ReceiptID),
			e.CreatedBy, e.CreatedAt, e.UpdatedAt,
		).
		Returning("id").
		Query()

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		r.logger.Error("failed to create expense", "branch_id", e.BranchID, "concept_id", e.ConceptID, "error", err)
		return 0, classify("create expense", err)
	}
	return id, nil
}

func (r *expenseRepository) GetByID(ctx context.Context, id int64) (*entity.Expense, error) {
	return r.get(ctx, id, false)
}

func (r *expenseRepository) GetForUpdate(ctx context.Context, id int64) (*entity.Expense, error) {
	return r.get(ctx, id, true)
}

func (r *expenseRepository) get(ctx context.Context, id int64, lock bool) (*entity.Expense, error) {
	b := entsql.Dialect(r.dialect)
	sel := b.
		Select(
			"id", "branch_id", "concept_id", "amount", "payment_method", "description",
			"observations", "folio", "expense_date", "status", "receipt_id",
			"created_by", "created_at", "updated_at",
		).
		From(b.Table(expensesTable)).
		Where(entsql.EQ("id", id))
	// sqlite has no row locks; its single connection already serializes writers
	if lock && r.dialect == dialect.Postgres {
		sel.ForUpdate()
	}
	query, args := sel.Query()

	var (
		e         entity.Expense
		folio     sql.NullString
		receiptID sql.NullInt64
		status    string
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&e.ID, &e.BranchID, &e.ConceptID, &e.Amount, &e.PaymentMethod, &e.Description,
		&e.Observations, &folio, &e.Date, &status, &receiptID,
		&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &common.NotFoundError{Resource: "expense", ID: id}
	}
	if err != nil {
		r.logger.Error("failed to get expense", "expense_id", id, "error", err)
		return nil, classify("get expense", err)
	}
	if folio.Valid {
		e.Folio = &folio.String
	}
	if receiptID.Valid {
		e.ReceiptID = &receiptID.Int64
	}
	e.Status = constants.ExpenseStatus(status)
	return &e, nil
}

// Update overwrites every mutable column. Identity, creator and created_at are kept.
func (r *expenseRepository) Update(ctx context.Context, e *entity.Expense) error {
	query, args := entsql.Dialect(r.dialect).
		Update(expensesTable).
		Set("branch_id", e.BranchID).
		Set("concept_id", e.ConceptID).
		Set("amount", e.Amount.StringFixed(2)).
		Set("payment_method", e.PaymentMethod).
		Set("description", e.Description).
		Set("observations", e.Observations).
		Set("folio", nullString(e.Folio)).
		Set("expense_date", e.Date).
		Set("status", string(e.Status)).
		Set("receipt_id", nullInt64(e.ReceiptID)).
		Set("updated_at", e.UpdatedAt).
		Where(entsql.EQ("id", e.ID)).
		Query()

	return r.execOne(ctx, "update expense", e.ID, query, args)
}

func (r *expenseRepository) SetStatus(ctx context.Context, id int64, status constants.ExpenseStatus) error {
	query, args := entsql.Dialect(r.dialect).
		Update(expensesTable).
		Set("status", string(status)).
		Where(entsql.EQ("id", id)).
		Query()

	return r.execOne(ctx, "set expense status", id, query, args)
}

func (r *expenseRepository) Delete(ctx context.Context, id int64) error {
	query, args := entsql.Dialect(r.dialect).
		Delete(expensesTable).
		Where(entsql.EQ("id", id)).
		Query()

	return r.execOne(ctx, "delete expense", id, query, args)
}

func (r *expenseRepository) execOne(ctx context.Context, op string, id int64, query string, args []any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("expense write failed", "op", op, "expense_id", id, "error", err)
		return classify(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify(op, err)
	}
	if n == 0 {
		return &common.NotFoundError{Resource: "expense", ID: id}
	}
	return nil
}

// Report lists expenses joined with branch, concept and receipt, newest date first and,
// within a date, newest inserted first.
func (r *expenseRepository) Report(ctx context.Context, f entity.ExpenseFilter) ([]*entity.ExpenseReportRow, error) {
	b := entsql.Dialect(r.dialect)
	e := b.Table(expensesTable).As("e")
	br := b.Table(branchesTable).As("b")
	c := b.Table(conceptsTable).As("c")
	rc := b.Table(receiptsTable).As("r")

	sel := b.Select(
		e.C("id"), e.C("branch_id"), br.C("name"), e.C("concept_id"), c.C("name"),
		e.C("amount"), e.C("payment_method"), e.C("description"), e.C("observations"),
		e.C("folio"), e.C("expense_date"), e.C("status"), rc.C("url"),
	).
		From(e).
		LeftJoin(br).On(e.C("branch_id"), br.C("id")).
		LeftJoin(c).On(e.C("concept_id"), c.C("id")).
		LeftJoin(rc).On(e.C("receipt_id"), rc.C("id"))
	applyFilter(sel, e, f)
	query, args := sel.OrderBy(entsql.Desc(e.C("expense_date")), entsql.Desc(e.C("id"))).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query expense report", "error", err)
		return nil, classify("query expense report", err)
	}
	defer rows.Close()

	out := []*entity.ExpenseReportRow{}
	for rows.Next() {
		var (
			row         entity.ExpenseReportRow
			branchName  sql.NullString
			conceptName sql.NullString
			folio       sql.NullString
			receiptURL  sql.NullString
		)
		if err := rows.Scan(
			&row.ID, &row.BranchID, &branchName, &row.ConceptID, &conceptName,
			&row.Amount, &row.PaymentMethod, &row.Description, &row.Observations,
			&folio, &row.Date, &row.Status, &receiptURL,
		); err != nil {
			r.logger.Error("failed to scan expense report row", "error", err)
			return nil, classify("scan expense report", err)
		}
		row.BranchName = branchName.String
		row.ConceptName = conceptName.String
		if folio.Valid {
			row.Folio = &folio.String
		}
		if receiptURL.Valid {
			row.ReceiptURL = &receiptURL.String
		}
		out = append(out, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate expense report", err)
	}
	return out, nil
}

func (r *expenseRepository) Count(ctx context.Context, f entity.ExpenseFilter) (int, error) {
	b := entsql.Dialect(r.dialect)
	e := b.Table(expensesTable).As("e")
	sel := b.Select(entsql.Count("*")).From(e)
	applyFilter(sel, e, f)
	query, args := sel.Query()

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		r.logger.Error("failed to count expenses", "error", err)
		return 0, classify("count expenses", err)
	}
	return n, nil
}

func applyFilter(sel *entsql.Selector, e *entsql.SelectTable, f entity.ExpenseFilter) {
	if f.BranchID != nil {
		sel.Where(entsql.EQ(e.C("branch_id"), *f.BranchID))
	}
	if f.Date != nil {
		sel.Where(entsql.EQ(e.C("expense_date"), *f.Date))
	}
}

func nullString(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
