package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/branch-expenses/constants"
	"github.com/joseph-ayodele/branch-expenses/internal/common"
	"github.com/joseph-ayodele/branch-expenses/internal/entity"
	"github.com/joseph-ayodele/branch-expenses/internal/repository"
	"github.com/joseph-ayodele/branch-expenses/internal/repository/repotest"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newExpense(branchID, conceptID int64, amount string, date time.Time) *entity.Expense {
	now := time.Now().UTC().Truncate(time.Second)
	return &entity.Expense{
		BranchID:      branchID,
		ConceptID:     conceptID,
		Amount:        decimal.RequireFromString(amount),
		PaymentMethod: "Efectivo",
		Date:          date,
		Status:        constants.ExpenseStatusActive,
		CreatedBy:     7,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestExpenseRepository_CreateGetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	drv := repotest.New(t)
	branchID, conceptID := repotest.Seed(t, drv, "Centro", "Renta")
	repo := repository.NewExpenseRepository(drv, repotest.Logger())

	e := newExpense(branchID, conceptID, "1234.56", day(2024, 3, 1))
	id, err := repo.Create(ctx, e)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id <= 0 {
		t.Fatalf("Create returned id %d", id)
	}

	got, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.Amount.Equal(decimal.RequireFromString("1234.56")) {
		t.Errorf("amount = %s, want 1234.56", got.Amount)
	}
	if !got.Date.Equal(day(2024, 3, 1)) {
		t.Errorf("date = %v, want 2024-03-01", got.Date)
	}
	if got.Status != constants.ExpenseStatusActive || got.CreatedBy != 7 {
		t.Errorf("status/creator = %s/%d", got.Status, got.CreatedBy)
	}

	got.Description = "pago de marzo"
	got.Amount = decimal.RequireFromString("99.90")
	got.UpdatedAt = time.Now().UTC()
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	again, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if again.Description != "pago de marzo" || !again.Amount.Equal(decimal.RequireFromString("99.90")) {
		t.Errorf("update not applied: %+v", again)
	}

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, id); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("GetByID after delete: got %v, want not found", err)
	}
	if err := repo.Delete(ctx, id); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("second Delete: got %v, want not found", err)
	}
}

func TestExpenseRepository_ReportOrderAndFilter(t *testing.T) {
	ctx := context.Background()
	drv := repotest.New(t)
	b1, c1 := repotest.Seed(t, drv, "Centro", "Renta")
	b2, _ := repotest.Seed(t, drv, "Norte", "Luz")
	repo := repository.NewExpenseRepository(drv, repotest.Logger())

	mustCreate := func(e *entity.Expense) int64 {
		t.Helper()
		id, err := repo.Create(ctx, e)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		return id
	}
	older := mustCreate(newExpense(b1, c1, "10", day(2024, 2, 28)))
	first := mustCreate(newExpense(b1, c1, "20", day(2024, 3, 1)))
	second := mustCreate(newExpense(b1, c1, "30", day(2024, 3, 1)))
	mustCreate(newExpense(b2, c1, "40", day(2024, 3, 1)))

	rows, err := repo.Report(ctx, entity.ExpenseFilter{BranchID: &b1})
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	want := []int64{second, first, older}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i, id := range want {
		if rows[i].ID != id {
			t.Errorf("row %d id = %d, want %d", i, rows[i].ID, id)
		}
	}
	if rows[0].BranchName != "Centro" || rows[0].ConceptName != "Renta" {
		t.Errorf("names not joined: %+v", rows[0])
	}

	date := day(2024, 3, 1)
	rows, err = repo.Report(ctx, entity.ExpenseFilter{Date: &date})
	if err != nil {
		t.Fatalf("Report by date: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows for 2024-03-01, want 3", len(rows))
	}

	n, err := repo.Count(ctx, entity.ExpenseFilter{BranchID: &b1, Date: &date})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
}

func TestExpenseRepository_ConstraintViolations(t *testing.T) {
	ctx := context.Background()
	drv := repotest.New(t)
	branchID, conceptID := repotest.Seed(t, drv, "Centro", "Renta")
	repo := repository.NewExpenseRepository(drv, repotest.Logger())

	folio := "F-001"
	e := newExpense(branchID, conceptID, "10", day(2024, 3, 1))
	e.Folio = &folio
	if _, err := repo.Create(ctx, e); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := repo.Create(ctx, e)
	var cv *common.ConstraintViolation
	if !errors.As(err, &cv) {
		t.Fatalf("duplicate folio: got %v, want ConstraintViolation", err)
	}
	if cv.Code != "23505" || cv.Constraint == "" || cv.Detail == "" {
		t.Errorf("unexpected violation: %+v", cv)
	}

	_, err = repo.Create(ctx, newExpense(branchID, conceptID+100, "10", day(2024, 3, 1)))
	if !errors.As(err, &cv) {
		t.Fatalf("unknown concept: got %v, want ConstraintViolation", err)
	}
	if cv.Code != "23503" {
		t.Errorf("code = %s, want 23503", cv.Code)
	}
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	drv := repotest.New(t)
	branchID, conceptID := repotest.Seed(t, drv, "Centro", "Renta")
	expenses := repository.NewExpenseRepository(drv, repotest.Logger())
	tm := repository.NewTxManager(drv, repotest.Logger())

	boom := errors.New("boom")
	err := tm.InTx(ctx, func(tx *sql.Tx) error {
		if _, err := expenses.WithTx(tx).Create(ctx, newExpense(branchID, conceptID, "1", day(2024, 1, 1))); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("InTx = %v, want boom", err)
	}
	n, err := expenses.Count(ctx, entity.ExpenseFilter{})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Fatalf("Count = %d after rollback, want 0", n)
	}
}

func TestExpenseRepository_AmountKeepsCents(t *testing.T) {
	ctx := context.Background()
	drv := repotest.New(t)
	branchID, conceptID := repotest.Seed(t, drv, "Centro", "Renta")
	repo := repository.NewExpenseRepository(drv, repotest.Logger())

	for i, amount := range []string{"9999999999.99", "-0.01", "0.10", "90071992547409.99"} {
		id, err := repo.Create(ctx, newExpense(branchID, conceptID, amount, day(2024, 4, i+1)))
		if err != nil {
			t.Fatalf("Create %s: %v", amount, err)
		}
		got, err := repo.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("GetByID %s: %v", amount, err)
		}
		if got.Amount.StringFixed(2) != decimal.RequireFromString(amount).StringFixed(2) {
			t.Errorf("stored %s, read back %s", amount, got.Amount.StringFixed(2))
		}
	}

	rows, err := repo.Report(ctx, entity.ExpenseFilter{})
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	// newest date first
	if len(rows) != 4 || rows[0].Amount.StringFixed(2) != "90071992547409.99" {
		t.Fatalf("report amounts = %+v", rows)
	}
}

func TestExpenseRepository_GetForUpdateInTx(t *testing.T) {
	ctx := context.Background()
	drv := repotest.New(t)
	branchID, conceptID := repotest.Seed(t, drv, "Centro", "Renta")
	logger := repotest.Logger()
	repo := repository.NewExpenseRepository(drv, logger)

	id, err := repo.Create(ctx, newExpense(branchID, conceptID, "10", day(2024, 3, 1)))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	err = repository.NewTxManager(drv, logger).InTx(ctx, func(tx *sql.Tx) error {
		e, err := repo.WithTx(tx).GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if e.ID != id || e.Status != constants.ExpenseStatusActive {
			t.Errorf("GetForUpdate = %+v", e)
		}
		_, err = repo.WithTx(tx).GetForUpdate(ctx, id+100)
		if !errors.Is(err, common.ErrNotFound) {
			t.Errorf("missing row error = %v, want not found", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}
}
