package expenses

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/branch-expenses/constants"
	"github.com/joseph-ayodele/branch-expenses/internal/common"
	"github.com/joseph-ayodele/branch-expenses/internal/entity"
	"github.com/joseph-ayodele/branch-expenses/internal/repository"
)

// Service handles expense submission, edits and the expense report.
type Service struct {
	expenseRepo repository.ExpenseRepository
	receiptRepo repository.ReceiptRepository
	tx          repository.TxManager
	store       *ReceiptStore
	parser      *Parser
	logger      *slog.Logger
}

// NewService creates a new expense service.
func NewService(
	expenseRepo repository.ExpenseRepository,
	receiptRepo repository.ReceiptRepository,
	tx repository.TxManager,
	store *ReceiptStore,
	parser *Parser,
	logger *slog.Logger,
) *Service {
	return &Service{
		expenseRepo: expenseRepo,
		receiptRepo: receiptRepo,
		tx:          tx,
		store:       store,
		parser:      parser,
		logger:      logger,
	}
}

// Parser returns the parser used for forms and report filters.
func (s *Service) Parser() *Parser { return s.parser }

// Create validates form and stores a new active expense owned by the principal.
// When up is non-nil its receipt row and the expense row are written in one transaction.
func (s *Service) Create(ctx context.Context, rc common.RequestContext, form Form, up *Upload) (int64, error) {
	if !rc.Authenticated() {
		return 0, common.UnauthenticatedError{}
	}
	sub, err := s.parser.Parse(form)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	e := &entity.Expense{
		Status:    constants.ExpenseStatusActive,
		CreatedBy: rc.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	apply(e, sub)

	var id int64
	err = s.persist(ctx, up, func(tx *sql.Tx, receiptID *int64) error {
		e.ReceiptID = receiptID
		var err error
		id, err = s.expenseRepo.WithTx(tx).Create(ctx, e)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("expense created", "expense_id", id, "branch_id", e.BranchID, "user_id", rc.UserID, "request_id", rc.RequestID)
	return id, nil
}

// Update overwrites every mutable field of an existing expense. A new upload replaces
// the receipt reference; the previous receipt row is kept. The current row is read
// inside the writing transaction so a concurrent void is not overwritten.
func (s *Service) Update(ctx context.Context, rc common.RequestContext, id int64, form Form, up *Upload) error {
	if !rc.Authenticated() {
		return common.UnauthenticatedError{}
	}
	sub, err := s.parser.Parse(form)
	if err != nil {
		return err
	}

	err = s.persist(ctx, up, func(tx *sql.Tx, receiptID *int64) error {
		repo := s.expenseRepo.WithTx(tx)
		e, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		apply(e, sub)
		if !e.Status.Valid() {
			e.Status = constants.ExpenseStatusActive
		}
		if receiptID != nil {
			e.ReceiptID = receiptID
		}
		e.UpdatedAt = time.Now().UTC()
		return repo.Update(ctx, e)
	})
	if err != nil {
		return err
	}

	s.logger.Info("expense updated", "expense_id", id, "user_id", rc.UserID, "request_id", rc.RequestID)
	return nil
}

// Delete removes the expense unconditionally.
func (s *Service) Delete(ctx context.Context, rc common.RequestContext, id int64) error {
	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("expense deleted", "expense_id", id, "user_id", rc.UserID, "request_id", rc.RequestID)
	return nil
}

// Void marks the expense as void without deleting it.
func (s *Service) Void(ctx context.Context, rc common.RequestContext, id int64) error {
	if !rc.Authenticated() {
		return common.UnauthenticatedError{}
	}
	if err := s.expenseRepo.SetStatus(ctx, id, constants.ExpenseStatusVoid); err != nil {
		return err
	}
	s.logger.Info("expense voided", "expense_id", id, "user_id", rc.UserID, "request_id", rc.RequestID)
	return nil
}

// Get returns a single expense.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Expense, error) {
	return s.expenseRepo.GetByID(ctx, id)
}

// Receipt returns a receipt row by id.
func (s *Service) Receipt(ctx context.Context, id int64) (*entity.Receipt, error) {
	return s.receiptRepo.GetByID(ctx, id)
}

// Report lists expenses matching f, newest first.
func (s *Service) Report(ctx context.Context, f entity.ExpenseFilter) ([]*entity.ExpenseReportRow, error) {
	rows, err := s.expenseRepo.Report(ctx, f)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("expense report", "rows", len(rows))
	return rows, nil
}

// Count returns how many expenses match f.
func (s *Service) Count(ctx context.Context, f entity.ExpenseFilter) (int, error) {
	return s.expenseRepo.Count(ctx, f)
}

// persist stages up (if any), then runs write inside a transaction after inserting the
// receipt row. The staged file is removed when anything fails.
func (s *Service) persist(ctx context.Context, up *Upload, write func(tx *sql.Tx, receiptID *int64) error) error {
	var staged *StagedReceipt
	if up != nil {
		var err error
		staged, err = s.store.Stage(ctx, *up)
		if err != nil {
			return err
		}
	}

	err := s.tx.InTx(ctx, func(tx *sql.Tx) error {
		if staged == nil {
			return write(tx, nil)
		}
		receiptID, err := s.receiptRepo.WithTx(tx).Create(ctx, &staged.Receipt)
		if err != nil {
			return err
		}
		staged.Receipt.ID = receiptID
		return write(tx, &receiptID)
	})
	if err != nil {
		s.store.Discard(staged)
		return err
	}
	return nil
}

func apply(e *entity.Expense, sub *Submission) {
	e.BranchID = sub.BranchID
	e.ConceptID = sub.ConceptID
	e.Amount = sub.Amount
	e.PaymentMethod = sub.PaymentMethod
	e.Description = sub.Description
	e.Observations = sub.Observations
	e.Folio = sub.Folio
	e.Date = sub.Date
}
