package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/branch-expenses/internal/common"
	"github.com/joseph-ayodele/branch-expenses/internal/entity"
	"github.com/joseph-ayodele/branch-expenses/internal/repository"
)

const sheet = "Gastos"

var headers = []string{
	"Fecha",
	"Sucursal",
	"Concepto",
	"Monto",
	"Método de pago",
	"Folio",
	"Descripción",
	"Observaciones",
	"Estatus",
	"Comprobante",
}

// Service produces XLSX bytes for the expense report.
type Service struct {
	expenseRepo repository.ExpenseRepository
	logger      *slog.Logger
}

func NewService(expenseRepo repository.ExpenseRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{expenseRepo: expenseRepo, logger: logger}
}

// ExpensesXLSX returns a workbook with one row per expense matching f, in report order.
// Voided expenses are listed but left out of the total.
func (s *Service) ExpensesXLSX(ctx context.Context, f entity.ExpenseFilter) ([]byte, error) {
	start := time.Now()

	rows, err := s.expenseRepo.Report(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}

	x := excelize.NewFile()
	defer func() {
		if err := x.Close(); err != nil {
			s.logger.Warn("failed to close workbook", "error", err)
		}
	}()
	if err := x.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = x.SetCellValue(sheet, cell, h)
	}

	moneyStyle, err := x.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("xlsx style: %w", err)
	}

	row := 2
	for _, r := range rows {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = x.SetCellValue(sheet, cell, v)
		}
		write(1, r.Date.Format("2006-01-02"))
		write(2, r.BranchName)
		write(3, r.ConceptName)
		write(4, r.Amount.InexactFloat64())
		write(5, r.PaymentMethod)
		write(6, deref(r.Folio))
		write(7, truncate(r.Description, 140))
		write(8, truncate(r.Observations, 140))
		write(9, r.Status)
		write(10, deref(r.ReceiptURL))
		row++
	}

	if len(rows) > 0 {
		last := row - 1
		_ = x.SetCellStyle(sheet, "D2", fmt.Sprintf("D%d", last), moneyStyle)
		_ = x.SetCellValue(sheet, fmt.Sprintf("C%d", row), "Total")
		_ = x.SetCellFormula(sheet, fmt.Sprintf("D%d", row), fmt.Sprintf(`SUMIFS(D2:D%d,I2:I%d,"active")`, last, last))
		_ = x.SetCellStyle(sheet, fmt.Sprintf("D%d", row), fmt.Sprintf("D%d", row), moneyStyle)
	}

	_ = x.SetColWidth(sheet, "A", "A", 12)
	_ = x.SetColWidth(sheet, "B", "C", 22)
	_ = x.SetColWidth(sheet, "D", "D", 14)
	_ = x.SetColWidth(sheet, "E", "F", 16)
	_ = x.SetColWidth(sheet, "G", "H", 40)
	_ = x.SetColWidth(sheet, "J", "J", 50)

	buf, err := x.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
		"request_id", common.RequestIDFromContext(ctx),
	)
	return buf.Bytes(), nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
