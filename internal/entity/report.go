package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseReportRow is one denormalized row of the expense report.
type ExpenseReportRow struct {
	ID            int64           `json:"id"`
	BranchID      int64           `json:"sucursalId"`
	BranchName    string          `json:"sucursal"`
	ConceptID     int64           `json:"conceptoGastoId"`
	ConceptName   string          `json:"concepto"`
	Amount        decimal.Decimal `json:"monto"`
	PaymentMethod string          `json:"metodoPago"`
	Description   string          `json:"descripcion"`
	Observations  string          `json:"observaciones"`
	Folio         *string         `json:"folio,omitempty"`
	Date          time.Time       `json:"fecha"`
	Status        string          `json:"estatus"`
	ReceiptURL    *string         `json:"comprobanteUrl,omitempty"`
}

// ExpenseFilter narrows the expense report. Nil fields are not applied.
type ExpenseFilter struct {
	BranchID *int64
	Date     *time.Time
}
