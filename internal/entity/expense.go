package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/branch-expenses/constants"
)

// Expense represents an expense (gasto) for data transfer between layers.
type Expense struct {
	ID            int64                   `json:"id"`
	BranchID      int64                   `json:"sucursalId"`
	ConceptID     int64                   `json:"conceptoGastoId"`
	Amount        decimal.Decimal         `json:"monto"`
	PaymentMethod string                  `json:"metodoPago"`
	Description   string                  `json:"descripcion"`
	Observations  string                  `json:"observaciones"`
	Folio         *string                 `json:"folio,omitempty"`
	Date          time.Time               `json:"fecha"`
	Status        constants.ExpenseStatus `json:"estatus"`
	ReceiptID     *int64                  `json:"comprobanteId,omitempty"`
	CreatedBy     int64                   `json:"creadoPor"`
	CreatedAt     time.Time               `json:"creadoEn"`
	UpdatedAt     time.Time               `json:"actualizadoEn"`
}
