package entity

import (
	"time"

	"github.com/joseph-ayodele/branch-expenses/constants"
)

// Receipt represents an uploaded proof-of-payment file (comprobante).
type Receipt struct {
	ID          int64                 `json:"id"`
	Kind        constants.ReceiptKind `json:"tipo"`
	URL         string                `json:"url"`
	Filename    string                `json:"archivo"`
	FileSize    int64                 `json:"tamano"`
	ContentHash string                `json:"hash"`
	CreatedAt   time.Time             `json:"creadoEn"`
}
