package constants

// ExpenseStatus is the canonical status for rows in expenses.
type ExpenseStatus string

// Stable values (store these exact strings in DB).
const (
	ExpenseStatusActive ExpenseStatus = "active"
	ExpenseStatusVoid   ExpenseStatus = "void"
)

// Valid reports whether s is a known status.
func (s ExpenseStatus) Valid() bool {
	return s == ExpenseStatusActive || s == ExpenseStatusVoid
}

// Field length caps shared by the parser and the schema.
const (
	MaxPaymentMethodLen = 50
	MaxDescriptionLen   = 255
	MaxObservationsLen  = 255
	MaxFolioLen         = 50
)

// DefaultTimezone is the reference zone used to default expense dates.
const DefaultTimezone = "America/Mexico_City"
