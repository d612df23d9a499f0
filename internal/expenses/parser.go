package expenses

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/branch-expenses/constants"
	"github.com/joseph-ayodele/branch-expenses/internal/common"
	"github.com/joseph-ayodele/branch-expenses/internal/entity"
)

// Form field names. They are also the keys of ValidationError.Fields.
const (
	FieldBranchID      = "sucursalId"
	FieldConceptID     = "conceptoGastoId"
	FieldAmount        = "monto"
	FieldPaymentMethod = "metodoPago"
	FieldDescription   = "descripcion"
	FieldObservations  = "observaciones"
	FieldDate          = "fecha"
	FieldFolio         = "folio"
	FieldReceipt       = "comprobante"
)

const (
	msgInvalidAmount = "Monto inválido. Use un número con punto o coma decimal, por ejemplo 1234.56."
	msgInvalidDate   = "Fecha inválida. Use el formato aaaa-mm-dd o dd/mm/aaaa."
	msgInvalidID     = "Seleccione un valor válido."
)

// dateLayouts are tried in order for both create and edit.
var dateLayouts = []string{"2006-01-02", "02/01/2006"}

var reAmount = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)

// maxAmount is the first magnitude that no longer fits numeric(12,2).
var maxAmount = decimal.New(1, 10)

// Form is a submission exactly as received, before any validation.
type Form struct {
	BranchID      string
	ConceptID     string
	Amount        string
	PaymentMethod string
	Description   string
	Observations  string
	Date          string
	Folio         string
}

// Submission is a validated Form.
type Submission struct {
	BranchID      int64
	ConceptID     int64
	Amount        decimal.Decimal
	PaymentMethod string
	Description   string
	Observations  string
	Folio         *string
	// Date is the calendar day at midnight UTC.
	Date time.Time
}

// Parser turns raw forms into submissions. Blank dates default to today in loc.
type Parser struct {
	loc *time.Location
	now func() time.Time
}

// NewParser returns a parser for the reference location. A nil now uses time.Now.
func NewParser(loc *time.Location, now func() time.Time) *Parser {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Parser{loc: loc, now: now}
}

// Parse validates every field in one pass and reports all problems together.
func (p *Parser) Parse(f Form) (*Submission, error) {
	v := common.NewValidator()
	out := &Submission{}

	out.BranchID = parseID(v, FieldBranchID, f.BranchID)
	out.ConceptID = parseID(v, FieldConceptID, f.ConceptID)

	v.Field(FieldAmount, f.Amount, common.Required)
	if strings.TrimSpace(f.Amount) != "" {
		amount, err := ParseAmount(f.Amount)
		if err != nil {
			v.Add(FieldAmount, msgInvalidAmount)
		}
		out.Amount = amount
	}

	out.PaymentMethod = strings.TrimSpace(f.PaymentMethod)
	out.Description = strings.TrimSpace(f.Description)
	out.Observations = strings.TrimSpace(f.Observations)
	v.Field(FieldPaymentMethod, out.PaymentMethod, common.MaxLength(constants.MaxPaymentMethodLen))
	v.Field(FieldDescription, out.Description, common.MaxLength(constants.MaxDescriptionLen))
	v.Field(FieldObservations, out.Observations, common.MaxLength(constants.MaxObservationsLen))

	if folio := strings.TrimSpace(f.Folio); folio != "" {
		v.Field(FieldFolio, folio, common.MaxLength(constants.MaxFolioLen))
		out.Folio = &folio
	}

	date, err := p.ParseDate(f.Date)
	if err != nil {
		v.Add(FieldDate, msgInvalidDate)
	}
	out.Date = date

	if err := v.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseAmount accepts a plain signed decimal using either '.' or ',' as separator
// and rounds it to two fractional digits. At most ten integer digits are allowed.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if !reAmount.MatchString(s) {
		return decimal.Zero, &common.ValidationError{
			Message: msgInvalidAmount,
			Fields:  map[string]string{FieldAmount: msgInvalidAmount},
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &common.ValidationError{
			Message: msgInvalidAmount,
			Fields:  map[string]string{FieldAmount: msgInvalidAmount},
		}
	}
	d = d.Round(2)
	if d.Abs().GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, &common.ValidationError{
			Message: msgInvalidAmount,
			Fields:  map[string]string{FieldAmount: msgInvalidAmount},
		}
	}
	return d, nil
}

// ParseDate parses raw with the accepted layouts. Blank means today in the
// reference location. The result is midnight UTC of the calendar day.
func (p *Parser) ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		y, m, d := p.now().In(p.loc).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &common.ValidationError{
		Message: msgInvalidDate,
		Fields:  map[string]string{FieldDate: msgInvalidDate},
	}
}

// ParseFilter builds a report filter from optional query values. Blank values
// are not applied.
func (p *Parser) ParseFilter(branchID, date string) (entity.ExpenseFilter, error) {
	var f entity.ExpenseFilter
	v := common.NewValidator()
	if strings.TrimSpace(branchID) != "" {
		if id := parseID(v, FieldBranchID, branchID); id > 0 {
			f.BranchID = &id
		}
	}
	if strings.TrimSpace(date) != "" {
		d, err := p.ParseDate(date)
		if err != nil {
			v.Add(FieldDate, msgInvalidDate)
		} else {
			f.Date = &d
		}
	}
	return f, v.Err()
}

func parseID(v *common.Validator, field, raw string) int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		v.Add(field, "Este campo es obligatorio.")
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		v.Add(field, msgInvalidID)
		return 0
	}
	return id
}
