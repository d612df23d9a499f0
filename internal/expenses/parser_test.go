package expenses

import (
	"errors"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/branch-expenses/constants"
	"github.com/joseph-ayodele/branch-expenses/internal/common"
)

func mexicoCity(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(constants.DefaultTimezone)
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "12,50", want: "12.5"},
		{raw: "12.50", want: "12.5"},
		{raw: " 1234.56 ", want: "1234.56"},
		{raw: "-3", want: "-3"},
		{raw: "+7.125", want: "7.13"},
		{raw: "10.004", want: "10"},
		{raw: "12.5.6", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "1e3", wantErr: true},
		{raw: "1,234.56", wantErr: true},
		{raw: ".5", wantErr: true},
		{raw: "", wantErr: true},
		{raw: "9999999999.99", want: "9999999999.99"},
		{raw: "-9999999999,99", want: "-9999999999.99"},
		{raw: "0000000000012.5", want: "12.5"},
		{raw: "12345678901", wantErr: true},
		{raw: "9999999999.995", wantErr: true},
		{raw: "90071992547409.99", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseAmount(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, common.ErrValidation) {
					t.Fatalf("ParseAmount(%q) error = %v, want validation error", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q): %v", tt.raw, err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	// 03:00 UTC on March 2nd is still March 1st in Mexico City.
	now := func() time.Time { return time.Date(2024, 3, 2, 3, 0, 0, 0, time.UTC) }
	p := NewParser(mexicoCity(t), now)

	tests := []struct {
		raw     string
		want    time.Time
		wantErr bool
	}{
		{raw: "", want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{raw: "   ", want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{raw: "2024-03-01", want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{raw: "05/02/2024", want: time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)},
		{raw: "2024/03/01", wantErr: true},
		{raw: "31/02/2024", wantErr: true},
		{raw: "mañana", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := p.ParseDate(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, common.ErrValidation) {
					t.Fatalf("ParseDate(%q) error = %v, want validation error", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q): %v", tt.raw, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParser_Parse(t *testing.T) {
	p := NewParser(mexicoCity(t), nil)

	t.Run("valid", func(t *testing.T) {
		sub, err := p.Parse(Form{
			BranchID:      "1",
			ConceptID:     "2",
			Amount:        "1234,56",
			PaymentMethod: " Tarjeta ",
			Date:          "2024-03-01",
			Folio:         "A-1",
		})
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if sub.BranchID != 1 || sub.ConceptID != 2 {
			t.Errorf("ids = %d/%d", sub.BranchID, sub.ConceptID)
		}
		if sub.Amount.StringFixed(2) != "1234.56" {
			t.Errorf("amount = %s", sub.Amount)
		}
		if sub.PaymentMethod != "Tarjeta" {
			t.Errorf("payment method = %q", sub.PaymentMethod)
		}
		if sub.Folio == nil || *sub.Folio != "A-1" {
			t.Errorf("folio = %v", sub.Folio)
		}
	})

	t.Run("blank folio is nil", func(t *testing.T) {
		sub, err := p.Parse(Form{BranchID: "1", ConceptID: "2", Amount: "1"})
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if sub.Folio != nil {
			t.Errorf("folio = %q, want nil", *sub.Folio)
		}
	})

	t.Run("bad amount message", func(t *testing.T) {
		_, err := p.Parse(Form{BranchID: "1", ConceptID: "2", Amount: "abc"})
		var ve *common.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("Parse error = %v, want *ValidationError", err)
		}
		if !strings.HasPrefix(ve.Message, "Monto inválido") {
			t.Errorf("message = %q", ve.Message)
		}
	})

	t.Run("all problems reported", func(t *testing.T) {
		_, err := p.Parse(Form{
			BranchID:     "x",
			Amount:       "",
			Description:  strings.Repeat("a", constants.MaxDescriptionLen+1),
			Date:         "ayer",
			Observations: "ok",
		})
		var ve *common.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("Parse error = %v, want *ValidationError", err)
		}
		for _, f := range []string{FieldBranchID, FieldConceptID, FieldAmount, FieldDescription, FieldDate} {
			if _, ok := ve.Fields[f]; !ok {
				t.Errorf("missing error for %s in %v", f, ve.Fields)
			}
		}
		if _, ok := ve.Fields[FieldObservations]; ok {
			t.Errorf("unexpected error for %s", FieldObservations)
		}
	})
}

func TestParser_ParseFilter(t *testing.T) {
	p := NewParser(time.UTC, nil)

	f, err := p.ParseFilter("", "")
	if err != nil || f.BranchID != nil || f.Date != nil {
		t.Fatalf("empty filter = %+v, %v", f, err)
	}

	f, err = p.ParseFilter("3", "01/03/2024")
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	if f.BranchID == nil || *f.BranchID != 3 {
		t.Errorf("branch = %v", f.BranchID)
	}
	if f.Date == nil || !f.Date.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v", f.Date)
	}

	if _, err := p.ParseFilter("-1", "nope"); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("bad filter error = %v, want validation error", err)
	}
}
