package common

import (
	"context"
	"errors"
	"testing"
)

func TestValidator(t *testing.T) {
	v := NewValidator()
	v.Field("a", "", Required, MaxLength(3))
	v.Field("b", "ñandú", MaxLength(4))
	v.Field("c", "ok", Required, MaxLength(2))
	v.Add("a", "second message is ignored")

	if !v.HasErrors() || len(v.Errors()) != 2 {
		t.Fatalf("errors = %v", v.Errors())
	}

	err := v.Err()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Err = %v, want *ValidationError", err)
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationError does not match ErrValidation")
	}
	if ve.Message != "Este campo es obligatorio." {
		t.Errorf("first message = %q", ve.Message)
	}
	if ve.Fields["b"] != "No debe exceder 4 caracteres." {
		t.Errorf("b = %q", ve.Fields["b"])
	}

	if err := NewValidator().Field("x", "y", Required).Err(); err != nil {
		t.Errorf("clean validator Err = %v", err)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	cause := errors.New("driver")
	tests := []struct {
		err      error
		sentinel error
	}{
		{&UnsupportedFormatError{Ext: "gif"}, ErrUnsupportedFormat},
		{UnauthenticatedError{}, ErrUnauthenticated},
		{&ForbiddenError{Module: "gastos", Action: "ver"}, ErrForbidden},
		{&NotFoundError{Resource: "expense", ID: 3}, ErrNotFound},
		{&ConstraintViolation{Code: "23505", Cause: cause}, ErrConstraint},
		{&PersistenceError{Op: "x", Cause: cause}, ErrDatabase},
	}
	for _, tt := range tests {
		if !errors.Is(tt.err, tt.sentinel) {
			t.Errorf("%T does not match %v", tt.err, tt.sentinel)
		}
	}
	if !errors.Is(&PersistenceError{Op: "x", Cause: cause}, cause) {
		t.Error("PersistenceError does not unwrap its cause")
	}
	if ParseLogLevel("WARN").String() != "WARN" || ParseLogLevel("???").String() != "INFO" {
		t.Error("ParseLogLevel mapping")
	}
}

func TestValidationError_MessageIsStable(t *testing.T) {
	err := &ValidationError{
		Message: "Monto inválido.",
		Fields: map[string]string{
			"monto":       "Monto inválido.",
			"fecha":       "Fecha inválida.",
			"sucursalId":  "Seleccione un valor válido.",
			"descripcion": "No debe exceder 255 caracteres.",
		},
	}
	want := "validation failed: descripcion: No debe exceder 255 caracteres.; fecha: Fecha inválida.; " +
		"monto: Monto inválido.; sucursalId: Seleccione un valor válido."
	for i := 0; i < 20; i++ {
		if got := err.Error(); got != want {
			t.Fatalf("Error() = %q, want %q", got, want)
		}
	}
}

func TestRequestIDContext(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("empty context request id = %q", got)
	}
	ctx := WithRequestID(context.Background(), "req-1")
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("request id = %q, want req-1", got)
	}
}
