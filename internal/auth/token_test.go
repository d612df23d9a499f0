package auth

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/joseph-ayodele/branch-expenses/internal/common"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTokenResolver_RoundTrip(t *testing.T) {
	r := NewTokenResolver("secret", testLogger())
	branch := int64(3)
	tok, err := r.Issue(42, "gerente", &branch, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	rc, err := r.Resolve(tok)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if rc.UserID != 42 || rc.Role != "gerente" || rc.BranchID == nil || *rc.BranchID != 3 {
		t.Errorf("principal = %+v", rc)
	}
}

func TestTokenResolver_Rejects(t *testing.T) {
	r := NewTokenResolver("secret", testLogger())
	other := NewTokenResolver("other", testLogger())

	expired, _ := r.Issue(1, "admin", nil, -time.Minute)
	foreign, _ := other.Issue(1, "admin", nil, time.Hour)
	noUser, _ := r.Issue(0, "admin", nil, time.Hour)
	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer}})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := map[string]string{
		"blank":      "",
		"garbage":    "not-a-token",
		"expired":    expired,
		"wrong key":  foreign,
		"no user id": noUser,
		"alg none":   unsigned,
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			rc, err := r.Resolve(tok)
			if !errors.Is(err, common.ErrUnauthenticated) {
				t.Fatalf("Resolve error = %v, want unauthenticated", err)
			}
			if rc.Authenticated() {
				t.Errorf("principal resolved from a rejected token: %+v", rc)
			}
		})
	}
}

func TestTokenFromRequest(t *testing.T) {
	if got := TokenFromRequest("c", "Bearer h"); got != "c" {
		t.Errorf("cookie not preferred: %q", got)
	}
	if got := TokenFromRequest("", "Bearer h"); got != "h" {
		t.Errorf("bearer = %q", got)
	}
	if got := TokenFromRequest("", "Basic xyz"); got != "" {
		t.Errorf("basic auth accepted: %q", got)
	}
}
