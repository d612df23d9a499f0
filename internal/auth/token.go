package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/joseph-ayodele/branch-expenses/internal/common"
)

// CookieName is the cookie that carries the session token.
const CookieName = "jwt_token"

const issuer = "branch-expenses"

// Claims is the token payload the principal is resolved from.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Role     string `json:"role"`
	BranchID *int64 `json:"branch_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenResolver validates HS256 tokens and turns them into request principals.
type TokenResolver struct {
	secret []byte
	logger *slog.Logger
}

// NewTokenResolver creates a resolver signing and verifying with secret.
func NewTokenResolver(secret string, logger *slog.Logger) *TokenResolver {
	return &TokenResolver{secret: []byte(secret), logger: logger}
}

// Issue signs a token for the given principal.
func (r *TokenResolver) Issue(userID int64, role string, branchID *int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Role:     role,
		BranchID: branchID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(r.secret)
}

// Validate parses and verifies tokenString.
func (r *TokenResolver) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return r.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}

// Resolve returns the principal for tokenString. A blank or invalid token yields an
// empty principal and the reason; callers decide whether a principal is needed.
func (r *TokenResolver) Resolve(tokenString string) (common.RequestContext, error) {
	if strings.TrimSpace(tokenString) == "" {
		return common.RequestContext{}, common.UnauthenticatedError{}
	}
	claims, err := r.Validate(tokenString)
	if err != nil {
		r.logger.Debug("rejected token", "error", err)
		return common.RequestContext{}, fmt.Errorf("%w: %w", common.ErrUnauthenticated, err)
	}
	if claims.UserID <= 0 {
		return common.RequestContext{}, errors.Join(common.ErrUnauthenticated, errors.New("token has no user id"))
	}
	return common.RequestContext{
		UserID:   claims.UserID,
		Role:     claims.Role,
		BranchID: claims.BranchID,
	}, nil
}

// TokenFromRequest picks the token from the cookie first, then from a Bearer header.
func TokenFromRequest(cookie, authorization string) string {
	if cookie != "" {
		return cookie
	}
	if strings.HasPrefix(authorization, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authorization, "Bearer "))
	}
	return ""
}
