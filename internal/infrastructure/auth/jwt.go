// Package auth verifies the bearer tokens issued by the identity service.
package auth

import (
	"errors"
	"slices"
	"time"

	"github.com/erp/payroll/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Permissions checked by the payroll API
const (
	PermPayrollRead    = "payroll:read"
	PermPayrollWrite   = "payroll:write"
	PermPayrollApprove = "payroll:approve"
	PermSettingsWrite  = "payroll:settings"
	PermSystemAdmin    = "system:admin"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrMissingTenantID  = errors.New("missing tenant_id in claims")
	ErrMissingUserID    = errors.New("missing user_id in claims")
	ErrTokenRevoked     = errors.New("token has been revoked")
)

// Claims are the access token claims the payroll API relies on
type Claims struct {
	jwt.RegisteredClaims
	TenantID    string   `json:"tenant_id"`
	CompanyID   string   `json:"company_id,omitempty"`
	UserID      string   `json:"user_id"`
	Username    string   `json:"username"`
	Permissions []string `json:"permissions,omitempty"`
}

// TokenVerifier validates HMAC signed access tokens
type TokenVerifier struct {
	secret []byte
	issuer string
	leeway time.Duration
}

// NewTokenVerifier creates a verifier from configuration
func NewTokenVerifier(cfg config.JWTConfig) *TokenVerifier {
	return &TokenVerifier{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		leeway: cfg.Leeway,
	}
}

// Verify parses tokenString and checks signature, time window, issuer and
// the tenant and user claims
func (v *TokenVerifier) Verify(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}),
		jwt.WithLeeway(v.leeway),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if _, err := uuid.Parse(claims.TenantID); err != nil {
		return nil, ErrMissingTenantID
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, ErrMissingUserID
	}
	if claims.CompanyID != "" {
		if _, err := uuid.Parse(claims.CompanyID); err != nil {
			return nil, ErrInvalidClaims
		}
	}
	return claims, nil
}

// IssueInput describes a token to sign
type IssueInput struct {
	TenantID    uuid.UUID
	CompanyID   uuid.UUID
	UserID      uuid.UUID
	Username    string
	Permissions []string
	TTL         time.Duration
}

// Issue signs an HS256 access token. The identity service owns real logins;
// this serves local tooling and tests.
func (v *TokenVerifier) Issue(in IssueInput) (string, *Claims, error) {
	if in.TTL <= 0 {
		in.TTL = time.Hour
	}
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    v.issuer,
			Subject:   in.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(in.TTL)),
		},
		TenantID:    in.TenantID.String(),
		UserID:      in.UserID.String(),
		Username:    in.Username,
		Permissions: in.Permissions,
	}
	if in.CompanyID != uuid.Nil {
		claims.CompanyID = in.CompanyID.String()
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// TenantUUID returns the tenant claim as a UUID
func (c *Claims) TenantUUID() uuid.UUID {
	id, _ := uuid.Parse(c.TenantID)
	return id
}

// CompanyUUID returns the company claim, or uuid.Nil when absent
func (c *Claims) CompanyUUID() uuid.UUID {
	if c.CompanyID == "" {
		return uuid.Nil
	}
	id, _ := uuid.Parse(c.CompanyID)
	return id
}

// UserUUID returns the user claim as a UUID
func (c *Claims) UserUUID() uuid.UUID {
	id, _ := uuid.Parse(c.UserID)
	return id
}

// HasPermission reports whether the token grants permission. system:admin grants all.
func (c *Claims) HasPermission(permission string) bool {
	return slices.Contains(c.Permissions, permission) || slices.Contains(c.Permissions, PermSystemAdmin)
}

// RemainingTTL is the time until the token expires, zero when already expired
func (c *Claims) RemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	if d := time.Until(c.ExpiresAt.Time); d > 0 {
		return d
	}
	return 0
}
