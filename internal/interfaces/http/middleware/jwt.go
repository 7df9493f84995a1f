package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/erp/payroll/internal/infrastructure/auth"
	"github.com/erp/payroll/internal/infrastructure/logger"
	"github.com/erp/payroll/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	Verifier *auth.TokenVerifier
	// Revocations is optional. Lookup failures let the request through.
	Revocations auth.RevocationList
	SkipPaths   []string
	// SkipPathPrefixes are path prefixes that don't require authentication
	SkipPathPrefixes []string
	Logger           *zap.Logger
}

// DefaultJWTConfig skips health and docs endpoints
func DefaultJWTConfig(verifier *auth.TokenVerifier) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		Verifier:         verifier,
		SkipPaths:        []string{"/health", "/api/v1/system/health"},
		SkipPathPrefixes: []string{"/swagger"},
		Logger:           zap.NewNop(),
	}
}

// JWTAuthMiddlewareWithConfig authenticates the bearer token, stores the
// claims in the gin context and the tenant and user ids in the request logger
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		header := c.GetHeader(AuthHeaderKey)
		if !strings.HasPrefix(header, BearerPrefix) || strings.TrimPrefix(header, BearerPrefix) == "" {
			abortUnauthorized(c, cfg.Logger, errMissingBearer)
			return
		}

		claims, err := cfg.Verifier.Verify(strings.TrimPrefix(header, BearerPrefix))
		if err != nil {
			abortUnauthorized(c, cfg.Logger, err)
			return
		}

		if cfg.Revocations != nil && claims.ID != "" {
			revoked, err := cfg.Revocations.IsRevoked(c.Request.Context(), claims.ID)
			switch {
			case err != nil:
				cfg.Logger.Error("Failed to check token revocation", zap.String("jti", claims.ID), zap.Error(err))
			case revoked:
				abortUnauthorized(c, cfg.Logger, auth.ErrTokenRevoked)
				return
			}
		}

		c.Set(JWTClaimsKey, claims)

		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, log = logger.WithTenantID(ctx, log, claims.TenantID)
		ctx, log = logger.WithUserID(ctx, log, claims.UserID)
		if claims.CompanyID != "" {
			ctx, _ = logger.WithCompanyID(ctx, log, claims.CompanyID)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// errMissingBearer answers a request without credentials. It falls through
// abortUnauthorized's switch to the plain unauthorized code.
var errMissingBearer = errors.New("missing bearer token")

func abortUnauthorized(c *gin.Context, log *zap.Logger, err error) {
	log.Warn("JWT authentication failed",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
	)

	code, message := dto.ErrCodeUnauthorized, "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		code, message = dto.ErrCodeTokenInvalid, "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenNotYetValid):
		code, message = dto.ErrCodeTokenInvalid, "Invalid token"
	case errors.Is(err, auth.ErrMissingTenantID), errors.Is(err, auth.ErrMissingUserID), errors.Is(err, auth.ErrInvalidClaims):
		code, message = dto.ErrCodeTokenInvalid, "Token is missing required claims"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// Principal is the caller identity the handlers pass to the services
type Principal struct {
	TenantID  uuid.UUID
	CompanyID uuid.UUID
	UserID    uuid.UUID
}

// GetPrincipal returns the caller identity, false when unauthenticated
func GetPrincipal(c *gin.Context) (Principal, bool) {
	claims := GetJWTClaims(c)
	if claims == nil {
		return Principal{}, false
	}
	return Principal{
		TenantID:  claims.TenantUUID(),
		CompanyID: claims.CompanyUUID(),
		UserID:    claims.UserUUID(),
	}, true
}

// RequirePermission lets the request through when the token grants any of permissions
func RequirePermission(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, "Authentication required", GetRequestID(c)))
			return
		}
		for _, p := range permissions {
			if claims.HasPermission(p) {
				c.Next()
				return
			}
		}
		logger.L(c.Request.Context()).Warn("Permission denied",
			zap.Strings("required_any", permissions),
			zap.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatusJSON(http.StatusForbidden,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, "Missing permission: "+strings.Join(permissions, " or "), GetRequestID(c)))
	}
}
