package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/catalogue/backend/internal/infrastructure/auth"
	"github.com/catalogue/backend/internal/infrastructure/logger"
	"github.com/catalogue/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Auth context keys
const (
	IdentityKey   = "identity"
	JWTClaimsKey  = "jwt_claims"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// Revocations is optional; without it revoked tokens are accepted until they expire
	Revocations auth.Revocations
	// Optional lets requests without an Authorization header through
	// anonymously. A header that is present must still be valid.
	Optional bool
	Logger   *zap.Logger
}

// JWTAuthMiddleware creates JWT authentication middleware
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{JWTService: jwtService})
}

// JWTAuthMiddlewareWithConfig creates JWT authentication middleware with custom config
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			if cfg.Optional {
				c.Next()
				return
			}
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Missing authorization header")
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix))
		if tokenString == "" {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Missing token")
			return
		}

		claims, err := cfg.JWTService.Verify(tokenString)
		if err != nil {
			handleAuthError(c, cfg, err, "Token validation failed")
			return
		}

		identity, err := claims.Identity()
		if err != nil {
			handleAuthError(c, cfg, err, "Token claims rejected")
			return
		}

		if cfg.Revocations != nil {
			revoked, err := cfg.Revocations.Check(c.Request.Context(), claims)
			switch {
			case err != nil:
				// Fail open: a Redis outage must not lock every caller out
				if cfg.Logger != nil {
					cfg.Logger.Error("Failed to check token revocation",
						zap.String("jti", claims.ID),
						zap.String("user_id", claims.UserID),
						zap.Error(err))
				}
			case revoked == auth.TokenRevoked:
				handleAuthError(c, cfg, auth.ErrTokenRevoked, "Token has been revoked")
				return
			case revoked == auth.SessionsRevoked:
				handleAuthError(c, cfg, auth.ErrTokenRevoked, "User session has been invalidated")
				return
			}
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(IdentityKey, identity)
		c.Set(logger.GinUserIDKey, identity.UserID.String())

		ctx := c.Request.Context()
		reqLogger := logger.FromContext(ctx).With(
			zap.String("user_id", identity.UserID.String()),
			zap.String("role", string(identity.Role)),
		)
		c.Request = c.Request.WithContext(logger.WithContext(ctx, reqLogger))

		c.Next()
	}
}

// handleAuthError aborts the request with a 401 in the standard envelope
func handleAuthError(c *gin.Context, cfg JWTMiddlewareConfig, err error, message string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("JWT authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	errorCode := dto.ErrCodeUnauthorized
	errorMessage := "Authentication required"

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		errorCode = dto.ErrCodeTokenExpired
		errorMessage = "Token has expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		errorCode = dto.ErrCodeTokenRevoked
		errorMessage = "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidClaims),
		errors.Is(err, auth.ErrMissingUserID),
		errors.Is(err, auth.ErrUnknownRole),
		errors.Is(err, auth.ErrTokenNotYetValid):
		errorCode = dto.ErrCodeTokenInvalid
		errorMessage = "Invalid token"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(errorCode, errorMessage, c.GetString(logger.GinRequestIDKey)))
}

// RequireAdmin rejects authenticated callers without the admin role. It must
// run after JWTAuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := GetIdentity(c)
		if err := identity.RequireAdmin(); err != nil {
			code := shared.CodeOf(err)
			c.AbortWithStatusJSON(dto.GetHTTPStatus(code),
				dto.NewErrorResponse(code, err.Error(), c.GetString(logger.GinRequestIDKey)))
			return
		}
		c.Next()
	}
}

// GetIdentity returns the caller attached by JWTAuthMiddleware. The zero
// Identity and false are returned for anonymous requests.
func GetIdentity(c *gin.Context) (shared.Identity, bool) {
	if v, exists := c.Get(IdentityKey); exists {
		if identity, ok := v.(shared.Identity); ok {
			return identity, true
		}
	}
	return shared.Identity{}, false
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}
