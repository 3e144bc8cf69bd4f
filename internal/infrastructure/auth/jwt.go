// Package auth verifies the access tokens issued by the auth service and
// turns them into request identities.
package auth

import (
	"errors"
	"time"

	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/catalogue/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingUserID    = errors.New("missing user_id in claims")
	ErrUnknownRole      = errors.New("unknown role in claims")
	ErrTokenRevoked     = errors.New("token has been revoked")
)

// Claims are the access token claims shared with the auth service
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// Identity converts the claims into a request identity
func (c *Claims) Identity() (shared.Identity, error) {
	userID, err := uuid.Parse(c.UserID)
	if err != nil {
		return shared.Identity{}, ErrInvalidClaims
	}
	switch role := shared.Role(c.Role); role {
	case shared.RoleAdmin, shared.RoleUser:
		return shared.Identity{UserID: userID, Role: role}, nil
	}
	return shared.Identity{}, ErrUnknownRole
}

// IssuedAtTime returns iat, or the zero time when the token has none
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// JWTService verifies HS256 access tokens. Issue exists for local tooling
// and tests; production tokens come from the auth service.
type JWTService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	parser *jwt.Parser
}

func NewJWTService(cfg config.JWTConfig) *JWTService {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	return &JWTService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    cfg.AccessTokenExpiration,
		parser: jwt.NewParser(opts...),
	}
}

// Issue signs an access token for id
func (s *JWTService) Issue(id shared.Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   id.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: id.UserID.String(),
		Role:   string(id.Role),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString(s.secret)
}

// parseErrors maps jwt's validation errors onto ours; anything else is
// ErrInvalidToken
var parseErrors = []struct{ from, to error }{
	{jwt.ErrTokenExpired, ErrExpiredToken},
	{jwt.ErrTokenNotValidYet, ErrTokenNotYetValid},
}

// Verify checks signature, algorithm, expiry and issuer of raw and returns
// its claims
func (s *JWTService) Verify(raw string) (*Claims, error) {
	var claims Claims
	_, err := s.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		for _, m := range parseErrors {
			if errors.Is(err, m.from) {
				return nil, m.to
			}
		}
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}
	return &claims, nil
}
