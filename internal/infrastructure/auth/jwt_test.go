package auth

import (
	"testing"
	"time"

	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/catalogue/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-that-is-long-enough",
		Issuer:                "catalogue-auth",
		AccessTokenExpiration: time.Hour,
	})
}

func TestJWTService_IssueAndVerify(t *testing.T) {
	svc := newTestJWTService()
	id := shared.Identity{UserID: uuid.New(), Role: shared.RoleAdmin}

	token, err := svc.Issue(id)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)

	got, err := claims.Identity()
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.WithinDuration(t, time.Now(), claims.IssuedAtTime(), 5*time.Second)
}

func TestJWTService_Verify(t *testing.T) {
	svc := newTestJWTService()
	sign := func(claims *Claims, secret string, method jwt.SigningMethod) string {
		token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return token
	}
	valid := func() *Claims {
		now := time.Now()
		return &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "catalogue-auth",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(now),
			},
			UserID: uuid.NewString(),
			Role:   "user",
		}
	}

	t.Run("expired", func(t *testing.T) {
		c := valid()
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		_, err := svc.Verify(sign(c, "test-secret-key-that-is-long-enough", jwt.SigningMethodHS256))
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("not yet valid", func(t *testing.T) {
		c := valid()
		c.NotBefore = jwt.NewNumericDate(time.Now().Add(time.Hour))
		_, err := svc.Verify(sign(c, "test-secret-key-that-is-long-enough", jwt.SigningMethodHS256))
		assert.ErrorIs(t, err, ErrTokenNotYetValid)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := svc.Verify(sign(valid(), "another-secret", jwt.SigningMethodHS256))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		_, err := svc.Verify(sign(valid(), "test-secret-key-that-is-long-enough", jwt.SigningMethodHS512))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		c := valid()
		c.Issuer = "someone-else"
		_, err := svc.Verify(sign(c, "test-secret-key-that-is-long-enough", jwt.SigningMethodHS256))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing user id", func(t *testing.T) {
		c := valid()
		c.UserID = ""
		_, err := svc.Verify(sign(c, "test-secret-key-that-is-long-enough", jwt.SigningMethodHS256))
		assert.ErrorIs(t, err, ErrMissingUserID)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestClaims_Identity(t *testing.T) {
	_, err := (&Claims{UserID: "nope", Role: "user"}).Identity()
	assert.ErrorIs(t, err, ErrInvalidClaims)

	_, err = (&Claims{UserID: uuid.NewString(), Role: "superuser"}).Identity()
	assert.ErrorIs(t, err, ErrUnknownRole)
}
