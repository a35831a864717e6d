package service

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "workorder-system/pkg/errors"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", time.Hour, zap.NewNop())

	token, err := svc.GenerateAccessToken(42)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.False(t, claims.IsRefreshToken)
}

func TestJWTService_RejectsForeignSecret(t *testing.T) {
	issuer := NewJWTService("other", time.Hour, zap.NewNop())
	token, err := issuer.GenerateAccessToken(1)
	require.NoError(t, err)

	_, err = NewJWTService("secret", time.Hour, zap.NewNop()).ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestJWTService_Expired(t *testing.T) {
	claims := &JwtCustomClaim{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewJWTService("secret", time.Hour, zap.NewNop()).ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}
