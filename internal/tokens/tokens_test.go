package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-jwt-secret")

func TestSignAndParse(t *testing.T) {
	tok, err := Sign("ana", "USUARIO", secret, time.Hour)
	require.NoError(t, err)

	claims, err := Parse(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "ana", claims.Subject)
	assert.Equal(t, "USUARIO", claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.Time.After(time.Now()))
}

func TestParse_Rejects(t *testing.T) {
	expired, err := Sign("ana", "USUARIO", secret, -time.Minute)
	require.NoError(t, err)
	_, err = Parse(expired, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, err := Sign("ana", "USUARIO", []byte("other"), time.Hour)
	require.NoError(t, err)
	_, err = Parse(other, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "ana"},
	}).SignedString(secret)
	require.NoError(t, err)
	_, err = Parse(hs512, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = Parse("garbage", secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
