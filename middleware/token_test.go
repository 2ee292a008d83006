package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"roamly/apperror"
	"roamly/globals"
	"roamly/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	token, err := SignToken("u123")
	require.NoError(t, err)

	claims, err := VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u123", claims.UserID)
}

func TestVerifyTokenExpired(t *testing.T) {
	claims := &Claims{
		UserID: "u123",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	require.NoError(t, err)

	_, err = VerifyToken(signed)
	require.Error(t, err)
	assert.Equal(t, apperror.KindTokenExpired, apperror.As(err).Kind)
}

func TestVerifyTokenBadSignature(t *testing.T) {
	claims := &Claims{
		UserID: "u123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	_, err = VerifyToken(signed)
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidToken, apperror.As(err).Kind)
}

func TestVerifyTokenMissingIssuedAt(t *testing.T) {
	claims := &Claims{
		UserID: "u123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	require.NoError(t, err)

	_, err = VerifyToken(signed)
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidToken, apperror.As(err).Kind)
}

func TestExtractTokenPrefersHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer header-token")
	r.AddCookie(&http.Cookie{Name: "jwt", Value: "cookie-token"})

	assert.Equal(t, "header-token", ExtractToken(r))
}

func TestExtractTokenFallsBackToCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "jwt", Value: "cookie-token"})

	assert.Equal(t, "cookie-token", ExtractToken(r))
}

func TestExtractTokenSkipsLoggedOutCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "jwt", Value: "loggedout"})

	assert.Equal(t, "", ExtractToken(r))
}

func TestChangedPasswordAfter(t *testing.T) {
	issued := time.Now()

	fresh := models.User{}
	assert.False(t, fresh.ChangedPasswordAfter(issued))

	changedBefore := models.User{PasswordChangedAt: issued.Add(-time.Hour)}
	assert.False(t, changedBefore.ChangedPasswordAfter(issued))

	changedAfter := models.User{PasswordChangedAt: issued.Add(time.Hour)}
	assert.True(t, changedAfter.ChangedPasswordAfter(issued))
}
