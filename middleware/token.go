package middleware

import (
	"net/http"
	"strings"
	"time"

	"roamly/apperror"
	"roamly/globals"

	"github.com/golang-jwt/jwt/v5"
)

// JWT claims
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// SignToken issues a session token for a user id.
func SignToken(userID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(globals.JwtExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}

// VerifyToken validates signature and expiry, keeping the two failure
// kinds distinguishable for the error translator.
func VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return globals.JwtSecret, nil
	})
	if err != nil {
		return nil, apperror.FromToken(err)
	}
	if !token.Valid {
		return nil, apperror.InvalidToken()
	}
	// Issued-at drives the password-change check downstream, so a token
	// without it is rejected outright.
	if claims.IssuedAt == nil {
		return nil, apperror.InvalidToken()
	}
	return claims, nil
}

// ExtractToken pulls the bearer token from the Authorization header or,
// failing that, the jwt cookie. Empty string when neither is present.
func ExtractToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if c, err := r.Cookie("jwt"); err == nil && c.Value != "" && c.Value != "loggedout" {
		return c.Value
	}
	return ""
}
