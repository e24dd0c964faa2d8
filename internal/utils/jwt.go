// Package utils provides token and password helpers shared by handlers and
// middleware. Nothing in here touches the database; subject resolution is
// the caller's concern.
package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind distinguishes the two token classes. Access tokens authorize a
// single request window; refresh tokens are only ever exchanged for new
// access tokens. The kind is embedded as a claim so a refresh token can
// never pass verification where an access token is expected, even if the
// two signing secrets were misconfigured to the same value.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// Verification failures, typed for internal use. Handlers collapse all of
// them into a single "invalid token" response so the client cannot probe
// which check failed.
var (
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenMalformed   = errors.New("token malformed")
	ErrSignatureInvalid = errors.New("token signature mismatch")
	ErrWrongTokenKind   = errors.New("unexpected token kind")
)

// Token is a signed JWT together with its expiry, returned to clients on
// login and refresh.
type Token struct {
	Value string    `json:"token"`
	Exp   time.Time `json:"expires"`
}

// NewAccessToken signs a short-lived HS256 access token for the user.
// Claims: sub (user id hex), kind, iat, exp.
func NewAccessToken(secret, userID string, ttlMin int) (Token, error) {
	return newToken(secret, userID, KindAccess, time.Duration(ttlMin)*time.Minute)
}

// NewRefreshToken signs a long-lived HS256 refresh token for the user.
// Access and refresh secrets are distinct so a leaked access secret cannot
// be used to mint refresh tokens.
func NewRefreshToken(secret, userID string, ttlDays int) (Token, error) {
	return newToken(secret, userID, KindRefresh, time.Duration(ttlDays)*24*time.Hour)
}

func newToken(secret, userID string, kind TokenKind, ttl time.Duration) (Token, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  userID,
		"kind": string(kind),
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return Token{}, err
	}
	return Token{Value: signed, Exp: exp}, nil
}

// ParseToken verifies signature, expiry and kind in one call and returns
// the subject user id. The signing method is pinned to HMAC; tokens signed
// with any other algorithm fail as malformed.
func ParseToken(secret, raw string, kind TokenKind) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrSignatureInvalid
		default:
			return "", ErrTokenMalformed
		}
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return "", ErrTokenMalformed
	}
	if k, _ := claims["kind"].(string); k != string(kind) {
		return "", ErrWrongTokenKind
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrTokenMalformed
	}
	return sub, nil
}
