package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed        = errors.New("malformed token")
	ErrExpired          = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid token signature")
)

// Claims is the canonical claim shape carried by server-issued tokens:
// "sub" holds the decimal user id, "auth_provider" the provider string.
type Claims struct {
	UserID       uint
	AuthProvider string
}

// TokenCodec signs and verifies bearer tokens. Stateless apart from the
// configured secret.
type TokenCodec struct {
	secret []byte
	expiry time.Duration
}

func NewTokenCodec(secret string, expiry time.Duration) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), expiry: expiry}
}

func (c *TokenCodec) Issue(userID uint, authProvider string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":           strconv.FormatUint(uint64(userID), 10),
		"auth_provider": authProvider,
		"iat":           now.Unix(),
		"exp":           now.Add(c.expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrMalformed
		}
	}

	return ClaimsFrom(token)
}

// ClaimsFrom extracts the canonical claims from an already-verified token,
// e.g. one placed in request locals by the JWT middleware.
func ClaimsFrom(token *jwt.Token) (*Claims, error) {
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrMalformed
	}

	sub, ok := mapClaims["sub"].(string)
	if !ok {
		return nil, ErrMalformed
	}
	id, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return nil, ErrMalformed
	}

	provider, _ := mapClaims["auth_provider"].(string)
	return &Claims{UserID: uint(id), AuthProvider: provider}, nil
}
