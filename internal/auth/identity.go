package auth

import (
	"errors"
	"log/slog"
	"strings"
)

const (
	ProviderGoogle    = "google"
	ProviderAnonymous = "anonymous"

	// AnonymousPrefix is the required prefix of client-generated anonymous ids.
	AnonymousPrefix = "anonymous|"

	// AnonymousUsername is the placeholder for anonymous users without a name.
	AnonymousUsername = "Anonymer Benutzer"
)

var ErrInvalidAnonymousID = errors.New("invalid anonymous auth ID format")

// LoginPayload is the raw, provider-specific login request.
type LoginPayload struct {
	AuthProvider string
	AuthID       string
	Username     string
	Email        string
	Picture      string
}

// Identity is the provider-normalized result: a stable auth id plus the
// profile fields that survived normalization.
type Identity struct {
	AuthID   string
	Username string
	Email    string
	Picture  string
}

// Normalize maps a heterogeneous login payload to one stable internal
// identity key.
//
// Google authIds are expected to be encoded ID tokens; the subject claim
// becomes "google|<sub>" and missing profile fields are backfilled from
// the token. A token that cannot be decoded degrades silently to the raw
// authId. Anonymous ids must already carry the "anonymous|" prefix. Any
// other provider passes through unchanged.
func Normalize(p LoginPayload) (*Identity, error) {
	id := &Identity{
		AuthID:   p.AuthID,
		Username: p.Username,
		Email:    p.Email,
		Picture:  p.Picture,
	}

	switch p.AuthProvider {
	case ProviderGoogle:
		claims, err := DecodeGoogleIDToken(p.AuthID)
		if err != nil {
			slog.Error("failed to decode Google token", "action", "normalize_identity", "error", err)
			break
		}
		if claims.Sub != "" {
			id.AuthID = ProviderGoogle + "|" + claims.Sub
		}
		if id.Username == "" {
			id.Username = claims.GivenName
		}
		if id.Email == "" {
			id.Email = claims.Email
		}
		if id.Picture == "" {
			id.Picture = claims.Picture
		}

	case ProviderAnonymous:
		if !strings.HasPrefix(p.AuthID, AnonymousPrefix) {
			return nil, ErrInvalidAnonymousID
		}
		if id.Username == "" {
			id.Username = AnonymousUsername
		}
	}

	return id, nil
}
