package auth

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeIDToken builds an unsigned JWT-shaped string carrying the given claims.
func fakeIDToken(t *testing.T, claims map[string]interface{}) string {
	t.Helper()

	header, err := json.Marshal(map[string]string{"alg": "RS256", "typ": "JWT"})
	require.NoError(t, err)
	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	return base64.RawURLEncoding.EncodeToString(header) + "." +
		base64.RawURLEncoding.EncodeToString(payload) + "." +
		base64.RawURLEncoding.EncodeToString([]byte("sig"))
}

func TestNormalize_GoogleStableID(t *testing.T) {
	token := fakeIDToken(t, map[string]interface{}{
		"sub":        "1234567890",
		"email":      "lena@example.com",
		"given_name": "Lena",
		"picture":    "https://example.com/p.jpg",
	})

	identity, err := Normalize(LoginPayload{AuthProvider: "google", AuthID: token})
	require.NoError(t, err)

	assert.Equal(t, "google|1234567890", identity.AuthID)
	assert.Equal(t, "Lena", identity.Username)
	assert.Equal(t, "lena@example.com", identity.Email)
	assert.Equal(t, "https://example.com/p.jpg", identity.Picture)

	// Idempotent across repeated logins.
	again, err := Normalize(LoginPayload{AuthProvider: "google", AuthID: token})
	require.NoError(t, err)
	assert.Equal(t, identity.AuthID, again.AuthID)
}

func TestNormalize_GoogleSuppliedFieldsWin(t *testing.T) {
	token := fakeIDToken(t, map[string]interface{}{
		"sub":        "999",
		"email":      "token@example.com",
		"given_name": "Token Name",
	})

	identity, err := Normalize(LoginPayload{
		AuthProvider: "google",
		AuthID:       token,
		Username:     "Chosen Name",
		Email:        "chosen@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "google|999", identity.AuthID)
	assert.Equal(t, "Chosen Name", identity.Username)
	assert.Equal(t, "chosen@example.com", identity.Email)
}

func TestNormalize_GoogleUndecodableFallsBackToRawID(t *testing.T) {
	identity, err := Normalize(LoginPayload{
		AuthProvider: "google",
		AuthID:       "not-a-jwt",
		Username:     "Someone",
	})
	require.NoError(t, err)

	// Silent degrade: raw authId treated as already canonical.
	assert.Equal(t, "not-a-jwt", identity.AuthID)
	assert.Equal(t, "Someone", identity.Username)
}

func TestNormalize_AnonymousValid(t *testing.T) {
	identity, err := Normalize(LoginPayload{
		AuthProvider: "anonymous",
		AuthID:       "anonymous|abc123",
	})
	require.NoError(t, err)

	assert.Equal(t, "anonymous|abc123", identity.AuthID)
	assert.Equal(t, AnonymousUsername, identity.Username)
}

func TestNormalize_AnonymousKeepsSuppliedUsername(t *testing.T) {
	identity, err := Normalize(LoginPayload{
		AuthProvider: "anonymous",
		AuthID:       "anonymous|abc123",
		Username:     "Ghost",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ghost", identity.Username)
}

func TestNormalize_AnonymousMissingPrefixRejected(t *testing.T) {
	_, err := Normalize(LoginPayload{
		AuthProvider: "anonymous",
		AuthID:       "abc123",
	})
	assert.ErrorIs(t, err, ErrInvalidAnonymousID)
}

func TestNormalize_UnknownProviderPassthrough(t *testing.T) {
	identity, err := Normalize(LoginPayload{
		AuthProvider: "github",
		AuthID:       "gh-raw-id",
		Username:     "Octo",
	})
	require.NoError(t, err)

	assert.Equal(t, "gh-raw-id", identity.AuthID)
	assert.Equal(t, "Octo", identity.Username)
}

func TestDecodeGoogleIDToken_BadSegments(t *testing.T) {
	_, err := DecodeGoogleIDToken("only-one-part")
	assert.Error(t, err)

	_, err = DecodeGoogleIDToken("a.!!!.c")
	assert.Error(t, err)
}
