package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, expiresAt, err := svc.Generate("u1abc", "ada@example.com", "ADMIN")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "u1abc", claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "ADMIN", claims.UserType)
	assert.Equal(t, "vellum", claims.Issuer)
	assert.Equal(t, "u1abc", claims.Subject)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	_, err := svc.Validate("not.a.token")
	assert.Error(t, err)
	_, err = svc.Validate("")
	assert.Error(t, err)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-one", time.Hour)
	verifier := NewTokenService("secret-two", time.Hour)

	token, _, err := issuer.Generate("u1abc", "ada@example.com", "ADMIN")
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	svc := NewTokenService("test-secret", -time.Minute)

	token, _, err := svc.Generate("u1abc", "ada@example.com", "ADMIN")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.Error(t, err)
}

func TestRandomSecretPerService(t *testing.T) {
	a := NewTokenService("", time.Hour)
	b := NewTokenService("", time.Hour)

	token, _, err := a.Generate("u1abc", "ada@example.com", "ADMIN")
	require.NoError(t, err)

	_, err = a.Validate(token)
	assert.NoError(t, err)
	_, err = b.Validate(token)
	assert.Error(t, err)
}
