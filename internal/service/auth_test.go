package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellumhq/vellum/internal/auth"
	"github.com/vellumhq/vellum/pkg/types"
)

func newAuthFixture(t *testing.T) (*UserService, *AuthService, *auth.TokenService) {
	t.Helper()
	store := newTestStore(t)
	users := NewUserService(store)
	tokens := auth.NewTokenService("test-secret", time.Hour)
	return users, NewAuthService(users, tokens), tokens
}

func TestLogin(t *testing.T) {
	users, authSvc, tokens := newAuthFixture(t)

	created, err := users.Create(CreateUserRequest{
		FirstName: "Ada", LastName: "L",
		Email: "ada@example.com", Password: "s3cret",
		UserType: types.UserTypeAdmin,
	}, "")
	require.NoError(t, err)

	token, err := authSvc.Login("ada@example.com", "s3cret")
	require.NoError(t, err)

	claims, err := tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, created.UserID, claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, types.UserTypeAdmin, claims.UserType)
}

func TestLoginFailures(t *testing.T) {
	users, authSvc, _ := newAuthFixture(t)

	_, err := users.Create(CreateUserRequest{
		FirstName: "Ada", LastName: "L",
		Email: "ada@example.com", Password: "s3cret",
	}, "")
	require.NoError(t, err)

	_, err = authSvc.Login("not-an-email", "s3cret")
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	_, err = authSvc.Login("nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = authSvc.Login("ada@example.com", "wrong")
	assert.ErrorIs(t, err, types.ErrUnauthorized)
}

func TestRequireRole(t *testing.T) {
	assert.NoError(t, RequireRole(types.UserTypeAdmin, types.UserTypeAdmin))
	assert.NoError(t, RequireRole(types.UserTypeEditor, types.UserTypeAdmin, types.UserTypeEditor))
	assert.ErrorIs(t, RequireRole(types.UserTypeDefault, types.UserTypeAdmin), types.ErrUnauthorized)
	assert.ErrorIs(t, RequireRole("", types.UserTypeAdmin), types.ErrUnauthorized)
}
