package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellumhq/vellum/pkg/types"
)

func TestInitializeAdmin(t *testing.T) {
	store := newTestStore(t)
	users := NewUserService(store)
	admin := NewAdminService(store, users)

	initialized, err := admin.IsInitialized()
	require.NoError(t, err)
	assert.False(t, initialized)

	user, err := admin.InitializeAdmin(CreateUserRequest{
		FirstName: "Root",
		LastName:  "Admin",
		Email:     "root@example.com",
		Password:  "s3cret",
	})
	require.NoError(t, err)
	assert.Equal(t, types.UserTypeAdmin, user.UserType)
	assert.Equal(t, types.AccountStatusCreated, user.AccountStatus)

	initialized, err = admin.IsInitialized()
	require.NoError(t, err)
	assert.True(t, initialized)
}

func TestInitializeAdminOnlyOnce(t *testing.T) {
	store := newTestStore(t)
	users := NewUserService(store)
	admin := NewAdminService(store, users)

	req := CreateUserRequest{
		FirstName: "Root", LastName: "Admin",
		Email: "root@example.com", Password: "s3cret",
	}
	_, err := admin.InitializeAdmin(req)
	require.NoError(t, err)

	req.Email = "second@example.com"
	_, err = admin.InitializeAdmin(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrConflict)
}

func TestInitializeAdminValidation(t *testing.T) {
	store := newTestStore(t)
	users := NewUserService(store)
	admin := NewAdminService(store, users)

	cases := []struct {
		name string
		req  CreateUserRequest
	}{
		{"missing first name", CreateUserRequest{LastName: "A", Email: "a@example.com", Password: "x"}},
		{"missing last name", CreateUserRequest{FirstName: "A", Email: "a@example.com", Password: "x"}},
		{"bad email", CreateUserRequest{FirstName: "A", LastName: "B", Email: "nope", Password: "x"}},
		{"missing password", CreateUserRequest{FirstName: "A", LastName: "B", Email: "a@example.com"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := admin.InitializeAdmin(tc.req)
			assert.ErrorIs(t, err, types.ErrInvalidArgument)
		})
	}

	// No failed attempt flipped the flag.
	initialized, err := admin.IsInitialized()
	require.NoError(t, err)
	assert.False(t, initialized)
}
