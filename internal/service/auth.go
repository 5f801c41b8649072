package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/vellumhq/vellum/internal/auth"
	"github.com/vellumhq/vellum/pkg/types"
)

// AuthService authenticates operators and issues JWT bearer tokens.
type AuthService struct {
	users  *UserService
	tokens *auth.TokenService
}

// NewAuthService creates an AuthService using the given user lookup and
// token issuer.
func NewAuthService(users *UserService, tokens *auth.TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login verifies the credentials and returns a signed JWT for the user.
// Returns ErrInvalidArgument for a malformed email, ErrNotFound for an
// unknown one, and ErrUnauthorized for a wrong password.
func (s *AuthService) Login(email, password string) (string, error) {
	if !IsValidEmail(email) {
		return "", fmt.Errorf("email %q is not valid: %w", email, types.ErrInvalidArgument)
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", fmt.Errorf("wrong password for %q: %w", email, types.ErrUnauthorized)
	}

	token, _, err := s.tokens.Generate(user.UserID, user.Email, user.UserType)
	if err != nil {
		return "", err
	}
	return token, nil
}

// RequireRole returns ErrUnauthorized unless userType is one of the
// allowed roles.
func RequireRole(userType string, allowed ...string) error {
	for _, role := range allowed {
		if userType == role {
			return nil
		}
	}
	return fmt.Errorf("role %q lacks access: %w", userType, types.ErrUnauthorized)
}
