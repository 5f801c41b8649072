package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vellumhq/vellum/internal/mail"
	"github.com/vellumhq/vellum/pkg/types"
)

// inviteTTL is how long an invitation token stays valid.
const inviteTTL = 24 * time.Hour

// InviteService creates PENDING accounts and emails them a sign-up link
// carrying a one-time token.
type InviteService struct {
	users   *UserService
	sender  mail.Sender
	baseURL string
}

// NewInviteService creates an InviteService. baseURL is the front-end
// origin the sign-up link points at.
func NewInviteService(users *UserService, sender mail.Sender, baseURL string) *InviteService {
	return &InviteService{users: users, sender: sender, baseURL: baseURL}
}

// Send creates a PENDING account for the request and emails the sign-up
// link. Returns ErrConflict if the email already has an account (the
// invitation was already sent).
func (s *InviteService) Send(req CreateUserRequest) (*types.User, error) {
	if _, err := s.users.GetByEmail(CleanField(req.Email)); err == nil {
		return nil, fmt.Errorf("invitation already sent to %q: %w", req.Email, types.ErrConflict)
	}

	token := NewInviteToken()
	user, err := s.users.Create(req, token)
	if err != nil {
		return nil, err
	}

	if err := s.email(user.Email, token); err != nil {
		return nil, err
	}
	return user, nil
}

// Resend issues a fresh token and re-delivers the invitation when the
// stored token has expired. Returns false without sending when the current
// invitation is still valid.
func (s *InviteService) Resend(userID string) (bool, error) {
	user, err := s.users.Get(userID)
	if err != nil {
		return false, err
	}
	if !IsInviteTokenExpired(user.Token) {
		return false, nil
	}

	table, err := s.users.store.GetTable(types.TableUsers)
	if err != nil {
		return false, err
	}
	user.Token = NewInviteToken()
	if _, err := table.Set(user.UserID, user); err != nil {
		return false, err
	}

	if err := s.email(user.Email, user.Token); err != nil {
		return false, err
	}
	return true, nil
}

// FindByToken returns the invited user holding the token, or ErrNotFound.
func (s *InviteService) FindByToken(token string) (*types.User, error) {
	return s.users.GetByToken(token)
}

func (s *InviteService) email(to, token string) error {
	return s.sender.Send(mail.Message{
		To:      to,
		Subject: "Invitation to Vellum",
		Body:    fmt.Sprintf("%s/sign-up?token=%s", s.baseURL, token),
	})
}

// NewInviteToken returns a random token with its expiry timestamp encoded
// after an underscore, in Unix milliseconds.
func NewInviteToken() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	expiry := time.Now().Add(inviteTTL).UnixMilli()
	return fmt.Sprintf("%s_%d", id, expiry)
}

// IsInviteTokenExpired reports whether the token's encoded expiry has
// passed. Malformed tokens count as expired.
func IsInviteTokenExpired(token string) bool {
	parts := strings.Split(token, "_")
	if len(parts) != 2 {
		return true
	}
	expiry, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return true
	}
	return time.Now().UnixMilli() > expiry
}
