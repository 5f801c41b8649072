package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/vellumhq/vellum/pkg/types"
)

// UserService manages operator accounts. Passwords are stored as bcrypt
// hashes only.
type UserService struct {
	store types.Store
}

// NewUserService creates a UserService backed by the store.
func NewUserService(store types.Store) *UserService {
	return &UserService{store: store}
}

// CreateUserRequest carries the fields for a new account. Password and
// Token are optional; an account without a password starts PENDING.
type CreateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	UserType  string `json:"userType"`
}

// Create cleans the request fields and persists a new user under a fresh
// id. Accounts with a password start CREATED, the rest PENDING (awaiting
// invitation sign-up). Returns ErrInvalidArgument for a malformed email
// and ErrConflict for a duplicate one.
func (s *UserService) Create(req CreateUserRequest, token string) (*types.User, error) {
	table, err := s.store.GetTable(types.TableUsers)
	if err != nil {
		return nil, err
	}

	email := CleanField(req.Email)
	if !IsValidEmail(email) {
		return nil, fmt.Errorf("email %q is not valid: %w", email, types.ErrInvalidArgument)
	}
	if _, err := s.GetByEmail(email); err == nil {
		return nil, fmt.Errorf("email %q already registered: %w", email, types.ErrConflict)
	}

	id, err := AllocateID(table, PrefixUser)
	if err != nil {
		return nil, err
	}

	userType := req.UserType
	if userType == "" {
		userType = types.UserTypeDefault
	}

	user := &types.User{
		UserID:    id,
		FirstName: CleanField(req.FirstName),
		LastName:  CleanField(req.LastName),
		Email:     email,
		UserType:  userType,
		Token:     token,
	}
	if req.Password != "" {
		hash, err := HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}
	if user.HasPassword() {
		user.AccountStatus = types.AccountStatusCreated
	} else {
		user.AccountStatus = types.AccountStatusPending
	}

	if _, err := table.Set(id, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Get returns the user with the given id, or ErrNotFound.
func (s *UserService) Get(id string) (*types.User, error) {
	table, err := s.store.GetTable(types.TableUsers)
	if err != nil {
		return nil, err
	}
	entity, err := table.Get(id)
	if err != nil {
		return nil, err
	}
	return entity.(*types.User), nil
}

// GetByEmail returns the user with the given email, or ErrNotFound.
func (s *UserService) GetByEmail(email string) (*types.User, error) {
	return s.fetchOne(map[string]any{"email": email})
}

// GetByToken returns the user holding the given invitation token, or
// ErrNotFound.
func (s *UserService) GetByToken(token string) (*types.User, error) {
	return s.fetchOne(map[string]any{"token": token})
}

func (s *UserService) fetchOne(filter map[string]any) (*types.User, error) {
	table, err := s.store.GetTable(types.TableUsers)
	if err != nil {
		return nil, err
	}
	results, err := table.Fetch(filter)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, types.ErrNotFound
	}
	return results[0].(*types.User), nil
}

// List returns all users, in creation order.
func (s *UserService) List() ([]*types.User, error) {
	table, err := s.store.GetTable(types.TableUsers)
	if err != nil {
		return nil, err
	}
	results, err := table.Fetch(nil)
	if err != nil {
		return nil, err
	}
	users := make([]*types.User, 0, len(results))
	for _, r := range results {
		users = append(users, r.(*types.User))
	}
	return users, nil
}

// UpdateUserRequest carries the updatable account fields.
type UpdateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Update cleans and applies the request fields to the user with the given
// id. A non-empty password is re-hashed.
func (s *UserService) Update(id string, req UpdateUserRequest) (*types.User, error) {
	table, err := s.store.GetTable(types.TableUsers)
	if err != nil {
		return nil, err
	}
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	user.FirstName = CleanField(req.FirstName)
	user.LastName = CleanField(req.LastName)
	user.Email = CleanField(req.Email)
	if req.Password != "" {
		hash, err := HashPassword(CleanField(req.Password))
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}

	if _, err := table.Set(id, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetPassword hashes and stores the password for the user holding the
// invitation token, clears the token, and marks the account CREATED.
func (s *UserService) SetPassword(token, password string) (*types.User, error) {
	table, err := s.store.GetTable(types.TableUsers)
	if err != nil {
		return nil, err
	}
	user, err := s.GetByToken(token)
	if err != nil {
		return nil, err
	}

	hash, err := HashPassword(CleanField(password))
	if err != nil {
		return nil, err
	}
	user.Password = hash
	user.Token = ""
	user.AccountStatus = types.AccountStatusCreated

	if _, err := table.Set(user.UserID, user); err != nil {
		return nil, err
	}
	return user, nil
}

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}
