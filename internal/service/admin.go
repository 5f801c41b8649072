package service

import (
	"errors"
	"fmt"

	"github.com/vellumhq/vellum/pkg/types"
)

// AdminService performs the once-only bootstrap of the first ADMIN
// account, guarded by the initialized flag in the settings row.
type AdminService struct {
	store types.Store
	users *UserService
}

// NewAdminService creates an AdminService backed by the store.
func NewAdminService(store types.Store, users *UserService) *AdminService {
	return &AdminService{store: store, users: users}
}

// InitializeAdmin validates the request, creates the ADMIN account, and
// flips the initialized flag. Returns ErrConflict if an admin has already
// been initialized.
func (s *AdminService) InitializeAdmin(req CreateUserRequest) (*types.User, error) {
	if CleanField(req.FirstName) == "" || CleanField(req.LastName) == "" {
		return nil, fmt.Errorf("first and last name must not be empty: %w", types.ErrInvalidArgument)
	}
	if !IsValidEmail(CleanField(req.Email)) {
		return nil, fmt.Errorf("email %q is not valid: %w", req.Email, types.ErrInvalidArgument)
	}
	if req.Password == "" {
		return nil, fmt.Errorf("password must not be empty: %w", types.ErrInvalidArgument)
	}

	initialized, err := s.IsInitialized()
	if err != nil {
		return nil, err
	}
	if initialized {
		return nil, fmt.Errorf("admin already initialized: %w", types.ErrConflict)
	}

	req.UserType = types.UserTypeAdmin
	user, err := s.users.Create(req, "")
	if err != nil {
		return nil, err
	}

	if err := s.markInitialized(); err != nil {
		return nil, err
	}
	return user, nil
}

// IsInitialized reports whether the admin bootstrap has completed.
func (s *AdminService) IsInitialized() (bool, error) {
	table, err := s.store.GetTable(types.TableSettings)
	if err != nil {
		return false, err
	}
	entity, err := table.Get(types.SettingsID)
	if errors.Is(err, types.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return entity.(*types.Settings).Initialized, nil
}

func (s *AdminService) markInitialized() error {
	table, err := s.store.GetTable(types.TableSettings)
	if err != nil {
		return err
	}
	_, err = table.Set(types.SettingsID, &types.Settings{Initialized: true})
	return err
}
