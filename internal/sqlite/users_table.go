package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vellumhq/vellum/pkg/types"
)

// Compile-time interface check: usersTable must implement Table.
var _ types.Table = (*usersTable)(nil)

// usersTable implements the Table interface for operator accounts.
type usersTable struct {
	backend *Backend
}

// Get retrieves a user by ID and hydrates it to *types.User.
func (ut *usersTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}

	row := ut.backend.db.QueryRow(
		"SELECT user_id, first_name, last_name, email, password, user_type, account_status, token, created_at FROM users WHERE user_id = ?",
		id,
	)
	user, err := hydrateUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting user %s: %w", id, err)
	}
	return user, nil
}

// Set persists a user under the given ID. The caller allocates IDs; an
// empty id is rejected.
func (ut *usersTable) Set(id string, data any) (string, error) {
	user, ok := data.(*types.User)
	if !ok {
		return "", types.ErrInvalidData
	}
	if id == "" {
		return "", types.ErrInvalidID
	}
	user.UserID = id

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	var exists bool
	err := ut.backend.db.QueryRow(
		"SELECT 1 FROM users WHERE user_id = ?", id,
	).Scan(&exists)
	if err != nil && err != sql.ErrNoRows {
		return "", fmt.Errorf("checking user existence: %w", err)
	}

	createdAtStr := user.CreatedAt.Format(time.RFC3339)

	if exists {
		_, err = ut.backend.db.Exec(
			"UPDATE users SET first_name = ?, last_name = ?, email = ?, password = ?, user_type = ?, account_status = ?, token = ?, created_at = ? WHERE user_id = ?",
			user.FirstName, user.LastName, user.Email, user.Password, user.UserType, user.AccountStatus, user.Token, createdAtStr, id,
		)
	} else {
		_, err = ut.backend.db.Exec(
			"INSERT INTO users (user_id, first_name, last_name, email, password, user_type, account_status, token, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			id, user.FirstName, user.LastName, user.Email, user.Password, user.UserType, user.AccountStatus, user.Token, createdAtStr,
		)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("user email %q: %w", user.Email, types.ErrConflict)
		}
		return "", fmt.Errorf("persisting user: %w", err)
	}

	return id, nil
}

// Delete removes a user by ID.
func (ut *usersTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}

	res, err := ut.backend.db.Exec("DELETE FROM users WHERE user_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting user %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Fetch returns all users matching the filter. Supported filter keys are
// "email" and "token"; values must be strings.
func (ut *usersTable) Fetch(filter map[string]any) ([]any, error) {
	query := "SELECT user_id, first_name, last_name, email, password, user_type, account_status, token, created_at FROM users"

	where, args, err := buildWhere(filter, map[string]bool{"email": true, "token": true})
	if err != nil {
		return nil, err
	}
	query += where + " ORDER BY created_at, rowid"

	rows, err := ut.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching users: %w", err)
	}
	defer rows.Close()

	var results []any
	for rows.Next() {
		user, err := hydrateUser(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating user: %w", err)
		}
		results = append(results, user)
	}
	return results, rows.Err()
}

func hydrateUser(row rowScanner) (*types.User, error) {
	var user types.User
	var createdAt string
	err := row.Scan(&user.UserID, &user.FirstName, &user.LastName, &user.Email, &user.Password, &user.UserType, &user.AccountStatus, &user.Token, &createdAt)
	if err != nil {
		return nil, err
	}
	user.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &user, nil
}
