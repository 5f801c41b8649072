package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/vellumhq/vellum/pkg/types"
)

// Compile-time interface check: settingsTable must implement Table.
var _ types.Table = (*settingsTable)(nil)

// settingsTable implements the Table interface for application settings.
type settingsTable struct {
	backend *Backend
}

// Get retrieves a settings row by ID.
func (st *settingsTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}

	var s types.Settings
	var initialized int
	err := st.backend.db.QueryRow(
		"SELECT settings_id, initialized FROM settings WHERE settings_id = ?", id,
	).Scan(&s.SettingsID, &initialized)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting settings %s: %w", id, err)
	}
	s.Initialized = initialized != 0
	return &s, nil
}

// Set persists a settings row under the given ID.
func (st *settingsTable) Set(id string, data any) (string, error) {
	s, ok := data.(*types.Settings)
	if !ok {
		return "", types.ErrInvalidData
	}
	if id == "" {
		return "", types.ErrInvalidID
	}
	s.SettingsID = id

	initialized := 0
	if s.Initialized {
		initialized = 1
	}

	_, err := st.backend.db.Exec(
		"INSERT INTO settings (settings_id, initialized) VALUES (?, ?) ON CONFLICT(settings_id) DO UPDATE SET initialized = excluded.initialized",
		id, initialized,
	)
	if err != nil {
		return "", fmt.Errorf("persisting settings: %w", err)
	}
	return id, nil
}

// Delete removes a settings row by ID.
func (st *settingsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}

	res, err := st.backend.db.Exec("DELETE FROM settings WHERE settings_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting settings %s: %w", id, err)
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

// Fetch returns all settings rows. Filters are not supported.
func (st *settingsTable) Fetch(filter map[string]any) ([]any, error) {
	if len(filter) != 0 {
		return nil, fmt.Errorf("settings table supports no filters: %w", types.ErrInvalidData)
	}

	rows, err := st.backend.db.Query("SELECT settings_id, initialized FROM settings")
	if err != nil {
		return nil, fmt.Errorf("fetching settings: %w", err)
	}
	defer rows.Close()

	var results []any
	for rows.Next() {
		var s types.Settings
		var initialized int
		if err := rows.Scan(&s.SettingsID, &initialized); err != nil {
			return nil, fmt.Errorf("hydrating settings: %w", err)
		}
		s.Initialized = initialized != 0
		results = append(results, &s)
	}
	return results, rows.Err()
}
