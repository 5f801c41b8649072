package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/vellumhq/vellum/pkg/types"
)

// Compile-time interface check: collectionsTable must implement Table.
var _ types.Table = (*collectionsTable)(nil)

// collectionsTable implements the Table interface for collection schemas.
// The attribute list is stored as a JSON array in the row so insertion
// order is preserved across round-trips.
type collectionsTable struct {
	backend *Backend
}

// Get retrieves a collection by ID and hydrates it to *types.Collection.
func (ct *collectionsTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}

	row := ct.backend.db.QueryRow(
		"SELECT collection_id, name, description, user_id, attributes, created_at, updated_at FROM collections WHERE collection_id = ?",
		id,
	)
	col, err := hydrateCollection(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting collection %s: %w", id, err)
	}
	return col, nil
}

// Set persists a collection under the given ID. The caller allocates IDs;
// an empty id is rejected.
func (ct *collectionsTable) Set(id string, data any) (string, error) {
	col, ok := data.(*types.Collection)
	if !ok {
		return "", types.ErrInvalidData
	}
	if id == "" {
		return "", types.ErrInvalidID
	}
	col.CollectionID = id

	now := time.Now().UTC()
	if col.CreatedAt.IsZero() {
		col.CreatedAt = now
	}
	col.UpdatedAt = now

	if col.Attributes == nil {
		col.Attributes = []*types.Attribute{}
	}
	attrsJSON, err := json.Marshal(col.Attributes)
	if err != nil {
		return "", fmt.Errorf("marshaling attributes: %w", err)
	}

	var exists bool
	err = ct.backend.db.QueryRow(
		"SELECT 1 FROM collections WHERE collection_id = ?", id,
	).Scan(&exists)
	if err != nil && err != sql.ErrNoRows {
		return "", fmt.Errorf("checking collection existence: %w", err)
	}

	createdAtStr := col.CreatedAt.Format(time.RFC3339)
	updatedAtStr := col.UpdatedAt.Format(time.RFC3339)

	if exists {
		_, err = ct.backend.db.Exec(
			"UPDATE collections SET name = ?, description = ?, user_id = ?, attributes = ?, created_at = ?, updated_at = ? WHERE collection_id = ?",
			col.Name, col.Description, col.UserID, string(attrsJSON), createdAtStr, updatedAtStr, id,
		)
	} else {
		_, err = ct.backend.db.Exec(
			"INSERT INTO collections (collection_id, name, description, user_id, attributes, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			id, col.Name, col.Description, col.UserID, string(attrsJSON), createdAtStr, updatedAtStr,
		)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("collection name %q: %w", col.Name, types.ErrConflict)
		}
		return "", fmt.Errorf("persisting collection: %w", err)
	}

	return id, nil
}

// Delete removes a collection by ID.
func (ct *collectionsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}

	res, err := ct.backend.db.Exec("DELETE FROM collections WHERE collection_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting collection %s: %w", id, err)
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

// Fetch returns all collections matching the filter. Supported filter keys
// are "name" and "user_id"; values must be strings.
func (ct *collectionsTable) Fetch(filter map[string]any) ([]any, error) {
	query := "SELECT collection_id, name, description, user_id, attributes, created_at, updated_at FROM collections"

	where, args, err := buildWhere(filter, map[string]bool{"name": true, "user_id": true})
	if err != nil {
		return nil, err
	}
	// rowid breaks ties between rows created within the same second.
	query += where + " ORDER BY created_at, rowid"

	rows, err := ct.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching collections: %w", err)
	}
	defer rows.Close()

	var results []any
	for rows.Next() {
		col, err := hydrateCollection(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating collection: %w", err)
		}
		results = append(results, col)
	}
	return results, rows.Err()
}

// rowScanner abstracts *sql.Row and *sql.Rows for hydration helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

func hydrateCollection(row rowScanner) (*types.Collection, error) {
	var col types.Collection
	var attrsJSON, createdAt, updatedAt string
	err := row.Scan(&col.CollectionID, &col.Name, &col.Description, &col.UserID, &attrsJSON, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(attrsJSON), &col.Attributes); err != nil {
		return nil, fmt.Errorf("unmarshaling attributes: %w", err)
	}
	col.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	col.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &col, nil
}

// buildWhere renders a WHERE clause for the allowed filter keys.
// Returns ErrInvalidData for an unsupported key or a non-string value.
func buildWhere(filter map[string]any, allowed map[string]bool) (string, []any, error) {
	if len(filter) == 0 {
		return "", nil, nil
	}
	var clauses []string
	var args []any
	for key, val := range filter {
		if !allowed[key] {
			return "", nil, fmt.Errorf("unsupported filter key %q: %w", key, types.ErrInvalidData)
		}
		s, ok := val.(string)
		if !ok {
			return "", nil, fmt.Errorf("filter value for %q must be a string: %w", key, types.ErrInvalidData)
		}
		clauses = append(clauses, key+" = ?")
		args = append(args, s)
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

// isUniqueViolation reports whether err is a SQLite unique constraint error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
