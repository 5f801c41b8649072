package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vellumhq/vellum/pkg/types"
)

// Compile-time interface check: postsTable must implement Table.
var _ types.Table = (*postsTable)(nil)

// postsTable implements the Table interface for content records. The
// attribute map is stored as a JSON object in the row.
type postsTable struct {
	backend *Backend
}

// Get retrieves a post by ID and hydrates it to *types.Post.
func (pt *postsTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}

	row := pt.backend.db.QueryRow(
		"SELECT post_id, collection_id, user_id, attributes, created_at, updated_at FROM posts WHERE post_id = ?",
		id,
	)
	post, err := hydratePost(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting post %s: %w", id, err)
	}
	return post, nil
}

// Set persists a post under the given ID. The caller allocates IDs; an
// empty id is rejected.
func (pt *postsTable) Set(id string, data any) (string, error) {
	post, ok := data.(*types.Post)
	if !ok {
		return "", types.ErrInvalidData
	}
	if id == "" {
		return "", types.ErrInvalidID
	}
	post.PostID = id

	now := time.Now().UTC()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now

	if post.Attributes == nil {
		post.Attributes = map[string]any{}
	}
	attrsJSON, err := json.Marshal(post.Attributes)
	if err != nil {
		return "", fmt.Errorf("marshaling attributes: %w", err)
	}

	var exists bool
	err = pt.backend.db.QueryRow(
		"SELECT 1 FROM posts WHERE post_id = ?", id,
	).Scan(&exists)
	if err != nil && err != sql.ErrNoRows {
		return "", fmt.Errorf("checking post existence: %w", err)
	}

	createdAtStr := post.CreatedAt.Format(time.RFC3339)
	updatedAtStr := post.UpdatedAt.Format(time.RFC3339)

	if exists {
		_, err = pt.backend.db.Exec(
			"UPDATE posts SET collection_id = ?, user_id = ?, attributes = ?, created_at = ?, updated_at = ? WHERE post_id = ?",
			post.CollectionID, post.UserID, string(attrsJSON), createdAtStr, updatedAtStr, id,
		)
	} else {
		_, err = pt.backend.db.Exec(
			"INSERT INTO posts (post_id, collection_id, user_id, attributes, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
			id, post.CollectionID, post.UserID, string(attrsJSON), createdAtStr, updatedAtStr,
		)
	}
	if err != nil {
		return "", fmt.Errorf("persisting post: %w", err)
	}

	return id, nil
}

// Delete removes a post by ID.
func (pt *postsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}

	res, err := pt.backend.db.Exec("DELETE FROM posts WHERE post_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting post %s: %w", id, err)
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

// Fetch returns all posts matching the filter. Supported filter keys are
// "collection_id" and "user_id"; values must be strings.
func (pt *postsTable) Fetch(filter map[string]any) ([]any, error) {
	query := "SELECT post_id, collection_id, user_id, attributes, created_at, updated_at FROM posts"

	where, args, err := buildWhere(filter, map[string]bool{"collection_id": true, "user_id": true})
	if err != nil {
		return nil, err
	}
	query += where + " ORDER BY created_at, rowid"

	rows, err := pt.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching posts: %w", err)
	}
	defer rows.Close()

	var results []any
	for rows.Next() {
		post, err := hydratePost(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating post: %w", err)
		}
		results = append(results, post)
	}
	return results, rows.Err()
}

func hydratePost(row rowScanner) (*types.Post, error) {
	var post types.Post
	var attrsJSON, createdAt, updatedAt string
	err := row.Scan(&post.PostID, &post.CollectionID, &post.UserID, &attrsJSON, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(attrsJSON), &post.Attributes); err != nil {
		return nil, fmt.Errorf("unmarshaling attributes: %w", err)
	}
	post.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	post.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &post, nil
}
