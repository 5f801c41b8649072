package types

import "time"

// Post is a content record conforming, after validation, to the schema of
// its owning collection. Attributes maps attribute name to a dynamically
// typed value: string, number, or date-formatted string.
type Post struct {
	PostID       string         `json:"postId"`
	CollectionID string         `json:"collectionId"`
	UserID       string         `json:"userId"`
	Attributes   map[string]any `json:"attributes"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}
