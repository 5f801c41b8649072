package types

import "errors"

// Store defines backend-agnostic storage access. Callers attach to a
// backend, access tables by name, and detach when done.
type Store interface {
	// GetTable returns the Table for the given name.
	// Returns ErrTableNotFound if the name is not a standard table.
	GetTable(name string) (Table, error)

	// Attach connects the Store to the backend described by config.
	// Creates the DataDir if it does not exist.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, operations on tables return ErrStoreDetached.
	Detach() error
}

// Table provides uniform record operations for a single entity type.
// Get and Fetch return any; callers type-assert to the concrete entity
// struct. Each Set is a single-record write assumed atomic at the storage
// layer; no multi-record transactional guarantees are offered.
type Table interface {
	// Get retrieves the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Get(id string) (any, error)

	// Set creates or updates the entity under the given ID.
	// Returns the ID written.
	Set(id string, data any) (string, error)

	// Delete removes the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Delete(id string) error

	// Fetch returns all entities matching the filter. An empty filter
	// returns every entity in the table.
	Fetch(filter map[string]any) ([]any, error)
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrTableNotFound   = errors.New("table not found")
)

// Table operation errors.
var (
	ErrInvalidID   = errors.New("invalid entity ID")
	ErrInvalidData = errors.New("invalid entity data")
)

// Engine errors. Validation and mutation failures wrap one of these so
// adapters can map them without inspecting message text.
var (
	ErrNotFound               = errors.New("not found")
	ErrConflict               = errors.New("conflict")
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrUnsupportedContentType = errors.New("unsupported content type")
	ErrUnauthorized           = errors.New("unauthorized")
)

// Standard table names.
const (
	TableCollections = "collections"
	TablePosts       = "posts"
	TableUsers       = "users"
	TableSettings    = "settings"
)
