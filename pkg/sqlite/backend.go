// Package sqlite provides the public API for the SQLite Vellum backend.
// It exposes the factory function for creating SQLite backends while
// keeping implementation details internal.
package sqlite

import (
	"github.com/vellumhq/vellum/internal/sqlite"
	"github.com/vellumhq/vellum/pkg/types"
)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".vellum",
//	})
//	defer backend.Detach()
func NewBackend() types.Store {
	return sqlite.NewBackend()
}
