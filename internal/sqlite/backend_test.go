package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellumhq/vellum/pkg/types"
)

func newAttachedBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Detach() })
	return b
}

func TestBackendLifecycle(t *testing.T) {
	b := NewBackend()

	// Operations before Attach fail.
	_, err := b.GetTable(types.TableCollections)
	assert.ErrorIs(t, err, types.ErrStoreDetached)

	cfg := types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}
	require.NoError(t, b.Attach(cfg))

	// Double attach is rejected.
	assert.ErrorIs(t, b.Attach(cfg), types.ErrAlreadyAttached)

	// All standard tables are routable.
	for _, name := range []string{types.TableCollections, types.TablePosts, types.TableUsers, types.TableSettings} {
		tbl, err := b.GetTable(name)
		require.NoError(t, err)
		assert.NotNil(t, tbl)
	}
	_, err = b.GetTable("bogus")
	assert.ErrorIs(t, err, types.ErrTableNotFound)

	// Detach is idempotent.
	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach())
	_, err = b.GetTable(types.TableCollections)
	assert.ErrorIs(t, err, types.ErrStoreDetached)
}

func TestBackendRejectsInvalidConfig(t *testing.T) {
	b := NewBackend()
	err := b.Attach(types.Config{Backend: "postgres"})
	assert.ErrorIs(t, err, types.ErrBackendUnknown)
}

func TestBackendPersistsAcrossAttachCycles(t *testing.T) {
	dir := t.TempDir()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	b := NewBackend()
	require.NoError(t, b.Attach(cfg))
	tbl, err := b.GetTable(types.TableCollections)
	require.NoError(t, err)
	_, err = tbl.Set("c1abc", &types.Collection{Name: "Blog", UserID: "u1abc"})
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	// A fresh backend over the same data dir sees the record.
	b2 := NewBackend()
	require.NoError(t, b2.Attach(cfg))
	defer b2.Detach()
	tbl2, err := b2.GetTable(types.TableCollections)
	require.NoError(t, err)
	entity, err := tbl2.Get("c1abc")
	require.NoError(t, err)
	assert.Equal(t, "Blog", entity.(*types.Collection).Name)
}
