package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vellumhq/vellum/internal/mail"
	"github.com/vellumhq/vellum/internal/sqlite"
	"github.com/vellumhq/vellum/pkg/types"
)

func newTestStore(t *testing.T) types.Store {
	t.Helper()
	backend := sqlite.NewBackend()
	err := backend.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, backend.Detach())
	})
	return backend
}

func intPtr(n int) *int {
	return &n
}

// seedBlogCollection creates the "Blog" collection used across the post
// pipeline tests: a required bounded TEXT title, a unique TEXT slug, a
// bounded NUMBER rating, a DATE published field with a default, and an
// optional RICHTEXT body.
func seedBlogCollection(t *testing.T, store types.Store) *types.Collection {
	t.Helper()
	collections := NewCollectionService(store)

	col, err := collections.Create("Blog", "test posts", "u1abc")
	require.NoError(t, err)

	reqs := []types.CreateAttributeRequest{
		{
			Name:          "Title",
			ContentType:   types.ContentTypeText,
			TextType:      types.TextTypeShort,
			Required:      true,
			MinimumLength: intPtr(2),
			MaximumLength: intPtr(50),
		},
		{
			Name:        "Slug",
			ContentType: types.ContentTypeText,
			TextType:    types.TextTypeShort,
			Unique:      true,
		},
		{
			Name:         "Rating",
			ContentType:  types.ContentTypeNumber,
			FormatType:   types.FormatTypeInteger,
			MinimumValue: intPtr(2),
			MaximumValue: intPtr(50),
		},
		{
			Name:         "Published",
			ContentType:  types.ContentTypeDate,
			DateType:     types.DateTypeDate,
			DefaultValue: "2023-01-01",
		},
		{
			Name:        "Body",
			ContentType: types.ContentTypeRichText,
		},
	}
	for _, req := range reqs {
		_, err := collections.AddAttribute(col.CollectionID, req)
		require.NoError(t, err)
	}

	fresh, err := collections.Get(col.CollectionID)
	require.NoError(t, err)
	return fresh
}

// fakeSender records outgoing mail instead of delivering it.
type fakeSender struct {
	sent []mail.Message
}

func (f *fakeSender) Send(msg mail.Message) error {
	f.sent = append(f.sent, msg)
	return nil
}
