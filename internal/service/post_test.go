package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellumhq/vellum/pkg/types"
)

func TestPostCreateValidCase(t *testing.T) {
	store := newTestStore(t)
	col := seedBlogCollection(t, store)
	posts := NewPostService(store)

	post, err := posts.Create(col.CollectionID, map[string]any{
		"Title":  "Hello",
		"Rating": float64(10),
	}, "u1abc")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(post.PostID, "p"))
	assert.Equal(t, col.CollectionID, post.CollectionID)
	assert.Equal(t, "u1abc", post.UserID)
	assert.Equal(t, "Hello", post.Attributes["Title"])
	assert.Equal(t, float64(10), post.Attributes["Rating"])
	// The default is injected for the absent date field.
	assert.Equal(t, "2023-01-01", post.Attributes["Published"])

	saved, err := posts.Get(post.PostID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", saved.Attributes["Title"])
}

func TestPostCreateValidationFailures(t *testing.T) {
	store := newTestStore(t)
	col := seedBlogCollection(t, store)
	posts := NewPostService(store)

	cases := []struct {
		name    string
		attrs   map[string]any
		wantErr error
		wantMsg string
	}{
		{
			name:    "required text missing",
			attrs:   map[string]any{"Rating": float64(10)},
			wantErr: types.ErrInvalidArgument,
			wantMsg: "required attribute \"Title\"",
		},
		{
			name:    "text below minimum length",
			attrs:   map[string]any{"Title": "H"},
			wantErr: types.ErrInvalidArgument,
			wantMsg: "minimum length of 2",
		},
		{
			name:    "text above maximum length",
			attrs:   map[string]any{"Title": strings.Repeat("a", 51)},
			wantErr: types.ErrInvalidArgument,
			wantMsg: "maximum length of 50",
		},
		{
			name:    "text without a letter",
			attrs:   map[string]any{"Title": "12345"},
			wantErr: types.ErrInvalidArgument,
			wantMsg: "must contain a letter",
		},
		{
			name:    "text with a space",
			attrs:   map[string]any{"Title": "Hello World"},
			wantErr: types.ErrInvalidArgument,
			wantMsg: "must contain a letter",
		},
		{
			name:    "number above maximum",
			attrs:   map[string]any{"Title": "Hello", "Rating": float64(60)},
			wantErr: types.ErrInvalidArgument,
			wantMsg: "maximum value of 50",
		},
		{
			name:    "number below minimum",
			attrs:   map[string]any{"Title": "Hello", "Rating": float64(1)},
			wantErr: types.ErrInvalidArgument,
			wantMsg: "minimum value of 2",
		},
		{
			name:    "number not numeric",
			attrs:   map[string]any{"Title": "Hello", "Rating": "lots"},
			wantErr: types.ErrInvalidArgument,
			wantMsg: "must be a number",
		},
		{
			name:    "date does not parse",
			attrs:   map[string]any{"Title": "Hello", "Published": "not-a-date"},
			wantErr: types.ErrInvalidArgument,
			wantMsg: "not a valid DATE",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := posts.Create(col.CollectionID, tc.attrs, "u1abc")
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}

	// Nothing was persisted by any failed create.
	all, err := posts.ListByCollection(col.CollectionID)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPostCreateUnknownCollection(t *testing.T) {
	store := newTestStore(t)
	posts := NewPostService(store)

	_, err := posts.Create("c0000", map[string]any{"Title": "Hello"}, "u1abc")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestPostCreateRejectsEmptyData(t *testing.T) {
	store := newTestStore(t)
	collections := NewCollectionService(store)
	posts := NewPostService(store)

	// Only optional attributes without defaults: an empty payload stays
	// empty after injection and must be rejected.
	col, err := collections.Create("Notes", "", "u1abc")
	require.NoError(t, err)
	_, err = collections.AddAttribute(col.CollectionID, types.CreateAttributeRequest{
		Name:        "Note",
		ContentType: types.ContentTypeRichText,
	})
	require.NoError(t, err)

	_, err = posts.Create(col.CollectionID, map[string]any{}, "u1abc")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "empty data")

	_, err = posts.Create(col.CollectionID, map[string]any{"Note": "hi"}, "u1abc")
	assert.NoError(t, err)
}

func TestPostCreateUniqueValueConflict(t *testing.T) {
	store := newTestStore(t)
	col := seedBlogCollection(t, store)
	posts := NewPostService(store)

	_, err := posts.Create(col.CollectionID, map[string]any{
		"Title": "First",
		"Slug":  "My-Slug",
	}, "u1abc")
	require.NoError(t, err)

	// The duplicate check is case-insensitive.
	_, err = posts.Create(col.CollectionID, map[string]any{
		"Title": "Second",
		"Slug":  "my-slug",
	}, "u1abc")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrConflict)
	assert.Contains(t, err.Error(), "unique value")

	// Empty slugs hold the default sentinel and never conflict.
	_, err = posts.Create(col.CollectionID, map[string]any{"Title": "Third"}, "u1abc")
	assert.NoError(t, err)
	_, err = posts.Create(col.CollectionID, map[string]any{"Title": "Fourth"}, "u1abc")
	assert.NoError(t, err)
}

func TestPostCreateNormalizesValues(t *testing.T) {
	store := newTestStore(t)
	col := seedBlogCollection(t, store)
	posts := NewPostService(store)

	post, err := posts.Create(col.CollectionID, map[string]any{
		"Title": "Hello",
		"Body":  "  padded  ",
		"stray": "  kept and trimmed  ",
	}, "u1abc")
	require.NoError(t, err)

	assert.Equal(t, "padded", post.Attributes["Body"])
	// Unknown keys pass through validation untouched but are still trimmed.
	assert.Equal(t, "kept and trimmed", post.Attributes["stray"])
}

func TestPostCreateCanonicalizesDate(t *testing.T) {
	store := newTestStore(t)
	col := seedBlogCollection(t, store)
	posts := NewPostService(store)

	post, err := posts.Create(col.CollectionID, map[string]any{
		"Title":     "Hello",
		"Published": "2023-02-02",
	}, "u1abc")
	require.NoError(t, err)
	assert.Equal(t, "2023-02-02", post.Attributes["Published"])
}

func TestPostUpdateMergesAttributes(t *testing.T) {
	store := newTestStore(t)
	col := seedBlogCollection(t, store)
	posts := NewPostService(store)

	post, err := posts.Create(col.CollectionID, map[string]any{
		"Title":  "Hello",
		"Rating": float64(10),
	}, "u1abc")
	require.NoError(t, err)

	updated, err := posts.Update(col.CollectionID, post.PostID, map[string]any{
		"Title": "Hello again",
	})
	require.Error(t, err) // space in TEXT

	updated, err = posts.Update(col.CollectionID, post.PostID, map[string]any{
		"Title": "Revised",
	})
	require.NoError(t, err)
	assert.Equal(t, "Revised", updated.Attributes["Title"])
	// Untouched fields survive the merge.
	assert.Equal(t, float64(10), updated.Attributes["Rating"])

	saved, err := posts.Get(post.PostID)
	require.NoError(t, err)
	assert.Equal(t, "Revised", saved.Attributes["Title"])
	assert.Equal(t, float64(10), saved.Attributes["Rating"])
}

func TestPostUpdateValidatesChangedFields(t *testing.T) {
	store := newTestStore(t)
	col := seedBlogCollection(t, store)
	posts := NewPostService(store)

	post, err := posts.Create(col.CollectionID, map[string]any{"Title": "Hello"}, "u1abc")
	require.NoError(t, err)

	_, err = posts.Update(col.CollectionID, post.PostID, map[string]any{"Title": "H"})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	// A failed update leaves the stored post untouched.
	saved, err := posts.Get(post.PostID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", saved.Attributes["Title"])
}

func TestPostUpdateUniquenessExcludesSelf(t *testing.T) {
	store := newTestStore(t)
	col := seedBlogCollection(t, store)
	posts := NewPostService(store)

	first, err := posts.Create(col.CollectionID, map[string]any{
		"Title": "First",
		"Slug":  "first-slug",
	}, "u1abc")
	require.NoError(t, err)
	second, err := posts.Create(col.CollectionID, map[string]any{
		"Title": "Second",
		"Slug":  "second-slug",
	}, "u1abc")
	require.NoError(t, err)

	// Re-submitting a post's own value is not a conflict.
	_, err = posts.Update(col.CollectionID, first.PostID, map[string]any{"Slug": "first-slug"})
	assert.NoError(t, err)

	// Taking another post's value is.
	_, err = posts.Update(col.CollectionID, second.PostID, map[string]any{"Slug": "First-Slug"})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrConflict)
}

func TestPostUpdateUnknownPost(t *testing.T) {
	store := newTestStore(t)
	col := seedBlogCollection(t, store)
	posts := NewPostService(store)

	_, err := posts.Update(col.CollectionID, "p0000", map[string]any{"Title": "Hello"})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestPostListByCollection(t *testing.T) {
	store := newTestStore(t)
	col := seedBlogCollection(t, store)
	posts := NewPostService(store)

	for _, title := range []string{"One", "Two", "Three"} {
		_, err := posts.Create(col.CollectionID, map[string]any{"Title": title}, "u1abc")
		require.NoError(t, err)
	}

	listed, err := posts.ListByCollection(col.CollectionID)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "One", listed[0].Attributes["Title"])
	assert.Equal(t, "Three", listed[2].Attributes["Title"])
}

func TestDefaultViolatingBoundsIsAccepted(t *testing.T) {
	store := newTestStore(t)
	collections := NewCollectionService(store)
	posts := NewPostService(store)

	col, err := collections.Create("Scores", "", "u1abc")
	require.NoError(t, err)
	_, err = collections.AddAttribute(col.CollectionID, types.CreateAttributeRequest{
		Name:        "Label",
		ContentType: types.ContentTypeText,
		TextType:    types.TextTypeShort,
		Required:    true,
	})
	require.NoError(t, err)
	// Default 1 sits below the minimum of 5. An injected or resubmitted
	// default still matches the sentinel and skips bound checks.
	_, err = collections.AddAttribute(col.CollectionID, types.CreateAttributeRequest{
		Name:         "Score",
		ContentType:  types.ContentTypeNumber,
		FormatType:   types.FormatTypeInteger,
		MinimumValue: intPtr(5),
		DefaultValue: "1",
	})
	require.NoError(t, err)

	post, err := posts.Create(col.CollectionID, map[string]any{"Label": "ok"}, "u1abc")
	require.NoError(t, err)
	assert.Equal(t, "1", post.Attributes["Score"])

	_, err = posts.Create(col.CollectionID, map[string]any{
		"Label": "also-ok",
		"Score": float64(1),
	}, "u1abc")
	assert.NoError(t, err)

	// A non-default value is held to the bound.
	_, err = posts.Create(col.CollectionID, map[string]any{
		"Label": "bad",
		"Score": float64(3),
	}, "u1abc")
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}
