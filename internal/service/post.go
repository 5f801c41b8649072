package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vellumhq/vellum/pkg/types"
)

// textPattern is the allowed character class for TEXT values: letters,
// digits and common punctuation. A separate letter check enforces that at
// least one letter is present.
var (
	textPattern = regexp.MustCompile(`^[a-zA-Z0-9!@#$%^&*()_+\-=\[\]{};':"\\|,.<>/?]*$`)
	letterRe    = regexp.MustCompile(`[a-zA-Z]`)
)

// PostService runs the default-injection and validation pipeline on post
// create and update. It never writes the store on a failed validation, and
// it does not log; every failure is surfaced synchronously to the caller
// with the offending field and bound in the message.
type PostService struct {
	store types.Store
}

// NewPostService creates a PostService backed by the store.
func NewPostService(store types.Store) *PostService {
	return &PostService{store: store}
}

// Create validates attrs against the owning collection's schema and
// persists a new post authored by authorID. The pipeline is: load the
// collection, inject defaults for absent or empty fields, reject an
// effectively empty post, validate every present field against its
// definition (including the cross-record uniqueness scan), normalize
// values, then save under a fresh id.
func (s *PostService) Create(collectionID string, attrs map[string]any, authorID string) (*types.Post, error) {
	col, err := s.loadCollection(collectionID)
	if err != nil {
		return nil, err
	}
	if attrs == nil {
		attrs = map[string]any{}
	}

	injectDefaults(col.Attributes, attrs)

	if err := checkNotEmpty(col.Attributes, attrs); err != nil {
		return nil, err
	}

	if err := s.validateAttributes(col, attrs, ""); err != nil {
		return nil, err
	}

	normalizeValues(attrs)

	postsTable, err := s.store.GetTable(types.TablePosts)
	if err != nil {
		return nil, err
	}
	id, err := AllocateID(postsTable, PrefixPost)
	if err != nil {
		return nil, err
	}

	post := &types.Post{
		PostID:       id,
		CollectionID: collectionID,
		UserID:       authorID,
		Attributes:   attrs,
	}
	if _, err := postsTable.Set(id, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Update validates the subset of attributes present in attrs against the
// collection's schema and merges it into the stored post. Attributes absent
// from the payload are left untouched: no re-validation and no default
// re-injection happen for them.
func (s *PostService) Update(collectionID, postID string, attrs map[string]any) (*types.Post, error) {
	postsTable, err := s.store.GetTable(types.TablePosts)
	if err != nil {
		return nil, err
	}
	entity, err := postsTable.Get(postID)
	if err != nil {
		return nil, err
	}
	post := entity.(*types.Post)

	col, err := s.loadCollection(collectionID)
	if err != nil {
		return nil, err
	}

	if len(attrs) > 0 {
		if err := s.validateAttributes(col, attrs, postID); err != nil {
			return nil, err
		}
		normalizeValues(attrs)

		if post.Attributes == nil {
			post.Attributes = map[string]any{}
		}
		for name, value := range attrs {
			post.Attributes[name] = value
		}
	}

	if _, err := postsTable.Set(postID, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Get returns the post with the given id, or ErrNotFound.
func (s *PostService) Get(id string) (*types.Post, error) {
	table, err := s.store.GetTable(types.TablePosts)
	if err != nil {
		return nil, err
	}
	entity, err := table.Get(id)
	if err != nil {
		return nil, err
	}
	return entity.(*types.Post), nil
}

// ListByCollection returns all posts belonging to collectionID, in
// creation order.
func (s *PostService) ListByCollection(collectionID string) ([]*types.Post, error) {
	table, err := s.store.GetTable(types.TablePosts)
	if err != nil {
		return nil, err
	}
	results, err := table.Fetch(map[string]any{"collection_id": collectionID})
	if err != nil {
		return nil, err
	}
	posts := make([]*types.Post, 0, len(results))
	for _, r := range results {
		posts = append(posts, r.(*types.Post))
	}
	return posts, nil
}

func (s *PostService) loadCollection(id string) (*types.Collection, error) {
	table, err := s.store.GetTable(types.TableCollections)
	if err != nil {
		return nil, err
	}
	entity, err := table.Get(id)
	if err != nil {
		return nil, err
	}
	return entity.(*types.Collection), nil
}

// injectDefaults sets the definition's default value for every schema
// attribute that is absent from attrs or present with a nil or empty
// value. MEDIA attributes have no default and are left absent.
func injectDefaults(defs []*types.Attribute, attrs map[string]any) {
	for _, def := range defs {
		if def.ContentType == types.ContentTypeMedia {
			continue
		}
		value, present := attrs[def.Name]
		if !present || value == nil || stringify(value) == "" {
			attrs[def.Name] = def.DefaultValue
		}
	}
}

// checkNotEmpty rejects a post that, after default injection, carries no
// attribute backed by a required definition and no non-required attribute
// with a non-empty value.
func checkNotEmpty(defs []*types.Attribute, attrs map[string]any) error {
	for _, def := range defs {
		value, present := attrs[def.Name]
		if !present {
			continue
		}
		if def.Required {
			return nil
		}
		if value != nil && stringify(value) != "" {
			return nil
		}
	}
	return fmt.Errorf("a post cannot be created with empty data: %w", types.ErrInvalidArgument)
}

// validateAttributes runs per-field validation for every definition whose
// name is present in attrs. excludePostID is skipped during uniqueness
// scans so an update does not conflict with the record it modifies.
func (s *PostService) validateAttributes(col *types.Collection, attrs map[string]any, excludePostID string) error {
	for _, def := range col.Attributes {
		value, present := attrs[def.Name]
		if !present {
			continue
		}
		if err := s.validateValue(col.CollectionID, def, value, attrs, excludePostID); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostService) validateValue(collectionID string, def *types.Attribute, value any, attrs map[string]any, excludePostID string) error {
	sval := stringify(value)

	if def.Required && sval == "" {
		return fmt.Errorf("required attribute %q must not be empty: %w", def.Name, types.ErrInvalidArgument)
	}

	// A non-required field still holding its default sentinel is trusted
	// as-is: defaults are injected, not re-validated. A default that
	// violates the definition's own bounds is therefore accepted here.
	if !def.Required && equalsSentinel(def, value) {
		return nil
	}

	switch def.ContentType {
	case types.ContentTypeText:
		if err := validateLength(def, sval); err != nil {
			return err
		}
		if len(sval) > 0 && (!textPattern.MatchString(sval) || !letterRe.MatchString(sval)) {
			return fmt.Errorf("attribute %q must contain a letter and only letters, digits or punctuation: %w", def.Name, types.ErrInvalidArgument)
		}

	case types.ContentTypeRichText:
		if err := validateLength(def, sval); err != nil {
			return err
		}

	case types.ContentTypeNumber:
		n, err := numericValue(value)
		if err != nil {
			return fmt.Errorf("attribute %q must be a number: %w", def.Name, types.ErrInvalidArgument)
		}
		if n < float64(def.MinimumValue) {
			return fmt.Errorf("attribute %q must have a minimum value of %d: %w", def.Name, def.MinimumValue, types.ErrInvalidArgument)
		}
		if def.MaximumValue != 0 && n > float64(def.MaximumValue) {
			return fmt.Errorf("attribute %q must have a maximum value of %d: %w", def.Name, def.MaximumValue, types.ErrInvalidArgument)
		}

	case types.ContentTypeDate:
		dateValue := sval
		if dateValue == "" {
			dateValue = def.DefaultValue
		}
		canonical, err := types.CanonicalDate(def.DateType, dateValue)
		if err != nil {
			return fmt.Errorf("attribute %q: %w", def.Name, err)
		}
		// Round-trip normalization: the canonical form replaces the input.
		attrs[def.Name] = canonical

	case types.ContentTypeMedia:
		// No field-level constraint validation for media references.
	}

	if def.Unique && isUniqueKind(def.ContentType) {
		taken, err := s.isValueTaken(collectionID, def.Name, stringify(attrs[def.Name]), excludePostID)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("attribute %q must have a unique value: %w", def.Name, types.ErrConflict)
		}
	}

	return nil
}

func validateLength(def *types.Attribute, sval string) error {
	if len(sval) < def.MinimumLength {
		return fmt.Errorf("attribute %q must have a minimum length of %d: %w", def.Name, def.MinimumLength, types.ErrInvalidArgument)
	}
	if def.MaximumLength != 0 && len(sval) > def.MaximumLength {
		return fmt.Errorf("attribute %q must have a maximum length of %d: %w", def.Name, def.MaximumLength, types.ErrInvalidArgument)
	}
	return nil
}

// isValueTaken reports whether another post in the collection already holds
// the candidate value under the given attribute name, comparing trimmed and
// case-insensitively. This is a linear scan over the collection's posts —
// no index is maintained.
func (s *PostService) isValueTaken(collectionID, name, candidate, excludePostID string) (bool, error) {
	table, err := s.store.GetTable(types.TablePosts)
	if err != nil {
		return false, err
	}
	results, err := table.Fetch(map[string]any{"collection_id": collectionID})
	if err != nil {
		return false, err
	}

	want := strings.TrimSpace(candidate)
	for _, r := range results {
		post := r.(*types.Post)
		if post.PostID == excludePostID {
			continue
		}
		stored, ok := post.Attributes[name]
		if !ok {
			continue
		}
		if strings.EqualFold(want, strings.TrimSpace(stringify(stored))) {
			return true, nil
		}
	}
	return false, nil
}

// normalizeValues trims leading and trailing whitespace on every
// string-typed attribute value, including keys no definition covers.
func normalizeValues(attrs map[string]any) {
	for name, value := range attrs {
		if s, ok := value.(string); ok {
			attrs[name] = strings.TrimSpace(s)
		}
	}
}

// equalsSentinel reports whether value equals the definition's default
// sentinel. All string kinds use the empty string; NUMBER additionally
// matches the numeric reading of the definition's default value.
func equalsSentinel(def *types.Attribute, value any) bool {
	sval := stringify(value)
	if sval == "" {
		return def.DefaultSentinel() != nil
	}
	if def.ContentType == types.ContentTypeNumber {
		n, err := numericValue(value)
		if err != nil {
			return false
		}
		sentinel, _ := def.DefaultSentinel().(float64)
		return n == sentinel
	}
	return false
}

// stringify renders a dynamically typed attribute value as a string.
// nil renders as the empty string; floats drop their trailing zeros so a
// JSON-decoded 60 reads back as "60".
func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}

// numericValue reads a dynamically typed value as float64. String values
// are parsed; anything else non-numeric is an error.
func numericValue(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("value %v is not numeric", v)
	}
}

func isUniqueKind(contentType string) bool {
	switch contentType {
	case types.ContentTypeText, types.ContentTypeNumber, types.ContentTypeDate:
		return true
	}
	return false
}
