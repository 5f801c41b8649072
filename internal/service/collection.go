package service

import (
	"fmt"

	"github.com/vellumhq/vellum/pkg/types"
)

// CollectionService owns schema mutation: collection creation with
// name-uniqueness and append-only attribute addition. Both checks are
// read-then-write with no transactional guard; two concurrent requests can
// both pass before either writes, which is accepted for this single-writer
// admin workflow.
type CollectionService struct {
	store types.Store
}

// NewCollectionService creates a CollectionService backed by the store.
func NewCollectionService(store types.Store) *CollectionService {
	return &CollectionService{store: store}
}

// Create persists a new collection owned by ownerID. Name and description
// are trimmed and internal whitespace is collapsed. Returns ErrConflict if
// a collection with the same cleaned name already exists (case-sensitive
// exact match) and ErrInvalidArgument for an empty name.
func (s *CollectionService) Create(name, description, ownerID string) (*types.Collection, error) {
	table, err := s.store.GetTable(types.TableCollections)
	if err != nil {
		return nil, err
	}

	cleanedName := CleanField(name)
	if cleanedName == "" {
		return nil, fmt.Errorf("collection name must not be empty: %w", types.ErrInvalidArgument)
	}

	existing, err := table.Fetch(map[string]any{"name": cleanedName})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("collection name %q already exists: %w", cleanedName, types.ErrConflict)
	}

	id, err := AllocateID(table, PrefixCollection)
	if err != nil {
		return nil, err
	}

	col := &types.Collection{
		CollectionID: id,
		Name:         cleanedName,
		Description:  CleanField(description),
		UserID:       ownerID,
		Attributes:   []*types.Attribute{},
	}
	if _, err := table.Set(id, col); err != nil {
		return nil, err
	}
	return col, nil
}

// Get returns the collection with the given id, or ErrNotFound.
func (s *CollectionService) Get(id string) (*types.Collection, error) {
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

// GetByName returns the collection with the given name, or ErrNotFound.
func (s *CollectionService) GetByName(name string) (*types.Collection, error) {
	table, err := s.store.GetTable(types.TableCollections)
	if err != nil {
		return nil, err
	}
	results, err := table.Fetch(map[string]any{"name": name})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, types.ErrNotFound
	}
	return results[0].(*types.Collection), nil
}

// List returns all collections, in creation order.
func (s *CollectionService) List() ([]*types.Collection, error) {
	return s.fetch(nil)
}

// ListByOwner returns all collections owned by userID, in creation order.
func (s *CollectionService) ListByOwner(userID string) ([]*types.Collection, error) {
	return s.fetch(map[string]any{"user_id": userID})
}

func (s *CollectionService) fetch(filter map[string]any) ([]*types.Collection, error) {
	table, err := s.store.GetTable(types.TableCollections)
	if err != nil {
		return nil, err
	}
	results, err := table.Fetch(filter)
	if err != nil {
		return nil, err
	}
	collections := make([]*types.Collection, 0, len(results))
	for _, r := range results {
		collections = append(collections, r.(*types.Collection))
	}
	return collections, nil
}

// AddAttribute builds an attribute definition from the request and appends
// it to the collection's schema. Returns ErrNotFound if the collection does
// not exist and ErrConflict if an attribute with the exact same (untrimmed)
// name is already defined. The schema change is immediately visible to
// subsequent post validations: the collection document is mutated in place,
// with no caching layer and no versioning.
func (s *CollectionService) AddAttribute(collectionID string, req types.CreateAttributeRequest) (*types.Attribute, error) {
	table, err := s.store.GetTable(types.TableCollections)
	if err != nil {
		return nil, err
	}

	entity, err := table.Get(collectionID)
	if err != nil {
		return nil, err
	}
	col := entity.(*types.Collection)

	if col.HasAttribute(req.Name) {
		return nil, fmt.Errorf("attribute %q already exists in collection %s: %w", req.Name, collectionID, types.ErrConflict)
	}

	id, err := s.newAttributeID(col)
	if err != nil {
		return nil, err
	}
	attr, err := types.BuildAttribute(id, req)
	if err != nil {
		return nil, err
	}
	attr.Name = CleanField(attr.Name)

	col.Attributes = append(col.Attributes, attr)
	if _, err := table.Set(collectionID, col); err != nil {
		return nil, err
	}
	return attr, nil
}

// newAttributeID allocates an attribute id unused within the collection.
func (s *CollectionService) newAttributeID(col *types.Collection) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := GenerateID(PrefixAttribute)
		taken := false
		for _, attr := range col.Attributes {
			if attr.AttributeID == id {
				taken = true
				break
			}
		}
		if !taken {
			return id, nil
		}
	}
	return "", fmt.Errorf("no free attribute id after %d attempts", maxIDAttempts)
}
