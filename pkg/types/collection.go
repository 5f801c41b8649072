package types

import "time"

// Collection is a named content-type schema: an ordered list of attribute
// definitions. Attribute order is insertion order and doubles as display
// and validation order; names are unique within the list.
type Collection struct {
	CollectionID string       `json:"collectionId"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	UserID       string       `json:"userId"`
	Attributes   []*Attribute `json:"attributes"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// AttributeByName returns the attribute with the given name, or nil if the
// collection has no such attribute. Names are matched exactly, untrimmed.
func (c *Collection) AttributeByName(name string) *Attribute {
	for _, attr := range c.Attributes {
		if attr.Name == name {
			return attr
		}
	}
	return nil
}

// HasAttribute reports whether the collection defines an attribute with
// the given name.
func (c *Collection) HasAttribute(name string) bool {
	return c.AttributeByName(name) != nil
}
