// Package service implements the schema-mutation and content-validation
// engine on top of the Table storage abstraction.
package service

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/vellumhq/vellum/pkg/types"
)

// ID prefixes per entity type.
const (
	PrefixCollection = "c"
	PrefixPost       = "p"
	PrefixUser       = "u"
	PrefixAttribute  = "a"
)

const (
	idCharset = "abcdefghijklmnopqrstuvwxyz0123456789"
	idLength  = 5

	// maxIDAttempts caps the generate-and-check loop so a misbehaving
	// store cannot spin it forever.
	maxIDAttempts = 100
)

// GenerateID returns prefix followed by five random lowercase-alphanumeric
// characters. Uniqueness is the caller's concern; see AllocateID.
func GenerateID(prefix string) string {
	buf := make([]byte, idLength)
	for i := range buf {
		buf[i] = idCharset[rand.Intn(len(idCharset))]
	}
	return prefix + string(buf)
}

// AllocateID generates candidate IDs until one is free in the given table.
// The check-then-use window is racy under concurrent writers; the 36^5 id
// space keeps collisions rare in the single-writer admin workflow this
// engine targets. Fails after maxIDAttempts rather than looping forever.
func AllocateID(table types.Table, prefix string) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := GenerateID(prefix)
		_, err := table.Get(id)
		if errors.Is(err, types.ErrNotFound) {
			return id, nil
		}
		if err != nil {
			return "", fmt.Errorf("checking id %s: %w", id, err)
		}
	}
	return "", fmt.Errorf("no free id with prefix %q after %d attempts", prefix, maxIDAttempts)
}
