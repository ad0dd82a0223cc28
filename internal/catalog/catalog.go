// Package catalog holds the exercise reference data used by the schedule engine.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/devinpereira/Flexin/internal/domain"
)

var (
	ErrEmptyID     = errors.New("catalog entry has an empty id")
	ErrDuplicateID = errors.New("duplicate catalog entry id")
)

// Catalog is an immutable, ordered set of exercises keyed by id.
type Catalog struct {
	entries []domain.CatalogEntry
	byID    map[string]int
}

// New builds a catalog keeping the given order. Ids must be non-empty and unique.
func New(entries []domain.CatalogEntry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]domain.CatalogEntry, 0, len(entries)),
		byID:    make(map[string]int, len(entries)),
	}
	for _, entry := range entries {
		entry.ID = strings.TrimSpace(entry.ID)
		if entry.ID == "" {
			return nil, fmt.Errorf("%w (name %q)", ErrEmptyID, entry.Name)
		}
		if _, dup := c.byID[entry.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, entry.ID)
		}
		c.byID[entry.ID] = len(c.entries)
		c.entries = append(c.entries, entry)
	}
	return c, nil
}

// Entries returns a copy of the entries in catalog order.
func (c *Catalog) Entries() []domain.CatalogEntry {
	if c == nil {
		return nil
	}
	return slices.Clone(c.entries)
}

// Get looks an entry up by id.
func (c *Catalog) Get(id string) (domain.CatalogEntry, bool) {
	if c == nil {
		return domain.CatalogEntry{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return domain.CatalogEntry{}, false
	}
	return c.entries[i], true
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}
