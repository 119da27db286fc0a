// Package catalog holds the static table of guessing categories.
// The set is fixed at startup; there are no mutation operations.
package catalog

import (
	"errors"
	"fmt"
)

// Errors for catalog lookups and construction.
var (
	ErrCategoryNotFound = errors.New("category not found")
)

// Category is a named inclusive numeric range with a payout multiplier.
type Category struct {
	ID         string
	Label      string
	Min        int
	Max        int
	Multiplier int64
}

// Valid reports whether the category describes a playable range.
func (c Category) Valid() bool {
	return c.ID != "" && c.Min <= c.Max && c.Multiplier > 0
}

// Catalog is an immutable, ordered set of categories.
// All returns categories in declaration order, which menu rendering
// depends on being stable.
type Catalog struct {
	byID  map[string]Category
	order []Category
}

// New builds a catalog from the given categories, preserving their order.
func New(categories []Category) (*Catalog, error) {
	if len(categories) == 0 {
		return nil, errors.New("catalog requires at least one category")
	}

	c := &Catalog{
		byID:  make(map[string]Category, len(categories)),
		order: make([]Category, 0, len(categories)),
	}
	for _, cat := range categories {
		if !cat.Valid() {
			return nil, fmt.Errorf("invalid category %q: range [%d,%d], multiplier %d",
				cat.ID, cat.Min, cat.Max, cat.Multiplier)
		}
		if _, exists := c.byID[cat.ID]; exists {
			return nil, fmt.Errorf("duplicate category %q", cat.ID)
		}
		c.byID[cat.ID] = cat
		c.order = append(c.order, cat)
	}
	return c, nil
}

// Lookup returns the category with the given id.
// Returns ErrCategoryNotFound if the id is not in the catalog.
func (c *Catalog) Lookup(id string) (Category, error) {
	cat, ok := c.byID[id]
	if !ok {
		return Category{}, fmt.Errorf("%w: %q", ErrCategoryNotFound, id)
	}
	return cat, nil
}

// All returns every category in declaration order.
// The returned slice is a copy, so modifications won't affect the catalog.
func (c *Catalog) All() []Category {
	out := make([]Category, len(c.order))
	copy(out, c.order)
	return out
}

// Size returns the number of categories.
func (c *Catalog) Size() int {
	return len(c.order)
}
