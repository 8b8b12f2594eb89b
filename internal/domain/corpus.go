package domain

import "time"

// Corpus is an immutable, fully built snapshot of loaded recipes.
// It is safe for concurrent readers.
type Corpus struct {
	recipes  []Recipe
	byID     map[string]int
	source   string
	loadedAt time.Time
}

// NewCorpus builds a snapshot over recipes in load order.
// Recipe ids are expected to be unique; a later duplicate is not indexed.
func NewCorpus(recipes []Recipe, source string) *Corpus {
	c := &Corpus{
		recipes:  make([]Recipe, len(recipes)),
		byID:     make(map[string]int, len(recipes)),
		source:   source,
		loadedAt: time.Now(),
	}
	copy(c.recipes, recipes)
	for i, r := range c.recipes {
		if _, exists := c.byID[r.ID]; !exists {
			c.byID[r.ID] = i
		}
	}
	return c
}

// All returns the recipes in load order. Callers must not modify the result.
func (c *Corpus) All() []Recipe {
	if c == nil {
		return nil
	}
	return c.recipes
}

// Len returns the number of recipes
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.recipes)
}

// ByID looks up a recipe by id
func (c *Corpus) ByID(id string) (Recipe, bool) {
	if c == nil {
		return Recipe{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return Recipe{}, false
	}
	return c.recipes[i], true
}

// Source names where the snapshot was loaded from
func (c *Corpus) Source() string { return c.source }

// LoadedAt is when the snapshot was built
func (c *Corpus) LoadedAt() time.Time { return c.loadedAt }
