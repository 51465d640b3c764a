// Package catalog holds the node-type archetypes a user can drop onto the
// canvas. Archetypes are read-only reference data loaded from TOML.
package catalog

import (
	"fmt"
	"strings"

	"github.com/screenflow/core/internal/models"
)

// Archetype is a catalog-defined template for a node instance.
type Archetype struct {
	ID          string            `toml:"id" json:"id"`
	Label       string            `toml:"label" json:"label"`
	Category    string            `toml:"category" json:"category"`
	Description string            `toml:"description" json:"description"`
	UIOptions   []models.UIOption `toml:"ui_options" json:"defaultUIOptions"`
}

// Instantiate returns an independent node config built from the archetype's
// defaults. Each option gets the id "{instanceID}-{index}".
func (a Archetype) Instantiate(instanceID string) models.NodeConfig {
	opts := make([]models.UIOption, len(a.UIOptions))
	for i, o := range a.UIOptions {
		opts[i] = o.Clone()
		opts[i].ID = fmt.Sprintf("%s-%d", instanceID, i)
	}
	return models.NodeConfig{
		ID:          instanceID,
		Label:       a.Label,
		Type:        a.Category,
		Description: a.Description,
		UIOptions:   opts,
	}
}

func (a Archetype) clone() Archetype {
	opts := make([]models.UIOption, len(a.UIOptions))
	for i, o := range a.UIOptions {
		opts[i] = o.Clone()
	}
	a.UIOptions = opts
	return a
}

// Catalog is an ordered, immutable set of archetypes.
type Catalog struct {
	archetypes []Archetype
	byID       map[string]*Archetype
}

// New creates a catalog from a list of archetypes. Later entries with an
// already-seen id replace the earlier one in place.
func New(archetypes []Archetype) *Catalog {
	c := &Catalog{byID: make(map[string]*Archetype, len(archetypes))}
	index := make(map[string]int, len(archetypes))
	for _, a := range archetypes {
		if i, ok := index[a.ID]; ok {
			c.archetypes[i] = a.clone()
			continue
		}
		index[a.ID] = len(c.archetypes)
		c.archetypes = append(c.archetypes, a.clone())
	}
	for i := range c.archetypes {
		c.byID[c.archetypes[i].ID] = &c.archetypes[i]
	}
	return c
}

// All returns a copy of every archetype in catalog order.
func (c *Catalog) All() []Archetype {
	out := make([]Archetype, len(c.archetypes))
	for i, a := range c.archetypes {
		out[i] = a.clone()
	}
	return out
}

// Len returns the number of archetypes.
func (c *Catalog) Len() int {
	return len(c.archetypes)
}

// Get returns a copy of the archetype with the given id, or nil if not found.
func (c *Catalog) Get(id string) *Archetype {
	a, ok := c.byID[id]
	if !ok {
		return nil
	}
	cp := a.clone()
	return &cp
}

// ByCategory returns archetypes filtered by category.
func (c *Catalog) ByCategory(category string) []Archetype {
	var results []Archetype
	for _, a := range c.archetypes {
		if a.Category == category {
			results = append(results, a.clone())
		}
	}
	return results
}

// Categories returns all unique categories in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, a := range c.archetypes {
		if !seen[a.Category] {
			seen[a.Category] = true
			cats = append(cats, a.Category)
		}
	}
	return cats
}

// Search finds archetypes matching a query against id, label, category and
// description. An empty query matches everything.
func (c *Catalog) Search(query string) []Archetype {
	return c.Filter(query, "")
}

// Filter combines Search with an optional category restriction.
func (c *Catalog) Filter(query, category string) []Archetype {
	q := strings.ToLower(strings.TrimSpace(query))
	var results []Archetype
	for _, a := range c.archetypes {
		if category != "" && a.Category != category {
			continue
		}
		if q == "" || matches(a, q) {
			results = append(results, a.clone())
		}
	}
	return results
}

func matches(a Archetype, query string) bool {
	for _, field := range []string{a.ID, a.Label, a.Category, a.Description} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
