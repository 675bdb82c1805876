// Package catalog holds the categorized emoji data offered by the picker.
//
// A Catalog is built once by Load and is read-only afterwards. Store keeps
// the catalog currently in use and swaps in a fresh one when a reload
// succeeds.
package catalog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/sahilm/fuzzy"
)

// MaxEntriesPerCategory bounds the number of entries kept per category.
const MaxEntriesPerCategory = 50

var (
	// ErrCatalogUnavailable is returned when any fetch during a load fails.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrIndexOutOfRange is returned for a category index outside the catalog.
	ErrIndexOutOfRange = errors.New("category index out of range")
)

// Entry is a single emoji in the catalog.
type Entry struct {
	// Code is the standardized character sequence for the emoji.
	Code string
	// Name is a searchable slug such as "grinning-face". May be empty.
	Name string
}

// label returns the text the entry is searched by.
func (e Entry) label() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Code
}

// Category is an ordered, non-empty run of entries.
type Category struct {
	Slug    string
	Entries []Entry
}

// Catalog is an ordered sequence of non-empty categories.
type Catalog struct {
	categories []Category
}

// New builds a catalog from already fetched categories, applying the same
// truncation and empty-category rules as Load.
func New(categories []Category) *Catalog {
	c := &Catalog{categories: make([]Category, 0, len(categories))}
	for _, cat := range categories {
		entries := truncate(cat.Entries, MaxEntriesPerCategory)
		if len(entries) == 0 {
			continue
		}
		c.categories = append(c.categories, Category{Slug: cat.Slug, Entries: entries})
	}
	return c
}

// Len returns the number of categories.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.categories)
}

// Headers returns one representative code per category: the first entry of
// each, in catalog order.
func (c *Catalog) Headers() []string {
	if c == nil {
		return nil
	}
	headers := make([]string, len(c.categories))
	for i, cat := range c.categories {
		headers[i] = cat.Entries[0].Code
	}
	return headers
}

// Slugs returns the category slugs in catalog order.
func (c *Catalog) Slugs() []string {
	if c == nil {
		return nil
	}
	slugs := make([]string, len(c.categories))
	for i, cat := range c.categories {
		slugs[i] = cat.Slug
	}
	return slugs
}

// EntriesOf returns a copy of the entries of category i.
func (c *Catalog) EntriesOf(i int) ([]Entry, error) {
	if i < 0 || i >= c.Len() {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, c.Len())
	}
	return slices.Clone(c.categories[i].Entries), nil
}

// Search fuzzy-matches query against entry names across all categories and
// returns at most limit entries, best match first. A limit <= 0 means no limit.
func (c *Catalog) Search(query string, limit int) []Entry {
	if c == nil || query == "" {
		return nil
	}

	var all []Entry
	for _, cat := range c.categories {
		all = append(all, cat.Entries...)
	}

	targets := make([]string, len(all))
	for i, e := range all {
		targets[i] = e.label()
	}

	matches := fuzzy.Find(query, targets)

	n := len(matches)
	if limit > 0 && n > limit {
		n = limit
	}
	result := make([]Entry, n)
	for i := 0; i < n; i++ {
		result[i] = all[matches[i].Index]
	}
	return result
}

// truncate keeps the first max entries with a non-empty code.
func truncate(entries []Entry, max int) []Entry {
	out := make([]Entry, 0, min(len(entries), max))
	for _, e := range entries {
		if len(out) == max {
			break
		}
		if e.Code == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}
