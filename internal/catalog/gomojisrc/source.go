// Package gomojisrc is an offline catalog.Source built from the emoji table
// bundled with github.com/forPelevin/gomoji.
package gomojisrc

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/forPelevin/gomoji"

	"github.com/m96-chan/inkpick/internal/catalog"
)

// groupOrder is the Unicode CLDR group order. Groups not listed sort after
// these, alphabetically.
var groupOrder = []string{
	"Smileys & Emotion",
	"People & Body",
	"Component",
	"Animals & Nature",
	"Food & Drink",
	"Travel & Places",
	"Activities",
	"Objects",
	"Symbols",
	"Flags",
}

// Source serves the gomoji table grouped by Unicode group.
type Source struct {
	once   sync.Once
	slugs  []string
	groups map[string][]catalog.SourceEntry
}

// New returns an offline source.
func New() *Source {
	return &Source{}
}

// ListCategories implements catalog.Source.
func (s *Source) ListCategories(ctx context.Context) ([]catalog.CategoryRef, error) {
	s.once.Do(s.build)
	refs := make([]catalog.CategoryRef, len(s.slugs))
	for i, slug := range s.slugs {
		refs[i] = catalog.CategoryRef{Slug: slug}
	}
	return refs, nil
}

// ListEntries implements catalog.Source. Unknown slugs yield no entries.
func (s *Source) ListEntries(ctx context.Context, slug string) ([]catalog.SourceEntry, error) {
	s.once.Do(s.build)
	return slices.Clone(s.groups[slug]), nil
}

type groupedEmoji struct {
	entry  catalog.SourceEntry
	points []uint64
}

func (s *Source) build() {
	byGroup := make(map[string][]groupedEmoji)
	for _, e := range gomoji.AllEmojis() {
		if e.Character == "" || e.Group == "" {
			continue
		}
		slug := Slugify(e.Group)
		byGroup[slug] = append(byGroup[slug], groupedEmoji{
			entry:  catalog.SourceEntry{Character: e.Character, Name: e.Slug},
			points: parseCodePoints(e.CodePoint),
		})
	}

	rank := make(map[string]int, len(groupOrder))
	for i, g := range groupOrder {
		rank[Slugify(g)] = i
	}

	s.slugs = make([]string, 0, len(byGroup))
	for slug := range byGroup {
		s.slugs = append(s.slugs, slug)
	}
	slices.SortFunc(s.slugs, func(a, b string) int {
		ra, okA := rank[a]
		rb, okB := rank[b]
		switch {
		case okA && okB:
			return cmp.Compare(ra, rb)
		case okA:
			return -1
		case okB:
			return 1
		}
		return strings.Compare(a, b)
	})

	s.groups = make(map[string][]catalog.SourceEntry, len(byGroup))
	for slug, emojis := range byGroup {
		slices.SortFunc(emojis, func(a, b groupedEmoji) int {
			if c := slices.Compare(a.points, b.points); c != 0 {
				return c
			}
			return strings.Compare(a.entry.Character, b.entry.Character)
		})
		entries := make([]catalog.SourceEntry, len(emojis))
		for i, e := range emojis {
			entries[i] = e.entry
		}
		s.groups[slug] = entries
	}
}

// Slugify turns a group name such as "Smileys & Emotion" into the slug
// emoji-api.com uses for it ("smileys-emotion").
func Slugify(group string) string {
	fields := strings.FieldsFunc(strings.ToLower(group), func(r rune) bool {
		return r == ' ' || r == '&' || r == '-' || r == '_'
	})
	return strings.Join(fields, "-")
}

// parseCodePoints parses "1F468 200D 1F469" into its numeric code points.
// Unparseable fields are skipped.
func parseCodePoints(s string) []uint64 {
	fields := strings.Fields(s)
	points := make([]uint64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseUint(f, 16, 32)
		if err != nil {
			continue
		}
		points = append(points, v)
	}
	return points
}
