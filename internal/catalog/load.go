package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.uber.org/ratelimit"
	"golang.org/x/sync/errgroup"
)

// CategoryRef identifies a category returned by a Source.
type CategoryRef struct {
	Slug string
}

// SourceEntry is a raw entry returned by a Source.
type SourceEntry struct {
	Character string
	Name      string
}

// Source lists categories and their entries. Implementations must be safe
// for concurrent ListEntries calls.
type Source interface {
	ListCategories(ctx context.Context) ([]CategoryRef, error)
	ListEntries(ctx context.Context, slug string) ([]SourceEntry, error)
}

// LoadOptions tunes how Load talks to a Source.
type LoadOptions struct {
	// MaxEntries caps entries per category. Zero or values above
	// MaxEntriesPerCategory mean MaxEntriesPerCategory.
	MaxEntries int
	// Parallelism bounds concurrent ListEntries calls. Zero means 1.
	Parallelism int
	// RequestsPerSecond paces ListEntries calls. Zero disables pacing.
	RequestsPerSecond int
}

func (o LoadOptions) withDefaults() LoadOptions {
	if o.MaxEntries <= 0 || o.MaxEntries > MaxEntriesPerCategory {
		o.MaxEntries = MaxEntriesPerCategory
	}
	if o.Parallelism <= 0 {
		o.Parallelism = 1
	}
	return o
}

// Load fetches the category list, then the entries of every category, and
// builds a Catalog. Categories keep the order the source listed them in no
// matter which entry fetch finishes first. Any failure fails the whole load
// with an error wrapping ErrCatalogUnavailable.
func Load(ctx context.Context, src Source, opts LoadOptions) (*Catalog, error) {
	opts = opts.withDefaults()
	start := time.Now()

	refs, err := src.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing categories: %w", ErrCatalogUnavailable, err)
	}

	take := func() {}
	if opts.RequestsPerSecond > 0 {
		rl := ratelimit.New(opts.RequestsPerSecond)
		take = func() { rl.Take() }
	}

	// Each fetch writes only its own slot.
	fetched := make([]Category, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallelism)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			take()
			if err := gctx.Err(); err != nil {
				return err
			}

			raw, err := src.ListEntries(gctx, ref.Slug)
			if err != nil {
				return fmt.Errorf("category %q: %w", ref.Slug, err)
			}

			entries := make([]Entry, len(raw))
			for j, r := range raw {
				entries[j] = Entry{Code: r.Character, Name: r.Name}
			}
			fetched[i] = Category{Slug: ref.Slug, Entries: truncate(entries, opts.MaxEntries)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	cat := New(fetched)
	slog.Debug("catalog loaded",
		"categories", cat.Len(),
		"listed", len(refs),
		"elapsed", time.Since(start))
	return cat, nil
}
