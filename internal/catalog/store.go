package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrSuperseded is returned by Store.Load when a newer load started before
// this one finished. Its result is discarded.
var ErrSuperseded = errors.New("catalog load superseded")

// Store holds the catalog in use. The zero value is ready to use and holds
// no catalog.
type Store struct {
	current atomic.Pointer[Catalog]

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// Current returns the catalog in use, or nil if no load has succeeded yet.
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// Load builds a fresh catalog from src and installs it on success. Starting
// a Load cancels any load still in flight. A failed load leaves the previous
// catalog in place.
func (s *Store) Load(ctx context.Context, src Source, opts LoadOptions) (*Catalog, error) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.gen++
	gen := s.gen
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	cat, err := Load(ctx, src, opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return nil, ErrSuperseded
	}
	s.cancel = nil
	if err != nil {
		return nil, err
	}
	s.current.Store(cat)
	return cat, nil
}
