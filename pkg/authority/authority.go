// Package authority provides the lookup authority: the local, read-only
// set of taxonomic identifiers a seqinfo row is checked against before its
// identifier is trusted.
package authority

import (
	"context"
	"sync"
)

// Authority answers exact-match existence queries for taxonomic identifiers.
type Authority interface {
	// Count returns how many authority rows carry exactly id.
	Count(ctx context.Context, id string) (int, error)
}

// Func allows functions to implement Authority.
type Func func(ctx context.Context, id string) (int, error)

// Count implements Authority.
func (f Func) Count(ctx context.Context, id string) (int, error) {
	return f(ctx, id)
}

// Set is an in-memory Authority. It is safe for concurrent use.
type Set struct {
	mu  sync.RWMutex
	ids map[string]int
}

// NewSet returns a Set containing ids.
func NewSet(ids ...string) *Set {
	s := &Set{ids: make(map[string]int, len(ids))}
	for _, id := range ids {
		s.ids[id]++
	}
	return s
}

// Count implements Authority.
func (s *Set) Count(_ context.Context, id string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ids[id], nil
}

// Add inserts ids into the set.
func (s *Set) Add(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.ids[id]++
	}
}

// Len returns the number of distinct identifiers.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Counting wraps an Authority and records how many queries pass through it.
type Counting struct {
	Authority Authority

	mu      sync.Mutex
	queries []string
}

// Count implements Authority.
func (c *Counting) Count(ctx context.Context, id string) (int, error) {
	c.mu.Lock()
	c.queries = append(c.queries, id)
	c.mu.Unlock()
	return c.Authority.Count(ctx, id)
}

// Queries returns the identifiers queried so far, in order.
func (c *Counting) Queries() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.queries...)
}
