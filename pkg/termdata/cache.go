package termdata

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/coursegraph/coursegraph/pkg/observability"
	"github.com/coursegraph/coursegraph/pkg/requisite"
	"github.com/coursegraph/coursegraph/pkg/term"
)

// inflightCall tracks one in-progress fetch. Waiters block on done and
// then read the result fields, which are written exactly once before the
// channel is closed.
type inflightCall struct {
	done  chan struct{}
	table requisite.Table
	ok    bool
	err   error
}

// Cache memoizes term tables from a Source and deduplicates concurrent
// requests: while a fetch for a term is in flight, every other caller for
// that term waits on it instead of issuing its own request. Successful
// results and confirmed-missing terms stick; failed fetches are not
// recorded, so the next request retries.
//
// Cache implements the resolver's term data dependency and is safe for
// concurrent use.
type Cache struct {
	source Source

	mu       sync.Mutex
	tables   map[string]requisite.Table
	missing  map[string]bool
	inflight map[string]*inflightCall

	metaMu sync.Mutex
	meta   *Metadata
}

// NewCache creates a Cache in front of source.
func NewCache(source Source) *Cache {
	return &Cache{
		source:   source,
		tables:   make(map[string]requisite.Table),
		missing:  make(map[string]bool),
		inflight: make(map[string]*inflightCall),
	}
}

// EnsureTerm returns the requisite table for t, fetching it on first use.
// The second result is false when the source has no data for the term.
// Concurrent calls for the same term share a single fetch.
func (c *Cache) EnsureTerm(ctx context.Context, t term.Term) (requisite.Table, bool, error) {
	key := t.String()

	c.mu.Lock()
	if tbl, ok := c.tables[key]; ok {
		c.mu.Unlock()
		observability.Cache().OnCacheHit(ctx, "term")
		return tbl, true, nil
	}
	if c.missing[key] {
		c.mu.Unlock()
		observability.Cache().OnCacheHit(ctx, "term")
		return nil, false, nil
	}
	if call, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		select {
		case <-call.done:
			return call.table, call.ok, call.err
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}

	call := &inflightCall{done: make(chan struct{})}
	c.inflight[key] = call
	c.mu.Unlock()

	observability.Cache().OnCacheMiss(ctx, "term")
	observability.Resolver().OnTermFetchStart(ctx, key)
	start := time.Now()
	tbl, err := c.source.Expressions(ctx, t)
	observability.Resolver().OnTermFetchComplete(ctx, key, err == nil, time.Since(start), err)

	c.mu.Lock()
	delete(c.inflight, key)
	switch {
	case err == nil:
		c.tables[key] = tbl
		call.table, call.ok = tbl, true
		observability.Cache().OnCacheSet(ctx, "term", len(tbl))
	case errors.Is(err, ErrNoData):
		c.missing[key] = true
	default:
		call.err = err
	}
	c.mu.Unlock()
	close(call.done)

	return call.table, call.ok, call.err
}

// Prefetch warms the cache for the given terms concurrently and returns
// the first fetch error, if any.
func (c *Cache) Prefetch(ctx context.Context, terms []term.Term) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for _, t := range terms {
		wg.Add(1)
		go func(t term.Term) {
			defer wg.Done()
			if _, _, err := c.EnsureTerm(ctx, t); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(t)
	}
	wg.Wait()
	return firstErr
}

// Bounds fetches the source's coverage metadata once and returns it as a
// clampable term range.
func (c *Cache) Bounds(ctx context.Context) (term.Bounds, error) {
	c.metaMu.Lock()
	defer c.metaMu.Unlock()
	if c.meta == nil {
		m, err := c.source.Metadata(ctx)
		if err != nil {
			return term.Bounds{}, err
		}
		c.meta = &m
	}
	return c.meta.Bounds()
}

// Stats reports how many terms are cached and how many are known missing.
func (c *Cache) Stats() (cached, missing int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tables), len(c.missing)
}
