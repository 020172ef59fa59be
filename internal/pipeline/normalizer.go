package pipeline

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/roach88/reldir/internal/schema"
)

const defaultCacheEntries = 256

// Normalizer normalizes many statements against one registry. Results are
// kept in an LRU cache keyed by query text, and concurrent calls for the
// same text share one computation. It is safe for concurrent use.
type Normalizer struct {
	reg   *schema.Registry
	opts  Options
	cache *lru.Cache[string, Result] // thread-safe
	group singleflight.Group
}

// NewNormalizer creates a Normalizer. A cacheEntries of zero selects the
// default size.
func NewNormalizer(reg *schema.Registry, opts Options, cacheEntries int) (*Normalizer, error) {
	if reg == nil {
		return nil, &ConfigError{Message: "no schema registry"}
	}
	if cacheEntries == 0 {
		cacheEntries = defaultCacheEntries
	}
	cache, err := lru.New[string, Result](cacheEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	return &Normalizer{reg: reg, opts: opts, cache: cache}, nil
}

// SchemaHash returns the hash of the registry this normalizer resolves
// against.
func (n *Normalizer) SchemaHash() string {
	return n.reg.Hash()
}

// Normalize is Normalize with the normalizer's registry and options.
// Errors are never cached.
func (n *Normalizer) Normalize(ctx context.Context, query string) (Result, error) {
	if res, ok := n.cache.Get(query); ok {
		return res, nil
	}

	v, err, _ := n.group.Do(query, func() (any, error) {
		if res, ok := n.cache.Get(query); ok {
			return res, nil
		}
		res, err := Normalize(ctx, query, n.reg, n.opts)
		if err != nil {
			return nil, err
		}
		n.cache.Add(query, res)
		return res, nil
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

// NormalizeAll normalizes queries concurrently with at most limit in
// flight (limit <= 0 means no limit). Results are in input order. The
// first error cancels the remaining work and is returned.
func (n *Normalizer) NormalizeAll(ctx context.Context, queries []string, limit int) ([]Result, error) {
	results := make([]Result, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			res, err := n.Normalize(gctx, q)
			if err != nil {
				return fmt.Errorf("query %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Len returns the number of cached results.
func (n *Normalizer) Len() int {
	return n.cache.Len()
}
