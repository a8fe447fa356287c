package search

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/pstuifzand/tuo-notes/internal/model"
)

// DefaultCacheTTL bounds how long a parsed query is reused. Relative date
// filters are resolved at parse time, so they drift by at most this much.
const DefaultCacheTTL = time.Minute

// QueryCache keeps parsed queries so repeated searches skip the parser.
// It is safe for concurrent use.
type QueryCache struct {
	c   *cache.Cache
	now func() time.Time
}

// NewQueryCache creates a cache whose entries expire after ttl
func NewQueryCache(ttl time.Duration) *QueryCache {
	return &QueryCache{
		c:   cache.New(ttl, 2*ttl),
		now: time.Now,
	}
}

// Parse returns the parsed query, from the cache when possible. Invalid
// queries are not cached.
func (q *QueryCache) Parse(query string) (FilterExpr, error) {
	if x, found := q.c.Get(query); found {
		return x.(FilterExpr), nil
	}
	expr, err := ParseQueryAt(query, q.now())
	if err != nil {
		return nil, err
	}
	q.c.Set(query, expr, cache.DefaultExpiration)
	return expr, nil
}

// Query filters the tree with a cached parse of query
func (q *QueryCache) Query(tree model.Tree, query string) ([]Result, error) {
	expr, err := q.Parse(query)
	if err != nil {
		return nil, err
	}
	return Filter(tree, expr), nil
}

// Len returns the number of cached queries
func (q *QueryCache) Len() int {
	return q.c.ItemCount()
}
