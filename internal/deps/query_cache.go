package deps

import (
	"fmt"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/srclens/internal/grammar"
)

type queryKey struct {
	lang grammar.Language
	set  string
}

// queryCache holds compiled queries keyed by (language, pattern set). Entries
// live until the cache is dropped; compile failures are not stored.
type queryCache struct {
	mu      sync.Mutex
	queries map[queryKey]*tree_sitter.Query
}

func newQueryCache() *queryCache {
	return &queryCache{queries: make(map[queryKey]*tree_sitter.Query)}
}

// get returns the compiled query for set against h's grammar, compiling it
// on first use.
func (c *queryCache) get(h *grammar.Handle, set PatternSet) (*tree_sitter.Query, error) {
	key := queryKey{lang: h.Language(), set: set.Name}

	c.mu.Lock()
	defer c.mu.Unlock()

	if q, ok := c.queries[key]; ok {
		return q, nil
	}

	q, qErr := tree_sitter.NewQuery(h.Grammar(), set.Source)
	if qErr != nil {
		return nil, fmt.Errorf("compile %s for %s: %s", set.Name, h.Language(), qErr.Error())
	}
	c.queries[key] = q
	return q, nil
}

// len reports the number of compiled queries.
func (c *queryCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queries)
}

// close releases every compiled query.
func (c *queryCache) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, q := range c.queries {
		q.Close()
		delete(c.queries, k)
	}
}
