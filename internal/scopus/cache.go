// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scopus

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/slrkit/searcheval/pkg/types"
)

// defaultCacheSize bounds the dedup cache when the config leaves it unset.
// The upstream string-formulation process regenerates near-duplicate
// strings frequently for small input sets, so distinct fingerprints per
// run stay well below this.
const defaultCacheSize = 4096

// queryCache memoizes assembled search results for the lifetime of one
// client, keyed by normalized query fingerprint. Eviction only ever causes
// a re-fetch. Nothing is persisted.
type queryCache struct {
	lru *lru.Cache[string, *types.SearchResult]
}

func newQueryCache(size int) *queryCache {
	if size <= 0 {
		size = defaultCacheSize
	}
	// lru.New only fails for a non-positive size.
	c, _ := lru.New[string, *types.SearchResult](size)
	return &queryCache{lru: c}
}

func (c *queryCache) get(fingerprint string) (*types.SearchResult, bool) {
	return c.lru.Get(fingerprint)
}

func (c *queryCache) put(fingerprint string, result *types.SearchResult) {
	c.lru.Add(fingerprint, result)
}

// quoteNormalizer maps every quote style the upstream formulation logic
// emits onto plain double quotes.
var quoteNormalizer = strings.NewReplacer(
	"'", `"`,
	"‘", `"`, // left single
	"’", `"`, // right single
	"“", `"`, // left double
	"”", `"`, // right double
)

// Fingerprint normalizes a boolean search string so that variants differing
// only in case, whitespace, or quote style map to the same cache key.
func Fingerprint(query string) string {
	s := strings.ToLower(query)
	s = quoteNormalizer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
