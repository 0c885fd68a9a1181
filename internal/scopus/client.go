// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scopus is a concurrency-safe client for the Scopus search API.
// It walks paginated results for a boolean query under a global request
// ceiling, rotating a pool of API keys, retrying transient failures, and
// memoizing assembled results per normalized query fingerprint for the
// lifetime of one client.
package scopus

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/slrkit/searcheval/pkg/types"
)

// Client issues paginated queries against the search service. Construct
// one per disjoint key set; all state (throttle window, key rotation,
// dedup cache) is per-instance, never process-global.
type Client struct {
	// Log receives request, retry, and key-swap events. Defaults to
	// slog.Default.
	Log *slog.Logger

	// Metrics collects request counters on a private registry.
	Metrics *Metrics

	http  *http.Client
	pool  *KeyPool
	retry RetryPolicy
	cache *queryCache
	cfg   types.ScopusConfig
}

// NewClient builds a client over the given API keys, applying defaults for
// any unset config fields.
func NewClient(cfg types.ScopusConfig, keys []string) *Client {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 25
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 7
	}
	if cfg.MaxResults <= 0 || cfg.MaxResults > serviceDepthCap {
		cfg.MaxResults = serviceDepthCap
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "searcheval/0.1"
	}

	retry := DefaultRetryPolicy()
	if cfg.MaxAttempts > 0 {
		retry.MaxAttempts = cfg.MaxAttempts
	}
	if cfg.RetryBaseDelay > 0 {
		retry.BaseDelay = cfg.RetryBaseDelay
	}
	if cfg.RetryJitter > 0 {
		retry.Jitter = cfg.RetryJitter
	}

	return &Client{
		Log:     slog.Default(),
		Metrics: NewMetrics(),
		http:    &http.Client{Timeout: cfg.Timeout},
		pool:    NewKeyPool(keys, cfg.RequestsPerSecond),
		retry:   retry,
		cache:   newQueryCache(cfg.CacheSize),
		cfg:     cfg,
	}
}

// Pool exposes the key pool, mainly so callers can report remaining keys.
func (c *Client) Pool() *KeyPool { return c.pool }

// Pages is a forward-only iterator over the pages of one logical query,
// in the style of bufio.Scanner. It is not rewindable; issue a new Search
// call to start over. Not safe for concurrent use, but any number of Pages
// for the same or different queries may be driven concurrently.
type Pages struct {
	c     *Client
	ctx   context.Context
	query string

	offset int
	total  int
	page   *Page
	done   bool
	err    error
}

// Search begins a paginated fetch for query. Pagination state advances
// only inside Next; no request is issued until the first Next call.
func (c *Client) Search(ctx context.Context, query string) *Pages {
	return &Pages{c: c, ctx: ctx, query: query, total: -1}
}

// Next fetches the next page, reporting false at end of results or on the
// first error. On a credential quota failure the same page is repeated
// with the next key before Next gives up.
func (p *Pages) Next() bool {
	if p.done || p.err != nil {
		return false
	}
	if err := p.ctx.Err(); err != nil {
		p.err = err
		return false
	}

	for {
		cred, err := p.c.pool.Acquire(p.ctx)
		if err != nil {
			p.err = err
			return false
		}

		page, err := p.c.fetchWithRetry(p.ctx, cred.Token, p.query, p.offset)
		if err == nil {
			p.advance(page)
			return true
		}

		var ke *keyExhaustedError
		if errors.As(err, &ke) {
			p.c.pool.MarkExhausted(cred)
			p.c.Metrics.incKeySwaps()
			p.c.Log.Warn("API key exhausted, swapping",
				slog.Int("status", ke.status),
				slog.Int("keys_left", p.c.pool.Remaining()),
			)
			continue
		}

		p.err = err
		return false
	}
}

// Page returns the page read by the last successful Next call.
func (p *Pages) Page() *Page { return p.page }

// Err returns the error that stopped iteration, if any. A nil Err after
// Next returns false means the query's results are complete.
func (p *Pages) Err() error { return p.err }

// advance records a fetched page and decides whether another one follows.
func (p *Pages) advance(page *Page) {
	p.page = page
	if p.total < 0 {
		p.total = page.TotalResults
		p.c.Log.Debug("search started",
			slog.String("fingerprint", Fingerprint(p.query)),
			slog.Int("total_results", p.total),
		)
	}

	p.offset += p.c.cfg.PageSize

	limit := p.total
	if limit > p.c.cfg.MaxResults {
		limit = p.c.cfg.MaxResults
	}
	if len(page.Entries) == 0 || p.offset >= limit {
		p.done = true
	}
}

// fetchWithRetry wraps a single page request in the retry policy and
// records request metrics per attempt. Every attempt consumes a throttle
// slot: the first was paid for by the pool Acquire, each retry waits on
// the ceiling again before re-dispatching.
func (c *Client) fetchWithRetry(ctx context.Context, key, query string, offset int) (*Page, error) {
	var page *Page
	attempt := 0
	err := c.retry.Do(ctx, func() error {
		attempt++
		if attempt > 1 {
			c.Metrics.incRetries()
			if err := c.pool.Throttle(ctx); err != nil {
				return err
			}
		}

		start := time.Now()
		var ferr error
		page, ferr = c.fetchPage(ctx, key, query, offset)
		c.Metrics.observeDuration(time.Since(start))
		c.Metrics.incRequest(outcomeLabel(ferr))

		if ferr != nil && isTransient(ferr) {
			c.Log.Debug("transient page failure",
				slog.Int("offset", offset),
				slog.Int("attempt", attempt),
				slog.Any("error", ferr),
			)
		}
		return ferr
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case isTransient(err):
		return "transient"
	default:
		var iq *InvalidQueryError
		var ke *keyExhaustedError
		switch {
		case errors.As(err, &iq):
			return "invalid_query"
		case errors.As(err, &ke):
			return "key_exhausted"
		default:
			return "error"
		}
	}
}

// SearchAll walks every page for query and assembles a single result.
// The dedup cache is consulted first: a hit short-circuits the network
// entirely. A failed fetch returns no partial result and never populates
// the cache.
func (c *Client) SearchAll(ctx context.Context, query string) (*types.SearchResult, error) {
	fp := Fingerprint(query)
	if cached, ok := c.cache.get(fp); ok {
		c.Metrics.incCache("hit")
		c.Log.Debug("dedup cache hit", slog.String("fingerprint", fp))
		return cached, nil
	}
	c.Metrics.incCache("miss")

	result := &types.SearchResult{Query: query}
	pages := c.Search(ctx, query)
	for pages.Next() {
		page := pages.Page()
		result.TotalResults = page.TotalResults
		result.Entries = append(result.Entries, page.Entries...)
	}
	if err := pages.Err(); err != nil {
		return nil, err
	}

	result.Timestamp = time.Now()
	c.cache.put(fp, result)
	c.Log.Info("search complete",
		slog.String("fingerprint", fp),
		slog.Int("collected", len(result.Entries)),
		slog.Int("total_results", result.TotalResults),
	)
	return result, nil
}
