// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scopus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"

	"github.com/slrkit/searcheval/pkg/types"
)

// scopusAPIBase is the Scopus search endpoint. Declared as a var so tests
// can substitute an httptest server.
var scopusAPIBase = "https://api.elsevier.com/content/search/scopus"

// serviceDepthCap is the deepest entry the service will page to with a
// standard subscription, regardless of the reported total.
const serviceDepthCap = 5000

// Page is one page of a paginated search.
type Page struct {
	// TotalResults is the server-reported total for the whole query.
	TotalResults int

	// StartIndex is the zero-based offset of the first entry on this page.
	StartIndex int

	// Entries holds the parsed records, in service order. Records without
	// a title are dropped during parsing.
	Entries []types.Entry
}

// fetchPage issues a single page request with the given key and classifies
// the outcome: success, *InvalidQueryError, *keyExhaustedError, or a
// *transientError for the retry policy.
func (c *Client) fetchPage(ctx context.Context, key, query string, offset int) (*Page, error) {
	params := url.Values{
		"query":  {query},
		"apiKey": {key},
		"start":  {strconv.Itoa(offset)},
		"count":  {strconv.Itoa(c.cfg.PageSize)},
	}
	reqURL := scopusAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		// Interrupted by the caller is not a service failure.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, &transientError{cause: fmt.Errorf("request timed out: %w", err)}
		}
		return nil, &transientError{cause: err}
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp, query); err != nil {
		io.Copy(io.Discard, resp.Body)
		return nil, err
	}

	page, err := parsePage(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	return page, nil
}

// classifyStatus maps a non-success response to the error taxonomy. The
// service distinguishes the cases via status code plus rate-limit headers:
// a 429 with remaining quota is plain throttling, a 429 with zero remaining
// (or an explicit quota header) means the key itself is spent.
func classifyStatus(resp *http.Response, query string) error {
	if quotaExceeded(resp) {
		return &keyExhaustedError{status: resp.StatusCode}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusRequestEntityTooLarge:
		return &InvalidQueryError{
			Query:  query,
			Status: resp.StatusCode,
			Detail: httpDetail(resp),
		}
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden:
		return &keyExhaustedError{status: resp.StatusCode}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &transientError{cause: fmt.Errorf("service rate limited (HTTP 429)")}
	case resp.StatusCode >= 500:
		return &transientError{cause: fmt.Errorf("service error (HTTP %d)", resp.StatusCode)}
	default:
		return fmt.Errorf("unexpected HTTP %d", resp.StatusCode)
	}
}

// quotaExceeded checks the rate-limit headers the service attaches to every
// response. X-RateLimit-Remaining reaching zero or an explicit quota status
// means the key is spent for the current weekly window.
func quotaExceeded(resp *http.Response) bool {
	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
		if n, err := strconv.Atoi(remaining); err == nil && n <= 0 {
			return true
		}
	}
	return resp.Header.Get("X-ELS-Status") == "QUOTA_EXCEEDED - Quota Exceeded"
}

// httpDetail extracts a short error description from a service error body.
func httpDetail(resp *http.Response) string {
	var body struct {
		ServiceError struct {
			Status struct {
				StatusText string `json:"statusText"`
			} `json:"status"`
		} `json:"service-error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body); err != nil {
		return ""
	}
	return body.ServiceError.Status.StatusText
}

// Scopus search JSON structures. Numeric fields arrive as strings.
type searchResponse struct {
	SearchResults struct {
		TotalResults string        `json:"opensearch:totalResults"`
		StartIndex   string        `json:"opensearch:startIndex"`
		Entry        []scopusEntry `json:"entry"`
	} `json:"search-results"`
}

type scopusEntry struct {
	Identifier string `json:"dc:identifier"`
	Title      string `json:"dc:title"`
}

// parsePage decodes a successful search response body into a Page.
func parsePage(r io.Reader) (*Page, error) {
	var sr searchResponse
	if err := json.NewDecoder(r).Decode(&sr); err != nil {
		return nil, err
	}

	total, err := strconv.Atoi(sr.SearchResults.TotalResults)
	if err != nil {
		return nil, fmt.Errorf("invalid total-result count %q", sr.SearchResults.TotalResults)
	}
	start := 0
	if s := sr.SearchResults.StartIndex; s != "" {
		if start, err = strconv.Atoi(s); err != nil {
			return nil, fmt.Errorf("invalid start index %q", s)
		}
	}

	page := &Page{TotalResults: total, StartIndex: start}
	for _, e := range sr.SearchResults.Entry {
		if e.Title == "" {
			continue
		}
		page.Entries = append(page.Entries, types.Entry{
			Identifier: e.Identifier,
			Title:      e.Title,
		})
	}
	return page, nil
}
