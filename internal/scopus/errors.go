// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scopus

import (
	"errors"
	"fmt"
)

// ErrPoolExhausted is returned once every API key has been marked exhausted.
// The caller must supply fresh keys to continue; no amount of waiting helps.
var ErrPoolExhausted = errors.New("scopus: all API keys exhausted")

// InvalidQueryError reports that the service rejected the boolean query
// itself: malformed syntax (HTTP 400) or a search string too long for the
// service to accept (HTTP 413). Reformulating the string is the only fix,
// so it is never retried.
type InvalidQueryError struct {
	Query  string
	Status int
	Detail string
}

func (e *InvalidQueryError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("scopus: query rejected (HTTP %d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("scopus: query rejected (HTTP %d)", e.Status)
}

// TransientFetchError reports that the retry policy ran out of attempts for
// a single page request. Cause is the last underlying failure.
type TransientFetchError struct {
	Attempts int
	Cause    error
}

func (e *TransientFetchError) Error() string {
	return fmt.Sprintf("scopus: giving up after %d attempts: %v", e.Attempts, e.Cause)
}

func (e *TransientFetchError) Unwrap() error { return e.Cause }

// transientError marks a failure the retry policy may absorb: network
// errors, timeouts, 5xx responses, and service-side rate-limit rejections.
type transientError struct {
	cause error
}

func (e *transientError) Error() string { return e.cause.Error() }

func (e *transientError) Unwrap() error { return e.cause }

// keyExhaustedError reports that the service flagged the API key used for a
// request as invalid or over quota. The client swaps keys and repeats the
// same page; the retry policy never sees it.
type keyExhaustedError struct {
	status int
}

func (e *keyExhaustedError) Error() string {
	return fmt.Sprintf("scopus: API key invalid or quota exceeded (HTTP %d)", e.status)
}

// isTransient reports whether the retry policy should absorb err.
func isTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}
