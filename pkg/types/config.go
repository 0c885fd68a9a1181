// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout. A request that exceeds it is
	// treated as a transient failure and handed to the retry policy.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "searcheval/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ScopusConfig holds settings for the paginated Scopus client.
type ScopusConfig struct {
	HTTPConfig `yaml:",inline"`

	// RequestsPerSecond is the global outbound ceiling across all API keys
	// combined (default 7). The service throttles each key at a higher rate
	// (9/s at the time of writing); keeping the per-instance ceiling below
	// that leaves headroom when several instances share a partitioned key
	// set. Re-derive the margin before pointing this client elsewhere.
	RequestsPerSecond int `json:"requests_per_second" yaml:"requests_per_second"`

	// PageSize is the number of entries requested per page (default 25,
	// the service maximum for standard subscriptions).
	PageSize int `json:"page_size" yaml:"page_size"`

	// MaxResults caps how deep pagination goes (default 5000, the service's
	// hard depth limit for standard API keys).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// MaxAttempts, RetryBaseDelay and RetryJitter parameterize the retry
	// policy for transient failures on a single page request.
	MaxAttempts    int           `json:"max_attempts" yaml:"max_attempts"`
	RetryBaseDelay time.Duration `json:"retry_base_delay" yaml:"retry_base_delay"`
	RetryJitter    float64       `json:"retry_jitter" yaml:"retry_jitter"`

	// CacheSize bounds the run-scoped dedup cache (default 4096 distinct
	// query fingerprints).
	CacheSize int `json:"cache_size" yaml:"cache_size"`
}

// EvaluationConfig holds settings for the fuzzy evaluation engine.
type EvaluationConfig struct {
	// Threshold is the acceptance similarity in [0,1]; a study is found iff
	// its best candidate score reaches it (default 0.8).
	Threshold float64 `json:"threshold" yaml:"threshold"`

	// Workers sizes the matching worker pool (default: GOMAXPROCS).
	Workers int `json:"workers" yaml:"workers"`
}

// ReportConfig holds settings for the evaluation report store.
type ReportConfig struct {
	// Dir is the base directory for the report database and exports.
	Dir string `json:"dir" yaml:"dir"`
}

// Config groups all component configurations for the CLI.
type Config struct {
	Scopus     ScopusConfig     `json:"scopus" yaml:"scopus"`
	Evaluation EvaluationConfig `json:"evaluation" yaml:"evaluation"`
	Report     ReportConfig     `json:"report" yaml:"report"`
}
