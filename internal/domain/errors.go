package domain

import "fmt"

// The four error kinds the client surfaces. None of them are retried or
// suppressed here; callers decide how to message the user.

// ConfigError means credentials are absent or malformed.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "configuration: " + e.Reason
}

// ValidationError means the caller supplied an argument the upstream would
// reject: a malformed expiry, a wrong-length seed, an unknown trading pair,
// a relative request path.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// UpstreamError is a non-2xx HTTP response. The raw body is kept for
// diagnostics, never discarded.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Body)
}

// DataError means the response decoded fine but an expected row or field
// was missing, for example an empty quote result or contract list.
type DataError struct {
	Reason string
}

func (e *DataError) Error() string {
	return "data: " + e.Reason
}
