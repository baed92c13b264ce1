package services

import "fmt"

// ConfigurationError means a required credential or setting is absent. It is
// checked before any external call and never retried.
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing configuration: %s", e.Missing)
}

// ValidationError means required request input is missing or malformed. No
// external call is made after one is raised.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// GenerationParseError means the oracle's output could not be parsed as the
// expected JSON title array. RawText carries the unmodified oracle response
// for diagnostics.
type GenerationParseError struct {
	RawText string
	Cause   error
}

func (e *GenerationParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("could not parse oracle response: %v", e.Cause)
	}
	return "could not parse oracle response"
}

func (e *GenerationParseError) Unwrap() error { return e.Cause }

// UpstreamError wraps a failed TMDB or oracle call.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// NoResultsError means every candidate failed resolution.
type NoResultsError struct {
	Query string
}

func (e *NoResultsError) Error() string {
	return fmt.Sprintf("no valid movies found for %q", e.Query)
}

// PersistenceError wraps a failed store write. Logged and absorbed for
// preference/cache upserts, surfaced for explicit list operations.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
