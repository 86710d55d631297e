package models

import (
	"errors"
	"fmt"
)

// ErrNotConfigured signals a provider missing its credential. It is a
// capability signal, not a failure: aggregators treat it as zero-result.
var ErrNotConfigured = errors.New("provider not configured")

// UpstreamError is a provider transport or payload failure. Status is the
// upstream HTTP status when one was received, 0 otherwise.
type UpstreamError struct {
	Provider string
	Status   int
	Reason   string
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (http %d)", e.Provider, e.Reason, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Reason)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// TooManySymbolsError is raised when a quote batch exceeds the ceiling.
// User-correctable; surfaced verbatim at the HTTP boundary.
type TooManySymbolsError struct {
	Max int
	Got int
}

func (e *TooManySymbolsError) Error() string {
	return fmt.Sprintf("too many symbols: got %d, maximum is %d", e.Got, e.Max)
}
