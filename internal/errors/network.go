package errors

import (
	"errors"
	"fmt"
)

// NetworkError represents a transport-level failure (timeout, DNS, reset).
// It is transient and surfaced to callers as "fewer results", never retried.
type NetworkError struct {
	Site string
	Err  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Site, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError wraps a transport error for the given site.
func NewNetworkError(site string, err error) *NetworkError {
	return &NetworkError{Site: site, Err: err}
}

// IsNetworkError reports whether err is a NetworkError (even when wrapped).
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
