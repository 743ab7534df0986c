// Package errors defines the error taxonomy shared by the storefront clients.
package errors

import (
	"errors"
	"fmt"
)

// AuthError indicates the cf_clearance cookie was missing or rejected by the
// storefront (HTTP 403/503). The user recovers by pasting a fresh cookie.
type AuthError struct {
	Site       string
	StatusCode int
}

func (e *AuthError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s rejected the clearance cookie (status %d)", e.Site, e.StatusCode)
	}
	return fmt.Sprintf("%s requires a clearance cookie", e.Site)
}

// NewAuthError creates an AuthError for the given site and HTTP status.
func NewAuthError(site string, status int) *AuthError {
	return &AuthError{Site: site, StatusCode: status}
}

// IsAuthError reports whether err is an AuthError (even when wrapped).
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}
