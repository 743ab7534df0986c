package errors

import (
	"errors"
	"fmt"
)

// ParseError indicates a malformed field or body in an API response.
// A bad optional field is dropped from the record; a bad body drops the record.
type ParseError struct {
	Site  string
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: cannot parse %s: %v", e.Site, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: cannot parse response: %v", e.Site, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a ParseError for the given site and field.
// field may be empty when the whole response body failed to decode.
func NewParseError(site, field string, err error) *ParseError {
	return &ParseError{Site: site, Field: field, Err: err}
}

// IsParseError reports whether err is a ParseError (even when wrapped).
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}
