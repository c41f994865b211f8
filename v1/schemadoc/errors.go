package schemadoc

import (
	"errors"
	"fmt"
)

var (
	// ErrNoLocalSchema is returned when a store holds no versioned schema document.
	ErrNoLocalSchema = errors.New("no local schema document")

	// ErrParse is returned when a schema document is not valid for its format.
	ErrParse = errors.New("schema document parse error")

	// ErrDuplicateVersion is returned when two documents carry the same version token.
	ErrDuplicateVersion = errors.New("duplicate schema document version")
)

// ParseError names the document that failed to parse.
type ParseError struct {
	Name string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse schema document %s: %v", e.Name, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

// IsNoLocalSchemaError reports whether err means the store is empty.
func IsNoLocalSchemaError(err error) bool {
	return errors.Is(err, ErrNoLocalSchema)
}

// IsParseError reports whether err is a document parse failure.
func IsParseError(err error) bool {
	return errors.Is(err, ErrParse)
}
