package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
// ErrInvalidValue indicates a setting with an out-of-range value.
var ErrInvalidValue = errors.New("invalid config value")

// ParseError describes a malformed settings file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }
