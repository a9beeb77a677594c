package release

import (
	"errors"
	"fmt"
)

// LocatorError is returned when the previous release cannot be determined:
// the repository could not be queried for tags, or the nearest release tag
// carries a malformed version. A missing tag is not an error.
type LocatorError struct {
	Tag string
	Err error
}

func (e *LocatorError) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("locating previous release (tag %q): %v", e.Tag, e.Err)
	}
	return fmt.Sprintf("locating previous release: %v", e.Err)
}

func (e *LocatorError) Unwrap() error { return e.Err }

// AccessError wraps a failed repository query.
type AccessError struct {
	Op  string
	Err error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// ConfigError reports contradictory or missing configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// IsLocatorError returns true if the error chain contains a LocatorError.
func IsLocatorError(err error) bool {
	var le *LocatorError
	return errors.As(err, &le)
}

// IsAccessError returns true if the error chain contains an AccessError.
func IsAccessError(err error) bool {
	var ae *AccessError
	return errors.As(err, &ae)
}

// IsConfigError returns true if the error chain contains a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
