package pipeline

import (
	"errors"
	"fmt"
)

// ConfigUnavailableError marks a failed catalog or variable-config load.
// It is fatal for the request, unlike the incomplete/low-confidence
// business outcomes which travel inside CollectionResult.
type ConfigUnavailableError struct {
	Resource string
	Err      error
}

func (e *ConfigUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("configuration unavailable: %s", e.Resource)
	}
	return fmt.Sprintf("configuration unavailable: %s: %v", e.Resource, e.Err)
}

func (e *ConfigUnavailableError) Unwrap() error {
	return e.Err
}

// NewConfigUnavailable wraps a configuration load failure.
func NewConfigUnavailable(resource string, err error) *ConfigUnavailableError {
	return &ConfigUnavailableError{Resource: resource, Err: err}
}

// IsConfigUnavailable reports whether the error chain contains a
// ConfigUnavailableError.
func IsConfigUnavailable(err error) bool {
	var ce *ConfigUnavailableError
	return errors.As(err, &ce)
}
