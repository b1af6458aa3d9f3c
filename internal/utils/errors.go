package utils

import "fmt"

// ValidationError represents a caller contract violation detected before an
// evaluation starts (missing mandatory field, out-of-domain value).
type ValidationError struct {
	Message string
}

// Error returns the error message string.
func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new ValidationError with a specific message.
func NewValidationError(message string) error {
	return &ValidationError{
		Message: message,
	}
}

// NewValidationErrorf creates a new ValidationError with a formatted message.
func NewValidationErrorf(format string, args ...interface{}) error {
	return &ValidationError{
		Message: fmt.Sprintf(format, args...),
	}
}

// ConfigError represents a structurally invalid configuration. It is fatal
// and surfaces at load time, never per evaluation.
type ConfigError struct {
	Field   string
	Message string
}

// Error returns the error message string.
func (e *ConfigError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("config %s: %s", e.Field, e.Message)
}

// NewConfigError creates a new ConfigError for a named configuration field.
func NewConfigError(field, message string) error {
	return &ConfigError{Field: field, Message: message}
}

// NewConfigErrorf creates a new ConfigError with a formatted message.
func NewConfigErrorf(field, format string, args ...interface{}) error {
	return &ConfigError{Field: field, Message: fmt.Sprintf(format, args...)}
}
