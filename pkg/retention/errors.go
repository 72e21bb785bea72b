package retention

import "fmt"

// ConfigError is returned when a Policy or Options value is invalid,
// such as a negative count or a first weekday outside [0, 6].
type ConfigError struct {
	Field  string      // Name of the offending option, e.g. "weeks".
	Value  interface{} // The rejected value.
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s option %v: %s", e.Field, e.Value, e.Reason)
}

// ValidationError is returned when an input element can't be
// used as a point in time.
type ValidationError struct {
	Index int         // Position of the element in the input.
	Value interface{} // The element itself.
	Err   error       // Why it was rejected.
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid time at index %d (%v): %v", e.Index, e.Value, e.Err)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error { return e.Err }

// Cause returns the underlying error, for github.com/pkg/errors.Cause.
func (e *ValidationError) Cause() error { return e.Err }

// errNegativeCount is the reason attached to negative count ConfigErrors.
const errNegativeCount = "must be a non-negative integer"
