package config

import "fmt"

// ConfigurationError is a fatal setup error: a value the manager cannot run with.
// It is never retried.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config: %s=%v: %s", e.Field, e.Value, e.Reason)
}
