package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput     = fmt.Errorf("invalid input")
	ErrInvalidReference = fmt.Errorf("invalid collection reference")
	ErrMissingArgument  = fmt.Errorf("missing required argument")
	ErrInvalidArgument  = fmt.Errorf("invalid argument")

	// Sink errors
	ErrNoRows = fmt.Errorf("no rows to write")
)

// ConfigError reports a required configuration value that is absent.
//
// Name is the environment variable that supplies the value.
type ConfigError struct {
	Name string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s is not set in your .env or environment", e.Name)
}

func (e *ConfigError) Unwrap() error {
	return ErrMissingConfig
}
