package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrMissingEnv    = fmt.Errorf("missing environment variable")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Lookup outcome treated as a skip, never fatal
	ErrShowNotFound = fmt.Errorf("show not found")

	// Cache errors
	ErrCacheDisabled = fmt.Errorf("show cache disabled")

	// Input validation errors
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
