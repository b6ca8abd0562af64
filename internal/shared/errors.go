package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Catalog and external tool errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrResourceNotFound   = fmt.Errorf("resource not found")
	ErrTrackNotFound      = fmt.Errorf("track not found")
	ErrToolMissing        = fmt.Errorf("external tool not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

// PrivateHint is appended to catalog "not found" failures. Spotify returns
// the same 404 for private and nonexistent resources, so the distinction is
// surfaced to the user rather than guessed at.
const PrivateHint = "the resource may be private or region-locked"
