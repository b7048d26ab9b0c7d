// internal/session/errors.go
package session

import "fmt"

// APIError carries a non-2xx response back to the caller untranslated.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}

// IsUnauthorized reports whether the response indicates an auth failure.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// IsNotFound reports whether the response indicates a missing resource.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}
