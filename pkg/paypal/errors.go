package paypal

import "fmt"

// AuthError means the client-credentials exchange was rejected or never
// completed. Every processor operation needs a token first, so this fails the
// whole request.
type AuthError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("paypal auth: token endpoint returned %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("paypal auth: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// APIError is any non-2xx from the processor. Body keeps the raw error
// payload for diagnostics.
type APIError struct {
	Op         string
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("paypal %s: %d %s", e.Op, e.StatusCode, e.Body)
}
