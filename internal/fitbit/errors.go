package fitbit

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingRefreshToken is returned when a refresh is requested for
	// a user whose record carries no refresh token.
	ErrMissingRefreshToken = errors.New("no refresh token available")

	// ErrNoToken is returned when a user has no access token on record.
	ErrNoToken = errors.New("no access token found")

	// ErrUnknownUser is returned for identifiers outside the configured set.
	ErrUnknownUser = errors.New("unknown user")
)

// ExchangeError is a provider rejection of an authorization code
// exchange, carrying the provider's error body.
type ExchangeError struct {
	StatusCode int
	Body       string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("authorization code exchange rejected (status %d): %s", e.StatusCode, e.Body)
}

// RefreshError is a provider rejection of a refresh grant. Non-fatal:
// the orchestrator proceeds with whatever token is on record.
type RefreshError struct {
	StatusCode int
	Body       string
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("token refresh rejected (status %d): %s", e.StatusCode, e.Body)
}

// FetchError is a failed HRV read, either a transport error or a
// non-2xx response. The previous cached series stays in place.
type FetchError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("hrv fetch failed: %s", e.Err)
	}
	return fmt.Sprintf("hrv fetch failed (status %d): %s", e.StatusCode, e.Body)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
