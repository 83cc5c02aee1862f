package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrConfig marks a client that cannot issue requests as configured.
	ErrConfig = errors.New("api client misconfigured")

	// ErrRemote marks any non-success response from a remote API.
	ErrRemote = errors.New("remote call failed")

	// ErrRateLimited marks a 429 response.
	ErrRateLimited = errors.New("rate limited")
)

// ConfigError reports a missing or invalid client setting.
type ConfigError struct {
	Provider string
	Message  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s client: %s", e.Provider, e.Message)
}

// Is implements errors.Is support.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// APIError is returned for every non-2xx response. Body holds the raw response.
type APIError struct {
	Provider   string
	Method     string
	Endpoint   string
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("error in %s API call %s %s: %d %s: %s",
		e.Provider, e.Method, e.Endpoint, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// Is implements errors.Is support.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrRemote:
		return true
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	}
	return false
}
