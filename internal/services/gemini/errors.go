package gemini

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEndpoint is returned when the configured base URL or model cannot form a request URL
	ErrInvalidEndpoint = errors.New("invalid gemini endpoint")

	// ErrNoContent is returned when the response envelope has no candidate text
	ErrNoContent = errors.New("gemini response has no content")
)

// NetworkError wraps a transport failure
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("gemini network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerError reports a non-200 response
type ServerError struct {
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("gemini returned status %d: %s", e.StatusCode, e.Body)
}

// ParseError reports model output that is not a JSON object
type ParseError struct {
	Payload string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse model output: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
