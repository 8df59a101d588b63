package api

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrUnexpectedStatus = goerr.New("unexpected HTTP status")
	ErrTransport        = goerr.New("transport failure")
	ErrDecode           = goerr.New("failed to decode response")
)

// StatusError is returned for non-2xx responses
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// Retryable reports whether the server may succeed on a later attempt
func (e *StatusError) Retryable() bool {
	return e.StatusCode >= 500
}
