package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable       = errors.New("server unavailable")
	ErrMalformedResponse = errors.New("malformed auth response")
)

// AuthenticationError is a rejection by the Authentication Service: a
// non-success envelope or a 4xx status. Message is the server's text and is
// meant to be shown to the user as-is.
type AuthenticationError struct {
	Message    string
	StatusCode int
	TraceID    string
}

func (e *AuthenticationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("authentication failed (status %d)", e.StatusCode)
	}
	return e.Message
}
