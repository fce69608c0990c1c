package services

import (
	"errors"
	"fmt"
)

var (
	ErrLoginInProgress   = errors.New("login already in progress")
	ErrRefreshInProgress = errors.New("refresh already in progress")
	ErrNotAuthenticated  = errors.New("not authenticated")
	// ErrDecode marks an access token whose claims cannot be read. It never
	// leaves HasPermission.
	ErrDecode = errors.New("failed to decode access token")

	ErrCandidateNotFound  = errors.New("candidate not found")
	ErrDuplicateCandidate = errors.New("candidate already exists")
	ErrInvalidCandidate   = errors.New("invalid candidate")
	ErrInvalidStatus      = errors.New("invalid status")

	ErrModuleForbidden = errors.New("module not permitted")
)

// SessionExpiredError reports a refresh the Authentication Service refused.
// The session cannot be recovered locally; callers log out and ask the user
// to log in again.
type SessionExpiredError struct {
	Err error
}

func (e *SessionExpiredError) Error() string {
	if e.Err == nil {
		return "session expired"
	}
	return fmt.Sprintf("session expired: %v", e.Err)
}

func (e *SessionExpiredError) Unwrap() error { return e.Err }
