package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCancelled is returned by prompts when the user quits the wizard.
	ErrCancelled = errors.New("cancelled by user")
	// ErrSessionNotFound is returned when no record exists for a session id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidSessionID is returned for ids that are not filesystem-safe tokens.
	ErrInvalidSessionID = errors.New("invalid session id")
)

// ValidationError rejects one user input. It is always recoverable by
// re-prompting.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NetworkError is a failed call to a remote service.
type NetworkError struct {
	Op string
	// Status is the HTTP status code, or 0 when no response was received.
	Status    int
	Body      string
	Retryable bool
	Err       error
}

func (e *NetworkError) Error() string {
	kind := "terminal"
	if e.Retryable {
		kind = "retryable"
	}
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("%s: %s failure: http %d: %v", e.Op, kind, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: %s failure: http %d: %s", e.Op, kind, e.Status, e.Body)
	default:
		return fmt.Sprintf("%s: %s failure: %v", e.Op, kind, e.Err)
	}
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is a NetworkError that may be retried.
func IsRetryable(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne) && ne.Retryable
}

// PersistenceError is a failed save, load, list or delete of a session.
type PersistenceError struct {
	Op        string
	SessionID string
	Err       error
}

func (e *PersistenceError) Error() string {
	if e.SessionID == "" {
		return fmt.Sprintf("session %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("session %s %s: %v", e.Op, e.SessionID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// DecryptReason distinguishes why a session payload could not be opened.
type DecryptReason int

const (
	// DecryptAuthFailed means the passphrase is wrong or the blob was modified.
	DecryptAuthFailed DecryptReason = iota
	// DecryptMalformed means the blob is truncated or not in a known format.
	DecryptMalformed
)

func (r DecryptReason) String() string {
	if r == DecryptMalformed {
		return "malformed session data"
	}
	return "wrong passphrase or tampered session"
}

// DecryptionAuthError is returned when a session payload cannot be opened.
type DecryptionAuthError struct {
	SessionID string
	Reason    DecryptReason
	Err       error
}

func (e *DecryptionAuthError) Error() string {
	return fmt.Sprintf("session %s: %s", e.SessionID, e.Reason)
}

func (e *DecryptionAuthError) Unwrap() error { return e.Err }

// StateConflictError reports an attempt to apply a background result that
// does not belong to the current submission. It indicates a bug.
type StateConflictError struct {
	Task          TaskHandle
	Current       TaskHandle
	SubmittedName string
	CurrentName   string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("stale name check %s (%q) for current %s (%q)", e.Task, e.SubmittedName, e.Current, e.CurrentName)
}
