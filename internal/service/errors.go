package service

import (
	"errors"
	"fmt"

	"github.com/forgo/ems/api/internal/model"
)

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable. Repository failures
// surface as *model.RemoteError and are matched with the model taxonomy.

// ===== Authentication Errors =====
var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoTokenIssued      = errors.New("login did not return a token")
)

// ===== View Errors =====
var (
	ErrViewNotFound = errors.New("view not found")
	ErrViewClosed   = errors.New("view closed")
)

// ===== Event Errors =====
var (
	ErrEventNotFound      = errors.New("event not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrActionNotPermitted = errors.New("action not offered for this event")
)

// NotPermittedError names the capability a caller lacked
type NotPermittedError struct {
	Action model.Action
}

func (e *NotPermittedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrActionNotPermitted, e.Action)
}

// Is matches ErrActionNotPermitted
func (e *NotPermittedError) Is(target error) bool {
	return target == ErrActionNotPermitted
}

func notPermitted(action model.Action) error {
	return &NotPermittedError{Action: action}
}
