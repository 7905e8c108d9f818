package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Failure taxonomy for calls to the event platform. Repositories wrap one of
// these in a *RemoteError; callers test with errors.Is.
var (
	// ErrNetworkFailure means the request never completed or returned non-success.
	ErrNetworkFailure = errors.New("network failure")

	// ErrNotFound means the requested entity is absent.
	ErrNotFound = errors.New("not found")

	// ErrValidation means a draft was malformed, detected locally or by the upstream.
	ErrValidation = errors.New("validation failure")
)

// RemoteError describes a failed repository operation
type RemoteError struct {
	Op     string       // repository operation, e.g. "create session"
	Status int          // HTTP status when the upstream answered, 0 otherwise
	Detail string       // upstream or local message
	Fields []FieldError // validation details, if any
	Kind   error        // one of the taxonomy sentinels
	Err    error        // underlying cause
}

// Error implements the error interface
func (e *RemoteError) Error() string {
	kind := e.Kind
	if kind == nil {
		kind = ErrNetworkFailure
	}
	msg := e.Op + ": " + kind.Error()
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches the taxonomy sentinel
func (e *RemoteError) Is(target error) bool {
	return target == e.Kind
}

// Unwrap returns the underlying cause
func (e *RemoteError) Unwrap() error {
	return e.Err
}

// NewRemoteError builds a RemoteError classifying status into the taxonomy
func NewRemoteError(op string, status int, detail string, cause error) *RemoteError {
	return &RemoteError{
		Op:     op,
		Status: status,
		Detail: detail,
		Kind:   KindForStatus(status),
		Err:    cause,
	}
}

// KindForStatus maps an HTTP status onto the failure taxonomy
func KindForStatus(status int) error {
	switch status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrValidation
	default:
		return ErrNetworkFailure
	}
}

// ErrorCode represents API error codes
type ErrorCode int

const (
	// Authentication errors (1xxx)
	ErrCodeUnauthorized ErrorCode = 1001
	ErrCodeTokenExpired ErrorCode = 1002
	ErrCodeTokenInvalid ErrorCode = 1003
	ErrCodeLoginFailed  ErrorCode = 1004

	// Authorization errors (2xxx)
	ErrCodeForbidden    ErrorCode = 2001
	ErrCodeNotPermitted ErrorCode = 2002

	// Resource errors (3xxx)
	ErrCodeNotFound   ErrorCode = 3001
	ErrCodeViewClosed ErrorCode = 3002
	ErrCodeConflict   ErrorCode = 3003

	// Validation errors (4xxx)
	ErrCodeValidation   ErrorCode = 4001
	ErrCodeInvalidInput ErrorCode = 4002

	// Internal errors (5xxx)
	ErrCodeInternal ErrorCode = 5001
	ErrCodeUpstream ErrorCode = 5003
)

// ProblemTypeBase prefixes every problem type URI
const ProblemTypeBase = "https://ems.forgo.software/errors/"

// ProblemDetails represents RFC 9457 Problem Details for HTTP APIs
type ProblemDetails struct {
	Type     string       `json:"type"`
	Title    string       `json:"title"`
	Status   int          `json:"status"`
	Detail   string       `json:"detail,omitempty"`
	Instance string       `json:"instance,omitempty"`
	Errors   []FieldError `json:"errors,omitempty"`
	// Extension fields
	Code ErrorCode `json:"code,omitempty"`
	// Message mirrors Detail for clients that read err.response.data.message
	Message string `json:"message,omitempty"`
}

// FieldError represents a validation error on a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (p *ProblemDetails) Error() string {
	return fmt.Sprintf("[%d] %s: %s", p.Status, p.Title, p.Detail)
}

// WriteJSON writes the problem details as JSON response
func (p *ProblemDetails) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

func newProblem(slug, title string, status int, detail string, code ErrorCode) *ProblemDetails {
	return &ProblemDetails{
		Type:    ProblemTypeBase + slug,
		Title:   title,
		Status:  status,
		Detail:  detail,
		Code:    code,
		Message: detail,
	}
}

// Common error constructors

func NewUnauthorizedError(detail string) *ProblemDetails {
	return newProblem("unauthorized", "Unauthorized", http.StatusUnauthorized, detail, ErrCodeUnauthorized)
}

func NewForbiddenError(detail string) *ProblemDetails {
	return newProblem("forbidden", "Forbidden", http.StatusForbidden, detail, ErrCodeForbidden)
}

func NewNotPermittedError(action Action) *ProblemDetails {
	return newProblem("not-permitted", "Action Not Offered", http.StatusForbidden,
		fmt.Sprintf("action %q is not offered for this event", action), ErrCodeNotPermitted)
}

func NewNotFoundError(resource string) *ProblemDetails {
	return newProblem("not-found", "Not Found", http.StatusNotFound,
		fmt.Sprintf("%s not found", resource), ErrCodeNotFound)
}

func NewConflictError(detail string) *ProblemDetails {
	return newProblem("conflict", "Conflict", http.StatusConflict, detail, ErrCodeConflict)
}

func NewGoneError(detail string) *ProblemDetails {
	return newProblem("view-closed", "Gone", http.StatusGone, detail, ErrCodeViewClosed)
}

func NewValidationError(errors []FieldError) *ProblemDetails {
	// Build detailed message from field errors
	detail := "One or more fields failed validation"
	if len(errors) > 0 {
		detail = fmt.Sprintf("%s: %s", errors[0].Field, errors[0].Message)
		if len(errors) > 1 {
			detail = fmt.Sprintf("%s (and %d more errors)", detail, len(errors)-1)
		}
	}
	p := newProblem("validation", "Validation Error", http.StatusUnprocessableEntity, detail, ErrCodeValidation)
	p.Errors = errors
	return p
}

func NewBadGatewayError(detail string) *ProblemDetails {
	return newProblem("upstream", "Bad Gateway", http.StatusBadGateway, detail, ErrCodeUpstream)
}

func NewInternalError(detail string) *ProblemDetails {
	if detail == "" {
		detail = "An unexpected error occurred"
	}
	return newProblem("internal", "Internal Server Error", http.StatusInternalServerError, detail, ErrCodeInternal)
}

func NewBadRequestError(detail string) *ProblemDetails {
	return newProblem("bad-request", "Bad Request", http.StatusBadRequest, detail, ErrCodeInvalidInput)
}
