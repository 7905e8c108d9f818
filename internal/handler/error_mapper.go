package handler

import (
	"errors"
	"net/http"

	"github.com/forgo/ems/api/internal/model"
	"github.com/forgo/ems/api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// Repository failures arrive as *model.RemoteError and are classified by
// the model taxonomy.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	var denied *service.NotPermittedError
	var remote *model.RemoteError

	switch {
	// ===== Authentication Errors → 401 =====
	case errors.Is(err, service.ErrUnauthenticated):
		return model.NewUnauthorizedError(err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return model.NewUnauthorizedError(err.Error())

	// ===== Authorization Errors → 403 =====
	case errors.As(err, &denied):
		return model.NewNotPermittedError(denied.Action)

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrViewNotFound):
		return model.NewNotFoundError("view")
	case errors.Is(err, service.ErrEventNotFound):
		return model.NewNotFoundError("event")
	case errors.Is(err, service.ErrSessionNotFound):
		return model.NewNotFoundError("session")
	case errors.Is(err, model.ErrNotFound):
		return model.NewNotFoundError("resource")

	// ===== Closed Views → 410 =====
	case errors.Is(err, service.ErrViewClosed):
		return model.NewGoneError("view has been closed")

	// ===== Validation Errors → 422 =====
	case errors.Is(err, model.ErrValidation):
		if errors.As(err, &remote) && len(remote.Fields) > 0 {
			return model.NewValidationError(remote.Fields)
		}
		detail := err.Error()
		if errors.As(err, &remote) && remote.Detail != "" {
			detail = remote.Detail
		}
		return model.NewValidationError([]model.FieldError{{Field: "request", Message: detail}})

	// ===== Upstream Rejections =====
	case errors.As(err, &remote) && remote.Status == http.StatusUnauthorized:
		return model.NewUnauthorizedError(upstreamDetail(remote, "event platform rejected the token"))
	case errors.As(err, &remote) && remote.Status == http.StatusForbidden:
		return model.NewForbiddenError(upstreamDetail(remote, "event platform refused the request"))
	case errors.As(err, &remote) && remote.Status == http.StatusConflict:
		return model.NewConflictError(upstreamDetail(remote, "request conflicts with existing data"))

	// ===== Upstream Errors → 502 =====
	case errors.Is(err, service.ErrNoTokenIssued):
		return model.NewBadGatewayError(err.Error())
	case errors.Is(err, model.ErrNetworkFailure):
		detail := "event platform request failed"
		if errors.As(err, &remote) {
			detail = upstreamDetail(remote, detail)
		}
		return model.NewBadGatewayError(detail)

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}

// MapServiceErrorWithContext converts a service error to a ProblemDetails response
// with additional context about the operation that failed.
func MapServiceErrorWithContext(err error, operation string) *model.ProblemDetails {
	pd := MapServiceError(err)
	if pd != nil && pd.Status == 500 {
		pd.Detail = operation + ": an unexpected error occurred"
		pd.Message = pd.Detail
	}
	return pd
}

func upstreamDetail(remote *model.RemoteError, fallback string) string {
	if remote.Detail != "" {
		return remote.Detail
	}
	return fallback
}
