// Package service implements the business logic layer for the EMS view host.
//
// The service package decides which actions a user is offered on an event,
// keeps each open view's session list consistent with the event platform,
// and orchestrates repository calls for handlers.
//
// # Service Pattern
//
// All services follow a consistent pattern:
//
//   - Constructor function (NewXxxService) accepts its repository and an optional logger
//   - Methods implement business operations with proper validation
//   - Errors are returned as sentinel errors or wrapped errors for context
//   - Context is passed through for cancellation and request-scoped values
//
// # Repository Interfaces
//
// Services define their own repository interfaces (EventRepository,
// SessionRepository, AuthRepository). The repository package provides an
// HTTP implementation against the event platform and a SurrealDB one.
//
// # Capabilities
//
// ResolveCapabilities is a pure function of the user's roles, the user's
// email and the event's organizer email:
//
//	caps := service.ResolveCapabilities(user, event)
//	if caps.CanEdit { ... }
//
// # Views
//
// A view is one opened event page. ViewRegistry.Open fetches the event,
// resolves capabilities and loads sessions through a SessionSync. Views
// live in memory and expire when idle; closing a view detaches its
// SessionSync so late responses are discarded.
//
// # Error Handling
//
// Services return domain-specific errors defined as package-level variables:
//
//	var (
//	    ErrViewNotFound       = errors.New("view not found")
//	    ErrActionNotPermitted = errors.New("action not offered for this event")
//	)
//
// Repository failures pass through as *model.RemoteError and match
// model.ErrNetworkFailure, model.ErrNotFound or model.ErrValidation.
package service
