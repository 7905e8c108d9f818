// Package handler provides the HTTP handlers of the view host.
//
// Each handler struct wraps the service surface it needs, declared here as
// a small interface so tests can substitute function-field mocks:
//
//   - AuthHandler: login and account registration against the event platform
//   - EventHandler: the role-selected event listing and event deletion
//   - ViewHandler: opened event views and the session, attendee,
//     registration and calendar operations on them
//   - HealthHandler: liveness and store reachability
//
// # Response Format
//
// Successful responses use WriteData, which wraps the payload in
// {"data": ..., "_links": {...}}. Failures are RFC 9457 Problem Details
// produced by MapServiceError from service and repository errors.
//
// # Authentication
//
// Every route except login, registration and health sits behind
// middleware.Auth, which puts the user and bearer token in the request
// context (model.UserFromContext).
//
// # Example Usage
//
//	views := handler.NewViewHandler(handler.ViewHandlerConfig{Views: registry})
//	views.RegisterRoutes(mux, middleware.Auth(authService))
package handler
