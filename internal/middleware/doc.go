// Package middleware provides HTTP middleware for the EMS view host.
//
// # Available Middleware
//
//   - RequestID: assigns or preserves X-Request-ID
//   - Trace: starts an OpenTelemetry server span per request
//   - Logger: structured request log with status, duration and trace id
//   - Recovery: turns panics into an RFC 9457 500 response
//   - CORS: origin allow-list for the browser client
//   - Compress: gzip responses when the client accepts it
//   - Auth / OptionalAuth: bearer token to *model.User
//
// Compose them with Chain; the first middleware is the outermost:
//
//	handler := middleware.Chain(mux,
//	    middleware.Recovery,
//	    middleware.RequestID,
//	    middleware.Trace,
//	    middleware.Logger,
//	)
//
// # Authentication
//
// Auth attaches the user and the raw bearer token to the request context.
// Handlers read the user with model.UserFromContext; repositories forward
// the token upstream with model.TokenFromContext.
package middleware
