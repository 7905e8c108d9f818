// Package repository implements the event data sources behind the view host.
//
// Two implementations satisfy service.EventRepository:
//
//   - RemoteRepository calls the event platform's HTTP API. The caller's
//     bearer token travels in the request context and is forwarded; list
//     endpoints may answer with a bare array or a {"data": [...]} envelope;
//     raw records are normalized into model.Event and model.Session.
//   - StoreRepository reads and writes the same records straight from
//     SurrealDB through database.Database, delegating login and
//     registration to an AccountClient.
//
// # Errors
//
// Every failure is a *model.RemoteError whose Kind is one of
// model.ErrNetworkFailure, model.ErrNotFound or model.ErrValidation:
//
//	if errors.Is(err, model.ErrNotFound) {
//	    // the event or session is gone
//	}
//
// # Idempotency
//
// Mutating upstream requests carry an Idempotency-Key header. A POST gets a
// fresh UUID, so two identical creates stay two sessions. A PUT gets a
// SHA-256 over the method, path, caller and the RFC 8785 canonical form of
// the body.
package repository
