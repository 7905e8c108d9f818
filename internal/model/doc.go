// Package model defines the records the event view backend works with.
//
// # Canonical and Raw Records
//
// The event platform is not consistent about field names. Time bounds arrive
// as either {startTime, endTime} or {startAt, endAt}, titles as "title" or
// "name", the organizer as a nested object or a flat email. Every upstream
// payload is decoded into a Raw* type and normalized once:
//
//	var raw model.RawEvent
//	_ = json.Unmarshal(body, &raw)
//	event := raw.Normalize() // event.Start, event.End are canonical
//
// Each field resolves against its own precedence chain, so a record carrying
// startTime and endAt yields Start from startTime and End from endAt. A bound
// that is missing everywhere is nil; it is never an error and never "now".
//
// # Roles
//
// Raw role strings ("ROLE_ADMIN", "admin", "ADMIN") are mapped onto the
// canonical RoleName vocabulary by NormalizeRoles. Unknown strings are dropped.
//
// # Error Types
//
// Upstream failures use the taxonomy in errors.go (ErrNetworkFailure,
// ErrNotFound, ErrValidation) wrapped in RemoteError. The HTTP surface reports
// errors as RFC 9457 Problem Details.
package model
