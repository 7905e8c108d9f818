// Package fixtures provides test data factories for users, events and
// sessions.
//
// # In-memory Fixtures
//
//	user := fixtures.Organizer()
//	event := fixtures.Event(fixtures.OwnedBy(user.Email))
//	draft := fixtures.Draft("Keynote")
//
// # Store Fixtures
//
// Seed a SurrealDB test namespace:
//
//	f := fixtures.New(tdb.DB)
//	f.CreateEvent(t, event)
//	f.CreateSession(t, fixtures.Session(event.ID, 10))
//	f.CreateRegistration(t, event.ID, "a@test.local")
package fixtures
