// Package database provides the SurrealDB connection used by the direct-store
// backend.
//
// The Database interface keeps the store repository independent of the
// driver. It exposes three query methods:
//
//   - Query: all statement results, each wrapped as {status, result}
//   - QueryOne: the first record of the first statement
//   - Execute: mutations whose result is not needed
//
// # Transactions
//
// Transactions are batch-based. AtomicBatch accumulates statements and sends
// them wrapped in BEGIN TRANSACTION / COMMIT TRANSACTION, so they succeed or
// fail together:
//
//	err := database.NewAtomicBatch().
//	    Add("DELETE session WHERE event = type::record($event_id)", vars).
//	    Add("DELETE type::record($event_id)", vars).
//	    Execute(ctx, db)
//
// # Errors
//
//   - ErrNotFound: the query returned no record
//   - ErrConnection: the database is unreachable or not connected
//   - ErrQuery: a statement failed
//
// Use errors.Is to check them.
package database
