// Package testdb provides test database utilities.
//
// # Test Database Setup
//
// Each test gets its own namespace with the given schema applied:
//
//	func TestStore(t *testing.T) {
//	    tdb := testdb.New(t, repository.Schema)
//	    repo := repository.NewStoreRepository(repository.StoreConfig{DB: tdb.DB})
//	}
//
// Tests are skipped unless TEST_DB_HOST is set. TEST_DB_PORT,
// TEST_DB_USER and TEST_DB_PASSWORD default to 8000, root and root.
//
// # Cleanup
//
// The namespace is removed when the test finishes. Reset clears named
// tables for subtests that reuse one namespace.
package testdb
