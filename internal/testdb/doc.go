// Package testdb provides utilities for database integration tests.
//
// Each test runs inside its own transaction, which is rolled back when the
// test completes, so tests can run in parallel against one database without
// manual cleanup:
//
//	func TestSomething(t *testing.T) {
//		db := testdb.GetTestDBWithT(t)
//		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//			stores := postgres.NewStores(tx, nil)
//			// ...
//		})
//	}
//
// Tests are skipped when neither GLOSSA_TEST_DATABASE_URL nor DATABASE_URL is set.
package testdb
