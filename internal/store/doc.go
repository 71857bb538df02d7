// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing business rules to remain
// independent of specific database technologies or persistence details.
//
// Services never see a *sql.Tx: they receive a Stores value from a
// TxManager, so the same code runs against Postgres and the in-memory
// implementation used in tests.
package store
