// Package service contains the core use cases: the derivation cache for
// generated artifacts, publishing, importing, cascading deletion and the
// activity streak.
//
// Services depend on the store interfaces and store.TxManager (defined in
// internal/store) and on generation.ArtifactGenerator, never on concrete
// infrastructure. Each mutating operation runs inside a single transaction;
// artifact generation never does. Failures are reported with the sentinel
// errors in errors.go, which the API layer maps to HTTP status codes.
package service
