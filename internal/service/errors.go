package service

import (
	"errors"
	"fmt"
)

// Service errors - sentinel errors shared by every service in this package.
// Callers check them with errors.Is(); KindOf maps an error to a stable kind string.
//
// Error handling principles:
// 1. Expected conditions are returned as (wrapped) sentinels
// 2. Store errors are translated at the service boundary and kept in the chain
// 3. The API layer maps kinds to HTTP status codes
var (
	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates that a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotOwner indicates the caller does not own the entity.
	ErrNotOwner = errors.New("caller does not own the resource")

	// ErrConflict indicates the operation collides with existing state.
	ErrConflict = errors.New("conflict")

	// ErrAlreadyShared indicates the content item already has a published post.
	ErrAlreadyShared = fmt.Errorf("%w: content item is already shared", ErrConflict)

	// ErrAlreadyImported indicates the user already imported the post.
	ErrAlreadyImported = fmt.Errorf("%w: post is already imported", ErrConflict)

	// ErrSelfImport indicates a user tried to import their own post.
	ErrSelfImport = fmt.Errorf("%w: cannot import your own post", ErrConflict)

	// ErrNoPublicAlias indicates the user must set a public alias before publishing.
	ErrNoPublicAlias = fmt.Errorf("%w: a public alias is required to publish", ErrValidation)

	// ErrExternalProvider indicates the generation provider failed.
	ErrExternalProvider = errors.New("external provider failed")

	// ErrPersistence indicates the database failed or a transaction was rolled back.
	ErrPersistence = errors.New("persistence failed")
)

// Error kinds returned by KindOf.
const (
	KindValidation       = "validation"
	KindNotFound         = "not_found"
	KindNotOwner         = "not_owner"
	KindConflict         = "conflict"
	KindExternalProvider = "external_provider"
	KindPersistence      = "persistence"
	KindInternal         = "internal"
)

// KindOf returns the kind of err, or KindInternal for errors outside the taxonomy.
// The outermost ServiceError decides, so a cause of another kind does not leak through.
func KindOf(err error) string {
	var se *ServiceError
	if errors.As(err, &se) && se.Kind != nil {
		err = se.Kind
	}
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrNotOwner):
		return KindNotOwner
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrExternalProvider):
		return KindExternalProvider
	case errors.Is(err, ErrPersistence):
		return KindPersistence
	default:
		return KindInternal
	}
}

// ServiceError wraps a failure with the operation that produced it. It unwraps to
// both its kind sentinel and the underlying cause.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "publish", "import_one")
	Operation string
	// Kind is one of the sentinel errors above
	Kind error
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

// Unwrap returns the kind and the cause to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// newError builds a ServiceError of the given kind.
func newError(operation string, kind error, message string, err error) error {
	return &ServiceError{Operation: operation, Kind: kind, Message: message, Err: err}
}

// persistenceError translates a store failure. Errors that already carry a
// service kind pass through unchanged.
func persistenceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != KindInternal {
		return err
	}
	return newError(operation, ErrPersistence, message, err)
}
