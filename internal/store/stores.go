package store

import "context"

// Stores groups the store implementations bound to one connection or transaction.
type Stores struct {
	Users       UserStore
	Items       ContentItemStore
	Collections CollectionStore
	Posts       PostStore
	Imports     ImportRecordStore
	Streaks     StreakStore
}

// TxManager runs fn with stores bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, s *Stores) error) error
}
