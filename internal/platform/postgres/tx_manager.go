package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/glossa-api/internal/store"
)

// NewStores binds every Postgres store to db, which may be a *sql.DB or a *sql.Tx.
func NewStores(db store.DBTX, logger *slog.Logger) *store.Stores {
	return &store.Stores{
		Users:       NewPostgresUserStore(db, logger),
		Items:       NewPostgresContentItemStore(db, logger),
		Collections: NewPostgresCollectionStore(db, logger),
		Posts:       NewPostgresPostStore(db, logger),
		Imports:     NewPostgresImportRecordStore(db, logger),
		Streaks:     NewPostgresStreakStore(db, logger),
	}
}

// TxManager implements store.TxManager on top of store.RunInTransaction.
type TxManager struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewTxManager creates a TxManager for db.
func NewTxManager(db *sql.DB, logger *slog.Logger) *TxManager {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TxManager{db: db, logger: logger}
}

var _ store.TxManager = (*TxManager)(nil)

// RunInTx implements store.TxManager.RunInTx
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context, s *store.Stores) error) error {
	return store.RunInTransaction(ctx, m.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, NewStores(tx, m.logger))
	})
}
