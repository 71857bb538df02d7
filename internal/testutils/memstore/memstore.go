// Package memstore is an in-memory implementation of the store interfaces and
// store.TxManager for service tests. It emulates the constraints the Postgres
// schema enforces: unique keys, RESTRICT foreign keys from items to posts and
// the cascades from items and posts to import records.
//
// A single mutex serializes access. RunInTx holds it for the whole callback and
// restores a snapshot when the callback fails, so transactions are atomic and
// isolated from each other.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/glossa-api/internal/domain"
	"github.com/phrazzld/glossa-api/internal/store"
)

// ErrForeignKey mimics a foreign key violation.
var ErrForeignKey = errors.New("foreign key violation")

type membership struct {
	itemID       uuid.UUID
	collectionID uuid.UUID
}

type state struct {
	users       map[uuid.UUID]*domain.User
	items       map[uuid.UUID]*domain.ContentItem
	collections map[uuid.UUID]*domain.Collection
	posts       map[uuid.UUID]*domain.PublishedPost
	imports     map[uuid.UUID]*domain.ImportRecord
	streaks     map[uuid.UUID]*domain.StreakState
	memberships []membership
}

func newState() *state {
	return &state{
		users:       map[uuid.UUID]*domain.User{},
		items:       map[uuid.UUID]*domain.ContentItem{},
		collections: map[uuid.UUID]*domain.Collection{},
		posts:       map[uuid.UUID]*domain.PublishedPost{},
		imports:     map[uuid.UUID]*domain.ImportRecord{},
		streaks:     map[uuid.UUID]*domain.StreakState{},
	}
}

func (s *state) clone() *state {
	out := newState()
	for k, v := range s.users {
		cp := *v
		out.users[k] = &cp
	}
	for k, v := range s.items {
		out.items[k] = copyItem(v)
	}
	for k, v := range s.collections {
		cp := *v
		out.collections[k] = &cp
	}
	for k, v := range s.posts {
		out.posts[k] = copyPost(v)
	}
	for k, v := range s.imports {
		out.imports[k] = copyRecord(v)
	}
	for k, v := range s.streaks {
		out.streaks[k] = copyStreak(v)
	}
	out.memberships = append([]membership(nil), s.memberships...)
	return out
}

// DB is the in-memory database.
type DB struct {
	mu    sync.Mutex
	st    *state
	fails map[string]error
	// failAt makes only the nth call of an operation fail.
	failAt map[string]failure
	calls  map[string]int
	now    func() time.Time
}

type failure struct {
	call int
	err  error
}

// New returns an empty database.
func New() *DB {
	return &DB{
		st:     newState(),
		fails:  map[string]error{},
		failAt: map[string]failure{},
		calls:  map[string]int{},
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// FailOn makes the named operation (e.g. "Posts.Delete") return err until cleared with a nil err.
func (db *DB) FailOn(op string, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err == nil {
		delete(db.fails, op)
		return
	}
	db.fails[op] = err
}

// FailOnCall makes only the nth call (counting from 1) of op return err.
func (db *DB) FailOnCall(op string, n int, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.calls[op] = 0
	db.failAt[op] = failure{call: n, err: err}
}

// Stores returns stores that each take the lock per call, like autocommit statements.
func (db *DB) Stores() *store.Stores {
	return db.bind(false)
}

// RunInTx implements store.TxManager.
func (db *DB) RunInTx(ctx context.Context, fn func(ctx context.Context, s *store.Stores) error) (err error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	snapshot := db.st.clone()
	defer func() {
		if p := recover(); p != nil {
			db.st = snapshot
			panic(p)
		}
		if err != nil {
			db.st = snapshot
		}
	}()

	return fn(ctx, db.bind(true))
}

var _ store.TxManager = (*DB)(nil)

func (db *DB) bind(inTx bool) *store.Stores {
	c := conn{db: db, inTx: inTx}
	return &store.Stores{
		Users:       userStore{c},
		Items:       itemStore{c},
		Collections: collectionStore{c},
		Posts:       postStore{c},
		Imports:     importStore{c},
		Streaks:     streakStore{c},
	}
}

// conn locks the database for a single call unless it is bound to a transaction.
type conn struct {
	db   *DB
	inTx bool
}

func (c conn) enter(op string) (*state, func(), error) {
	release := func() {}
	if !c.inTx {
		c.db.mu.Lock()
		release = c.db.mu.Unlock
	}
	if err, ok := c.db.fails[op]; ok {
		release()
		return nil, func() {}, err
	}
	c.db.calls[op]++
	if f, ok := c.db.failAt[op]; ok && f.call == c.db.calls[op] {
		release()
		return nil, func() {}, f.err
	}
	return c.db.st, release, nil
}

// Seeding and inspection helpers. They take the lock and must not be called inside RunInTx.

// AddUser stores u.
func (db *DB) AddUser(u *domain.User) {
	db.mu.Lock()
	defer db.mu.Unlock()
	cp := *u
	db.st.users[u.ID] = &cp
}

// Item returns a copy of the item, or nil.
func (db *DB) Item(id uuid.UUID) *domain.ContentItem {
	db.mu.Lock()
	defer db.mu.Unlock()
	if it, ok := db.st.items[id]; ok {
		return copyItem(it)
	}
	return nil
}

// Post returns a copy of the post, or nil.
func (db *DB) Post(id uuid.UUID) *domain.PublishedPost {
	db.mu.Lock()
	defer db.mu.Unlock()
	if p, ok := db.st.posts[id]; ok {
		return copyPost(p)
	}
	return nil
}

// Collection returns a copy of the collection, or nil.
func (db *DB) Collection(id uuid.UUID) *domain.Collection {
	db.mu.Lock()
	defer db.mu.Unlock()
	if c, ok := db.st.collections[id]; ok {
		cp := *c
		return &cp
	}
	return nil
}

// ImportRecords returns copies of every record, ordered by creation time.
func (db *DB) ImportRecords() []*domain.ImportRecord {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]*domain.ImportRecord, 0, len(db.st.imports))
	for _, r := range db.st.imports {
		out = append(out, copyRecord(r))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Streak returns a copy of the user's streak, or nil.
func (db *DB) Streak(userID uuid.UUID) *domain.StreakState {
	db.mu.Lock()
	defer db.mu.Unlock()
	if s, ok := db.st.streaks[userID]; ok {
		return copyStreak(s)
	}
	return nil
}

// CollectionItems returns the ids of the items in a collection, in membership order.
func (db *DB) CollectionItems(collectionID uuid.UUID) []uuid.UUID {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []uuid.UUID
	for _, m := range db.st.memberships {
		if m.collectionID == collectionID {
			out = append(out, m.itemID)
		}
	}
	return out
}

func copyItem(it *domain.ContentItem) *domain.ContentItem {
	cp := *it
	cp.Artifacts = it.Artifacts.Clone()
	if it.OriginPostID != nil {
		id := *it.OriginPostID
		cp.OriginPostID = &id
	}
	return &cp
}

func copyPost(p *domain.PublishedPost) *domain.PublishedPost {
	cp := *p
	cp.Artifacts = p.Artifacts.Clone()
	return &cp
}

func copyRecord(r *domain.ImportRecord) *domain.ImportRecord {
	cp := *r
	if r.CollectionID != nil {
		id := *r.CollectionID
		cp.CollectionID = &id
	}
	return &cp
}

func copyStreak(s *domain.StreakState) *domain.StreakState {
	cp := *s
	if s.LastActivityDate != nil {
		t := *s.LastActivityDate
		cp.LastActivityDate = &t
	}
	return &cp
}

func fkError(what string) error {
	return fmt.Errorf("%w: %s", ErrForeignKey, what)
}
