package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/glossa-api/internal/domain"
	"github.com/phrazzld/glossa-api/internal/platform/logger"
	"github.com/phrazzld/glossa-api/internal/service"
	"github.com/phrazzld/glossa-api/internal/store"
	"github.com/phrazzld/glossa-api/internal/testutils/memstore"
	"github.com/stretchr/testify/require"
)

// fixture wires the services against an in-memory store.
type fixture struct {
	db     *memstore.DB
	stores *store.Stores
	logs   *logger.TestLogBuffer
	clock  *testClock

	sharing  service.SharingService
	imports  service.ImportService
	deletion service.DeletionService
	streaks  service.StreakService
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithBatch(t, 50)
}

func newFixtureWithBatch(t *testing.T, batchSize int) *fixture {
	t.Helper()

	log, buf := logger.GetTestLogger(t)
	db := memstore.New()
	f := &fixture{
		db:     db,
		stores: db.Stores(),
		logs:   buf,
		clock:  &testClock{now: time.Date(2026, time.May, 4, 10, 0, 0, 0, time.UTC)},
	}

	var err error
	f.streaks, err = service.NewStreakService(f.stores.Streaks, f.clock.Now, log)
	require.NoError(t, err)
	f.sharing, err = service.NewSharingService(db, f.stores, service.SharingOptions{
		ReservedTitles: []string{"All", "Favorites", "Saved"},
		DefaultLabel:   "General",
	}, log)
	require.NoError(t, err)
	f.imports, err = service.NewImportService(db, f.stores, f.streaks, service.ImportOptions{BatchSize: batchSize}, log)
	require.NoError(t, err)
	f.deletion, err = service.NewDeletionService(db, f.stores, log)
	require.NoError(t, err)

	return f
}

func (f *fixture) user(t *testing.T, alias, language string) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:          uuid.New(),
		DisplayName: "user " + alias,
		PublicAlias: alias,
		Language:    language,
	}
	f.db.AddUser(u)
	return u
}

func (f *fixture) item(t *testing.T, owner *domain.User, source, translated string) *domain.ContentItem {
	t.Helper()
	item, err := domain.NewContentItem(owner.ID, owner.Language, source, translated)
	require.NoError(t, err)
	require.NoError(t, f.stores.Items.Create(context.Background(), item))
	return item
}

func (f *fixture) collection(t *testing.T, owner *domain.User, title string) *domain.Collection {
	t.Helper()
	col, err := domain.NewCollection(owner.ID, title, owner.Language)
	require.NoError(t, err)
	require.NoError(t, f.stores.Collections.Create(context.Background(), col))
	return col
}

func (f *fixture) addTo(t *testing.T, item *domain.ContentItem, col *domain.Collection) {
	t.Helper()
	require.NoError(t, f.stores.Items.AddToCollection(context.Background(), item.ID, col.ID))
}

func (f *fixture) publish(t *testing.T, owner *domain.User, item *domain.ContentItem) *domain.PublishedPost {
	t.Helper()
	post, err := f.sharing.Publish(context.Background(), owner.ID, item.ID)
	require.NoError(t, err)
	return post
}

func (f *fixture) importOne(t *testing.T, user *domain.User, post *domain.PublishedPost) *service.ImportResult {
	t.Helper()
	res, err := f.imports.ImportOne(context.Background(), user.ID, post.ID, nil, "")
	require.NoError(t, err)
	return res
}
