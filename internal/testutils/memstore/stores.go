package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/glossa-api/internal/domain"
	"github.com/phrazzld/glossa-api/internal/store"
)

type userStore struct{ c conn }

func (s userStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	st, done, err := s.c.enter("Users.GetByID")
	if err != nil {
		return nil, err
	}
	defer done()
	u, ok := st.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

type itemStore struct{ c conn }

func (s itemStore) Create(_ context.Context, item *domain.ContentItem) error {
	st, done, err := s.c.enter("Items.Create")
	if err != nil {
		return err
	}
	defer done()
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	if _, ok := st.items[item.ID]; ok {
		return fmt.Errorf("%w: content item id", store.ErrDuplicate)
	}
	if item.OriginPostID != nil {
		if _, ok := st.posts[*item.OriginPostID]; !ok {
			return fkError("content item origin post")
		}
	}
	st.items[item.ID] = copyItem(item)
	return nil
}

func (s itemStore) GetByID(_ context.Context, id uuid.UUID) (*domain.ContentItem, error) {
	st, done, err := s.c.enter("Items.GetByID")
	if err != nil {
		return nil, err
	}
	defer done()
	it, ok := st.items[id]
	if !ok {
		return nil, store.ErrContentItemNotFound
	}
	return copyItem(it), nil
}

func (s itemStore) Delete(_ context.Context, id uuid.UUID) error {
	st, done, err := s.c.enter("Items.Delete")
	if err != nil {
		return err
	}
	defer done()
	if _, ok := st.items[id]; !ok {
		return store.ErrContentItemNotFound
	}
	for _, p := range st.posts {
		if p.OriginItemID == id {
			return fkError("published post references content item")
		}
	}
	delete(st.items, id)
	for rid, r := range st.imports {
		if r.ImportedItemID == id {
			delete(st.imports, rid)
		}
	}
	st.memberships = dropMemberships(st.memberships, func(m membership) bool { return m.itemID == id })
	return nil
}

func (s itemStore) SetArtifactIfEmpty(
	_ context.Context,
	id uuid.UUID,
	variant domain.ArtifactVariant,
	artifact domain.Artifact,
) (bool, error) {
	st, done, err := s.c.enter("Items.SetArtifactIfEmpty")
	if err != nil {
		return false, err
	}
	defer done()
	if err := checkArtifact(variant, artifact); err != nil {
		return false, err
	}
	it, ok := st.items[id]
	if !ok {
		return false, nil
	}
	if _, present := it.Artifacts.Get(variant); present {
		return false, nil
	}
	if it.Artifacts == nil {
		it.Artifacts = domain.Artifacts{}
	}
	it.Artifacts.Set(variant, cloneArtifact(artifact))
	it.UpdatedAt = s.c.db.now()
	return true, nil
}

func (s itemStore) ListByOriginPost(_ context.Context, postID uuid.UUID) ([]*domain.ContentItem, error) {
	st, done, err := s.c.enter("Items.ListByOriginPost")
	if err != nil {
		return nil, err
	}
	defer done()
	var out []*domain.ContentItem
	for _, it := range st.items {
		if it.OriginPostID != nil && *it.OriginPostID == postID {
			out = append(out, copyItem(it))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s itemStore) AddToCollection(_ context.Context, itemID, collectionID uuid.UUID) error {
	st, done, err := s.c.enter("Items.AddToCollection")
	if err != nil {
		return err
	}
	defer done()
	if _, ok := st.items[itemID]; !ok {
		return fkError("membership item")
	}
	if _, ok := st.collections[collectionID]; !ok {
		return fkError("membership collection")
	}
	for _, m := range st.memberships {
		if m.itemID == itemID && m.collectionID == collectionID {
			return nil
		}
	}
	st.memberships = append(st.memberships, membership{itemID: itemID, collectionID: collectionID})
	return nil
}

func (s itemStore) RemoveFromCollections(_ context.Context, itemID uuid.UUID) error {
	st, done, err := s.c.enter("Items.RemoveFromCollections")
	if err != nil {
		return err
	}
	defer done()
	st.memberships = dropMemberships(st.memberships, func(m membership) bool { return m.itemID == itemID })
	return nil
}

func (s itemStore) ListCollections(_ context.Context, itemID uuid.UUID) ([]*domain.Collection, error) {
	st, done, err := s.c.enter("Items.ListCollections")
	if err != nil {
		return nil, err
	}
	defer done()
	var out []*domain.Collection
	for _, m := range st.memberships {
		if m.itemID != itemID {
			continue
		}
		if col, ok := st.collections[m.collectionID]; ok {
			cp := *col
			out = append(out, &cp)
		}
	}
	return out, nil
}

type collectionStore struct{ c conn }

func (s collectionStore) Create(_ context.Context, col *domain.Collection) error {
	st, done, err := s.c.enter("Collections.Create")
	if err != nil {
		return err
	}
	defer done()
	if err := col.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	for _, existing := range st.collections {
		if existing.UserID == col.UserID && existing.Title == col.Title && existing.Language == col.Language {
			return store.ErrCollectionExists
		}
	}
	cp := *col
	st.collections[col.ID] = &cp
	return nil
}

func (s collectionStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Collection, error) {
	st, done, err := s.c.enter("Collections.GetByID")
	if err != nil {
		return nil, err
	}
	defer done()
	col, ok := st.collections[id]
	if !ok {
		return nil, store.ErrCollectionNotFound
	}
	cp := *col
	return &cp, nil
}

func (s collectionStore) FindByTitle(
	_ context.Context,
	userID uuid.UUID,
	title, language string,
) (*domain.Collection, error) {
	st, done, err := s.c.enter("Collections.FindByTitle")
	if err != nil {
		return nil, err
	}
	defer done()
	for _, col := range st.collections {
		if col.UserID == userID && col.Title == title && col.Language == language {
			cp := *col
			return &cp, nil
		}
	}
	return nil, store.ErrCollectionNotFound
}

func (s collectionStore) FindOrCreate(
	_ context.Context,
	col *domain.Collection,
) (*domain.Collection, bool, error) {
	st, done, err := s.c.enter("Collections.FindOrCreate")
	if err != nil {
		return nil, false, err
	}
	defer done()
	if err := col.Validate(); err != nil {
		return nil, false, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	for _, existing := range st.collections {
		if existing.UserID == col.UserID && existing.Title == col.Title && existing.Language == col.Language {
			cp := *existing
			return &cp, false, nil
		}
	}
	cp := *col
	st.collections[col.ID] = &cp
	return col, true, nil
}

func (s collectionStore) Touch(_ context.Context, ids ...uuid.UUID) error {
	st, done, err := s.c.enter("Collections.Touch")
	if err != nil {
		return err
	}
	defer done()
	now := s.c.db.now()
	for _, id := range ids {
		if col, ok := st.collections[id]; ok {
			col.UpdatedAt = now
		}
	}
	return nil
}

type postStore struct{ c conn }

func (s postStore) Create(_ context.Context, post *domain.PublishedPost) error {
	st, done, err := s.c.enter("Posts.Create")
	if err != nil {
		return err
	}
	defer done()
	if err := post.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	if _, ok := st.items[post.OriginItemID]; !ok {
		return fkError("post origin item")
	}
	for _, existing := range st.posts {
		if existing.OriginItemID == post.OriginItemID {
			return store.ErrPostExists
		}
	}
	st.posts[post.ID] = copyPost(post)
	return nil
}

func (s postStore) GetByID(_ context.Context, id uuid.UUID) (*domain.PublishedPost, error) {
	st, done, err := s.c.enter("Posts.GetByID")
	if err != nil {
		return nil, err
	}
	defer done()
	p, ok := st.posts[id]
	if !ok {
		return nil, store.ErrPostNotFound
	}
	return copyPost(p), nil
}

func (s postStore) GetByOriginItem(_ context.Context, itemID uuid.UUID) (*domain.PublishedPost, error) {
	st, done, err := s.c.enter("Posts.GetByOriginItem")
	if err != nil {
		return nil, err
	}
	defer done()
	for _, p := range st.posts {
		if p.OriginItemID == itemID {
			return copyPost(p), nil
		}
	}
	return nil, store.ErrPostNotFound
}

func (s postStore) Delete(_ context.Context, id uuid.UUID) error {
	st, done, err := s.c.enter("Posts.Delete")
	if err != nil {
		return err
	}
	defer done()
	if _, ok := st.posts[id]; !ok {
		return store.ErrPostNotFound
	}
	for _, it := range st.items {
		if it.OriginPostID != nil && *it.OriginPostID == id {
			return fkError("content item references post")
		}
	}
	delete(st.posts, id)
	for rid, r := range st.imports {
		if r.PostID == id {
			delete(st.imports, rid)
		}
	}
	return nil
}

func (s postStore) IncrementImportCount(_ context.Context, id uuid.UUID) error {
	st, done, err := s.c.enter("Posts.IncrementImportCount")
	if err != nil {
		return err
	}
	defer done()
	p, ok := st.posts[id]
	if !ok {
		return store.ErrPostNotFound
	}
	p.ImportCount++
	p.UpdatedAt = s.c.db.now()
	return nil
}

func (s postStore) DecrementImportCount(_ context.Context, id uuid.UUID) error {
	st, done, err := s.c.enter("Posts.DecrementImportCount")
	if err != nil {
		return err
	}
	defer done()
	if p, ok := st.posts[id]; ok && p.ImportCount > 0 {
		p.ImportCount--
		p.UpdatedAt = s.c.db.now()
	}
	return nil
}

func (s postStore) SetArtifactIfEmpty(
	_ context.Context,
	id uuid.UUID,
	variant domain.ArtifactVariant,
	artifact domain.Artifact,
) (bool, error) {
	st, done, err := s.c.enter("Posts.SetArtifactIfEmpty")
	if err != nil {
		return false, err
	}
	defer done()
	if err := checkArtifact(variant, artifact); err != nil {
		return false, err
	}
	p, ok := st.posts[id]
	if !ok {
		return false, nil
	}
	if _, present := p.Artifacts.Get(variant); present {
		return false, nil
	}
	if p.Artifacts == nil {
		p.Artifacts = domain.Artifacts{}
	}
	p.Artifacts.Set(variant, cloneArtifact(artifact))
	p.UpdatedAt = s.c.db.now()
	return true, nil
}

func (s postStore) ListImportable(
	_ context.Context,
	userID uuid.UUID,
	label, language string,
) ([]*domain.PublishedPost, error) {
	st, done, err := s.c.enter("Posts.ListImportable")
	if err != nil {
		return nil, err
	}
	defer done()
	imported := map[uuid.UUID]bool{}
	for _, r := range st.imports {
		if r.UserID == userID {
			imported[r.PostID] = true
		}
	}
	var out []*domain.PublishedPost
	for _, p := range st.posts {
		if !p.IsActive || p.Label != label || p.Language != language || p.CreatorID == userID || imported[p.ID] {
			continue
		}
		out = append(out, copyPost(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

type importStore struct{ c conn }

func (s importStore) Create(_ context.Context, rec *domain.ImportRecord) error {
	st, done, err := s.c.enter("Imports.Create")
	if err != nil {
		return err
	}
	defer done()
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	if _, ok := st.posts[rec.PostID]; !ok {
		return fkError("import record post")
	}
	if _, ok := st.items[rec.ImportedItemID]; !ok {
		return fkError("import record item")
	}
	for _, existing := range st.imports {
		if existing.UserID == rec.UserID && existing.PostID == rec.PostID {
			return store.ErrImportExists
		}
		if existing.ImportedItemID == rec.ImportedItemID {
			return fmt.Errorf("%w: imported item already recorded", store.ErrDuplicate)
		}
	}
	st.imports[rec.ID] = copyRecord(rec)
	return nil
}

func (s importStore) Exists(_ context.Context, userID, postID uuid.UUID) (bool, error) {
	st, done, err := s.c.enter("Imports.Exists")
	if err != nil {
		return false, err
	}
	defer done()
	for _, r := range st.imports {
		if r.UserID == userID && r.PostID == postID {
			return true, nil
		}
	}
	return false, nil
}

func (s importStore) CountImporters(_ context.Context, postID uuid.UUID) (int, error) {
	st, done, err := s.c.enter("Imports.CountImporters")
	if err != nil {
		return 0, err
	}
	defer done()
	users := map[uuid.UUID]struct{}{}
	for _, r := range st.imports {
		if r.PostID == postID {
			users[r.UserID] = struct{}{}
		}
	}
	return len(users), nil
}

type streakStore struct{ c conn }

func (s streakStore) Get(_ context.Context, userID uuid.UUID) (*domain.StreakState, error) {
	st, done, err := s.c.enter("Streaks.Get")
	if err != nil {
		return nil, err
	}
	defer done()
	ss, ok := st.streaks[userID]
	if !ok {
		return nil, store.ErrStreakNotFound
	}
	return copyStreak(ss), nil
}

func (s streakStore) CompareAndSwap(
	_ context.Context,
	next *domain.StreakState,
	prevLast *time.Time,
) (bool, error) {
	st, done, err := s.c.enter("Streaks.CompareAndSwap")
	if err != nil {
		return false, err
	}
	defer done()
	cur, ok := st.streaks[next.UserID]
	switch {
	case prevLast == nil && ok && cur.LastActivityDate != nil:
		return false, nil
	case prevLast != nil && (!ok || cur.LastActivityDate == nil || !cur.LastActivityDate.Equal(*prevLast)):
		return false, nil
	}
	st.streaks[next.UserID] = copyStreak(next)
	return true, nil
}

func checkArtifact(variant domain.ArtifactVariant, art domain.Artifact) error {
	if !variant.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidVariant, variant)
	}
	if art.IsEmpty() {
		return fmt.Errorf("%w: empty %s artifact", store.ErrInvalidEntity, variant)
	}
	return nil
}

func dropMemberships(ms []membership, drop func(membership) bool) []membership {
	out := ms[:0]
	for _, m := range ms {
		if !drop(m) {
			out = append(out, m)
		}
	}
	return out
}

func cloneArtifact(a domain.Artifact) domain.Artifact {
	if a.Data != nil {
		a.Data = append([]byte(nil), a.Data...)
	}
	return a
}
