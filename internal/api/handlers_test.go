package api_test

import (
	"encoding/base64"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/glossa-api/internal/api"
	"github.com/phrazzld/glossa-api/internal/domain"
	"github.com/phrazzld/glossa-api/internal/generation"
	"github.com/phrazzld/glossa-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	rec := f.do(t, nil, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestAPIRequiresToken(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	rec := f.do(t, nil, http.MethodPost, "/api/items/"+uuid.NewString()+"/publish", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decode[errorBody](t, rec).Kind)
}

func TestPublishAndImpact(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	item := f.item(t, alice, "hola", "hello")
	base := "/api/items/" + item.ID.String()

	rec := f.do(t, alice, http.MethodPost, base+"/publish", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	post := decode[domain.PublishedPost](t, rec)
	assert.Equal(t, item.ID, post.OriginItemID)
	assert.Equal(t, "alice", post.CreatorName)

	rec = f.do(t, alice, http.MethodPost, base+"/publish", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decode[errorBody](t, rec)
	assert.Equal(t, "conflict", body.Kind)
	assert.Equal(t, "Content item is already shared", body.Error)
	assert.NotEmpty(t, body.RequestID)

	rec = f.do(t, bob, http.MethodPost, "/api/posts/"+post.ID.String()+"/import", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(t, alice, http.MethodGet, base+"/impact", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.DeletionImpact{
		CanDelete: true, IsPublished: true, ImportCount: 1, ImporterCount: 1,
	}, decode[service.DeletionImpact](t, rec))

	rec = f.do(t, bob, http.MethodGet, base+"/impact", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[service.DeletionImpact](t, rec).CanDelete)

	rec = f.do(t, alice, http.MethodGet, "/api/items/not-a-uuid/impact", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid itemID", decode[errorBody](t, rec).Error)
}

func TestDeleteItem(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	item := f.item(t, alice, "adiós", "goodbye")
	path := "/api/items/" + item.ID.String()

	rec := f.do(t, bob, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "not_owner", decode[errorBody](t, rec).Kind)

	rec = f.do(t, alice, http.MethodDelete, path, map[string]any{"memberships": []string{"nope"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorBody](t, rec).Error, "memberships")

	rec = f.do(t, alice, http.MethodDelete, path, map[string]any{"memberships": []string{uuid.NewString()}})
	assert.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	assert.Nil(t, f.db.Item(item.ID))

	rec = f.do(t, alice, http.MethodGet, path+"/impact", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestImportOneErrors(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	item := f.item(t, alice, "gato", "cat")
	rec := f.do(t, alice, http.MethodPost, "/api/items/"+item.ID.String()+"/publish", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	post := decode[domain.PublishedPost](t, rec)
	path := "/api/posts/" + post.ID.String() + "/import"

	tests := []struct {
		name       string
		user       *domain.User
		path       string
		body       any
		wantStatus int
		wantKind   string
	}{
		{"own post", alice, path, nil, http.StatusConflict, "conflict"},
		{"missing post", bob, "/api/posts/" + uuid.NewString() + "/import", nil, http.StatusNotFound, "not_found"},
		{"bad timezone", bob, path, map[string]string{"timezone": "Nowhere/Land"}, http.StatusBadRequest, "validation"},
		{"bad collection", bob, path, map[string]string{"collection_id": "x"}, http.StatusBadRequest, "validation"},
		{"unknown field", bob, path, `{"folder":"x"}`, http.StatusBadRequest, "validation"},
		{"missing collection", bob, path, map[string]string{"collection_id": uuid.NewString()}, http.StatusNotFound, "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, tt.user, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantKind, decode[errorBody](t, rec).Kind)
		})
	}
	assert.Equal(t, 0, f.db.Post(post.ID).ImportCount)
}

func TestImportAll(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (*apiFixture, *domain.User) {
		f := newAPIFixture(t)
		alice := f.user(t, "alice")
		for _, w := range []string{"uno", "dos", "tres"} {
			item := f.item(t, alice, w, w+"!")
			rec := f.do(t, alice, http.MethodPost, "/api/items/"+item.ID.String()+"/publish", nil)
			require.Equal(t, http.StatusCreated, rec.Code)
		}
		return f, f.user(t, "bob")
	}

	t.Run("all batches", func(t *testing.T) {
		t.Parallel()
		f, bob := setup(t)
		rec := f.do(t, bob, http.MethodPost, "/api/posts/import", map[string]string{"label": "General", "timezone": "Europe/Madrid"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		res := decode[service.BulkImportResult](t, rec)
		assert.Len(t, res.Imported, 3)
		assert.True(t, res.CollectionCreated)
		require.NotNil(t, res.Streak)
		assert.Equal(t, 1, res.Streak.CurrentStreak)
	})

	t.Run("missing label", func(t *testing.T) {
		t.Parallel()
		f, bob := setup(t)
		rec := f.do(t, bob, http.MethodPost, "/api/posts/import", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid label: required field", decode[errorBody](t, rec).Error)
	})

	t.Run("partial failure", func(t *testing.T) {
		t.Parallel()
		f, bob := setup(t)
		f.db.FailOnCall("Posts.IncrementImportCount", 3, errors.New("connection reset"))

		rec := f.do(t, bob, http.MethodPost, "/api/posts/import", map[string]string{"label": "General"})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decode[struct {
			Kind    string                    `json:"kind"`
			Partial *service.BulkImportResult `json:"partial"`
		}](t, rec)
		assert.Equal(t, "persistence", body.Kind)
		require.NotNil(t, body.Partial)
		assert.Len(t, body.Partial.Imported, 2)
		assert.NotContains(t, rec.Body.String(), "connection reset")
	})
}

func TestArtifacts(t *testing.T) {
	t.Parallel()

	t.Run("text artifact is cached on the item", func(t *testing.T) {
		t.Parallel()
		f := newAPIFixture(t)
		alice := f.user(t, "alice")
		item := f.item(t, alice, "buenos días", "good morning")

		req := api.ArtifactRequest{
			OwnerKind: "content_item",
			EntityID:  item.ID.String(),
			Variant:   "breakdown_desktop",
			Text:      "buenos días",
		}
		rec := f.do(t, alice, http.MethodPost, "/api/artifacts", req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, api.ArtifactResponse{Variant: "breakdown_desktop", Text: "generated"},
			decode[api.ArtifactResponse](t, rec))

		_, cached := f.db.Item(item.ID).Artifacts.Get(domain.VariantBreakdownDesktop)
		assert.True(t, cached)
	})

	t.Run("audio is base64", func(t *testing.T) {
		t.Parallel()
		f := newAPIFixture(t)
		f.gen.Artifact = domain.Artifact{Data: []byte{0x52, 0x49, 0x46, 0x46}, MIMEType: "audio/wav"}
		alice := f.user(t, "alice")

		rec := f.do(t, alice, http.MethodPost, "/api/artifacts", api.ArtifactRequest{
			OwnerKind: "content_item",
			Variant:   "audio",
			Text:      "hola",
			Language:  "es",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decode[api.ArtifactResponse](t, rec)
		assert.Equal(t, "audio/wav", resp.MIMEType)
		raw, err := base64.StdEncoding.DecodeString(resp.Audio)
		require.NoError(t, err)
		assert.Equal(t, []byte("RIFF"), raw)
	})

	t.Run("provider failure", func(t *testing.T) {
		t.Parallel()
		f := newAPIFixture(t)
		f.gen.Err = generation.ErrTransientFailure
		alice := f.user(t, "alice")

		rec := f.do(t, alice, http.MethodPost, "/api/artifacts", api.ArtifactRequest{
			OwnerKind: "published_post",
			Variant:   "phonetic",
			Text:      "hola",
		})
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "external_provider", decode[errorBody](t, rec).Kind)
	})

	t.Run("unknown variant", func(t *testing.T) {
		t.Parallel()
		f := newAPIFixture(t)
		alice := f.user(t, "alice")

		rec := f.do(t, alice, http.MethodPost, "/api/artifacts", api.ArtifactRequest{
			OwnerKind: "content_item",
			Variant:   "poster",
			Text:      "hola",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid variant: invalid value", decode[errorBody](t, rec).Error)
		assert.Zero(t, f.gen.CallCount())
	})
}

func TestStreakActivity(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t)
	alice := f.user(t, "alice")

	rec := f.do(t, alice, http.MethodPost, "/api/streak/activity", map[string]string{"timezone": "Asia/Tokyo"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	update := decode[domain.StreakUpdate](t, rec)
	assert.Equal(t, 1, update.CurrentStreak)
	assert.True(t, update.IsNewStreak)

	rec = f.do(t, alice, http.MethodPost, "/api/streak/activity", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[domain.StreakUpdate](t, rec).IsNewStreak)

	rec = f.do(t, alice, http.MethodPost, "/api/streak/activity", map[string]string{"timezone": "Moon/Base"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
