package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/glossa-api/internal/domain"
	"github.com/phrazzld/glossa-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestPublish_CopiesContentAndArtifacts(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", "es")
	item := f.item(t, alice, "good morning", "buenos días")
	for _, v := range domain.AllVariants {
		art := domain.Artifact{Text: "text for " + string(v)}
		if v == domain.VariantAudio {
			art = domain.Artifact{Data: []byte{7, 7}, MIMEType: "audio/wav"}
		}
		_, err := f.stores.Items.SetArtifactIfEmpty(ctx, item.ID, v, art)
		require.NoError(t, err)
	}
	favorites := f.collection(t, alice, "Favorites")
	travel := f.collection(t, alice, "travel")
	f.addTo(t, item, favorites)
	f.addTo(t, item, travel)

	post, err := f.sharing.Publish(ctx, alice.ID, item.ID)
	require.NoError(t, err)

	assert.Equal(t, "travel", post.Label)
	assert.Equal(t, "alice", post.CreatorName)
	assert.Equal(t, item.ID, post.OriginItemID)
	assert.Equal(t, "buenos días", post.TranslatedText)
	assert.Equal(t, 0, post.ImportCount)
	assert.True(t, post.IsActive)

	stored := f.db.Post(post.ID)
	require.NotNil(t, stored)
	assert.Len(t, stored.Artifacts, 4)
	audio, ok := stored.Artifacts.Get(domain.VariantAudio)
	require.True(t, ok)
	assert.Equal(t, []byte{7, 7}, audio.Data)
}

func TestPublish_LabelPrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		titles []string
		want   string
	}{
		{"only reserved collection", []string{"Saved"}, "Saved"},
		{"no collection", nil, "General"},
		{"first non-reserved", []string{"All", "verbs", "food"}, "verbs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			u := f.user(t, "u", "fr")
			item := f.item(t, u, "hello", "bonjour")
			for _, title := range tt.titles {
				f.addTo(t, item, f.collection(t, u, title))
			}

			post := f.publish(t, u, item)
			assert.Equal(t, tt.want, post.Label)
		})
	}
}

func TestPublish_Preconditions(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", "es")
	anon := f.user(t, "", "es")
	bob := f.user(t, "bob", "es")
	item := f.item(t, alice, "yes", "sí")
	anonItem := f.item(t, anon, "no", "no")

	_, err := f.sharing.Publish(ctx, anon.ID, anonItem.ID)
	assert.ErrorIs(t, err, service.ErrNoPublicAlias)
	assert.Equal(t, service.KindValidation, service.KindOf(err))

	_, err = f.sharing.Publish(ctx, alice.ID, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = f.sharing.Publish(ctx, bob.ID, item.ID)
	assert.ErrorIs(t, err, service.ErrNotOwner)

	_, err = f.sharing.Publish(ctx, uuid.New(), item.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	f.publish(t, alice, item)
	_, err = f.sharing.Publish(ctx, alice.ID, item.ID)
	assert.ErrorIs(t, err, service.ErrAlreadyShared)
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestPublish_ConcurrentCallsCreateOnePost(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	alice := f.user(t, "alice", "de")
	item := f.item(t, alice, "thanks", "danke")

	const callers = 8
	results := make([]error, callers)
	var g errgroup.Group
	for i := 0; i < callers; i++ {
		g.Go(func() error {
			_, results[i] = f.sharing.Publish(context.Background(), alice.ID, item.ID)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, service.ErrAlreadyShared)
	}
	assert.Equal(t, 1, succeeded)
}
