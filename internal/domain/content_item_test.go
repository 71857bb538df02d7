package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewContentItem(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	item, err := NewContentItem(userID, "ja", "good morning", "おはよう")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if item.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if item.Source != ContentSourceUser {
		t.Errorf("Expected source %s, got %s", ContentSourceUser, item.Source)
	}
	if item.OriginPostID != nil {
		t.Error("Expected no origin post for a user item")
	}
	if item.Artifacts == nil {
		t.Error("Expected an initialized artifact map")
	}

	_, err = NewContentItem(uuid.Nil, "ja", "a", "b")
	if err != ErrEmptyContentItemUserID {
		t.Errorf("Expected error %v, got %v", ErrEmptyContentItemUserID, err)
	}

	_, err = NewContentItem(userID, "ja", "", "")
	if err != ErrEmptyContentItemText {
		t.Errorf("Expected error %v, got %v", ErrEmptyContentItemText, err)
	}
}

func TestNewImportedContentItemCopiesPost(t *testing.T) {
	t.Parallel()

	origin, err := NewContentItem(uuid.New(), "es", "hello", "hola")
	if err != nil {
		t.Fatal(err)
	}
	origin.Artifacts.Set(VariantAudio, Artifact{Data: []byte{1, 2, 3}, MIMEType: "audio/wav"})
	origin.Artifacts.Set(VariantPhonetic, Artifact{Text: "ˈola"})

	post, err := NewPublishedPost(origin, "ana", "travel")
	if err != nil {
		t.Fatal(err)
	}

	importer := uuid.New()
	item, err := NewImportedContentItem(importer, post)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if item.UserID != importer {
		t.Errorf("Expected owner %s, got %s", importer, item.UserID)
	}
	if !item.IsImported() {
		t.Error("Expected imported item")
	}
	if item.OriginPostID == nil || *item.OriginPostID != post.ID {
		t.Errorf("Expected origin post %s", post.ID)
	}
	if got, ok := item.Artifacts.Get(VariantPhonetic); !ok || got.Text != "ˈola" {
		t.Errorf("Expected phonetic artifact to be copied, got %+v", got)
	}

	// The copy must not alias the post's audio bytes.
	post.Artifacts[VariantAudio].Data[0] = 9
	if got, _ := item.Artifacts.Get(VariantAudio); got.Data[0] != 1 {
		t.Error("Expected audio bytes to be deep copied")
	}
}

func TestContentItemValidateImportedNeedsOrigin(t *testing.T) {
	t.Parallel()

	item := ContentItem{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		SourceText: "x",
		Source:     ContentSourceImported,
	}
	if err := item.Validate(); err != ErrImportedItemNoOrigin {
		t.Errorf("Expected error %v, got %v", ErrImportedItemNoOrigin, err)
	}

	item.Source = "scraped"
	if err := item.Validate(); err != ErrInvalidContentSource {
		t.Errorf("Expected error %v, got %v", ErrInvalidContentSource, err)
	}
}
