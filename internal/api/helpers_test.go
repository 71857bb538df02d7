package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/glossa-api/internal/api"
	"github.com/phrazzld/glossa-api/internal/api/middleware"
	"github.com/phrazzld/glossa-api/internal/domain"
	"github.com/phrazzld/glossa-api/internal/mocks"
	"github.com/phrazzld/glossa-api/internal/platform/logger"
	"github.com/phrazzld/glossa-api/internal/service"
	"github.com/phrazzld/glossa-api/internal/testutils/memstore"
	"github.com/stretchr/testify/require"
)

const testSecret = "api-test-secret-with-at-least-32-chars"

type apiFixture struct {
	db     *memstore.DB
	gen    *mocks.MockGenerator
	logs   *logger.TestLogBuffer
	router http.Handler
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	log, buf := logger.GetTestLogger(t)
	db := memstore.New()
	stores := db.Stores()
	gen := mocks.NewMockGeneratorWithText("generated")

	streaks, err := service.NewStreakService(stores.Streaks, nil, log)
	require.NoError(t, err)
	sharing, err := service.NewSharingService(db, stores, service.SharingOptions{DefaultLabel: "General"}, log)
	require.NoError(t, err)
	imports, err := service.NewImportService(db, stores, streaks, service.ImportOptions{BatchSize: 2}, log)
	require.NoError(t, err)
	deletion, err := service.NewDeletionService(db, stores, log)
	require.NoError(t, err)
	derivation, err := service.NewDerivationService(stores, gen, log)
	require.NoError(t, err)
	verifier, err := middleware.NewJWTVerifier(testSecret)
	require.NoError(t, err)

	return &apiFixture{
		db:   db,
		gen:  gen,
		logs: buf,
		router: api.NewRouter(api.RouterConfig{
			Logger:    log,
			Verifier:  verifier,
			Items:     api.NewItemHandler(sharing, deletion, log),
			Imports:   api.NewImportHandler(imports, log),
			Artifacts: api.NewArtifactHandler(derivation, log),
			Streaks:   api.NewStreakHandler(streaks, log),
		}),
	}
}

func (f *apiFixture) user(t *testing.T, alias string) *domain.User {
	t.Helper()
	u := &domain.User{ID: uuid.New(), DisplayName: alias, PublicAlias: alias, Language: "es"}
	f.db.AddUser(u)
	return u
}

func (f *apiFixture) item(t *testing.T, owner *domain.User, source, translated string) *domain.ContentItem {
	t.Helper()
	item, err := domain.NewContentItem(owner.ID, owner.Language, source, translated)
	require.NoError(t, err)
	require.NoError(t, f.db.Stores().Items.Create(context.Background(), item))
	return item
}

// do sends a request as user (nil for anonymous) and returns the recorder.
func (f *apiFixture) do(t *testing.T, user *domain.User, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req.Header.Set("Authorization", "Bearer "+token(t, user.ID))
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	now := time.Now()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return tok
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type errorBody struct {
	Kind      string `json:"kind"`
	Error     string `json:"error"`
	RequestID string `json:"request_id"`
}
