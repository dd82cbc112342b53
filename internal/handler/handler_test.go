package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/repository"
	"github.com/vaultpass/passgen-go/internal/service"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	store := repository.NewMemorySessionStore(0)
	t.Cleanup(func() { store.Close() })
	return newTestRouterWithStore(store)
}

func newTestRouterWithStore(store service.SessionStore) http.Handler {
	return NewRouter(RouterConfig{
		Generator:     NewGeneratorHandler(service.NewGeneratorService(nil)),
		Sessions:      NewSessionHandler(service.NewSessionService(store, nil, testSecret, time.Hour)),
		SessionSecret: testSecret,
	})
}

func do(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestHandleGenerate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantLength int
		allowed    string
	}{
		{"empty body uses defaults", "", http.StatusOK, 12, ""},
		{"empty object uses defaults", "{}", http.StatusOK, 12, ""},
		{"uppercase and numbers", `{"length":8,"classes":["uppercase","numbers"]}`, http.StatusOK, 8, "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"},
		{"single symbol", `{"length":1,"classes":["symbols"]}`, http.StatusOK, 1, "!@#$%^&*()_+[]{}|;:,.<>?"},
		{"length too long", `{"length":33}`, http.StatusBadRequest, 0, ""},
		{"length zero", `{"length":0}`, http.StatusBadRequest, 0, ""},
		{"no classes", `{"classes":[]}`, http.StatusBadRequest, 0, ""},
		{"unknown class", `{"classes":["emoji"]}`, http.StatusBadRequest, 0, ""},
		{"malformed json", `{"length":`, http.StatusBadRequest, 0, ""},
	}

	h := newTestRouter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/generate", "", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantStatus != http.StatusOK {
				assert.NotEmpty(t, decode[map[string]string](t, rec)["error"])
				return
			}

			resp := decode[model.GenerateResponse](t, rec)
			assert.Len(t, resp.Password, tt.wantLength)
			assert.Equal(t, tt.wantLength, resp.Length)
			if tt.allowed != "" {
				for _, ch := range resp.Password {
					assert.Contains(t, tt.allowed, string(ch))
				}
			}
		})
	}
}

func TestHandleGenerateBodyTooLarge(t *testing.T) {
	body := `{"classes":["` + strings.Repeat("x", 2<<20) + `"]}`
	rec := do(t, newTestRouter(t), http.MethodPost, "/api/v1/generate", "", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestSessionLifecycle(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/v1/sessions", "", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[model.CreateSessionResponse](t, rec)
	require.NotEmpty(t, created.Token)
	assert.Equal(t, 12, created.Session.Length)
	assert.Equal(t, []string{"uppercase", "lowercase", "numbers", "symbols"}, created.Session.Classes)
	assert.Len(t, created.Session.Password, 12)

	token := created.Token

	rec = do(t, h, http.MethodGet, "/api/v1/session", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.Session.Password, decode[model.SessionResponse](t, rec).Password)

	rec = do(t, h, http.MethodPatch, "/api/v1/session/config", token, `{"classes":["numbers"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[model.SessionResponse](t, rec)
	assert.Equal(t, []string{"numbers"}, updated.Classes)
	assert.Equal(t, 12, updated.Length)
	for _, ch := range updated.Password {
		assert.Contains(t, "0123456789", string(ch))
	}

	rec = do(t, h, http.MethodPatch, "/api/v1/session/config", token, `{"length":20}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated = decode[model.SessionResponse](t, rec)
	assert.Len(t, updated.Password, 20)
	assert.Equal(t, []string{"numbers"}, updated.Classes)

	rec = do(t, h, http.MethodPost, "/api/v1/session/regenerate", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	regenerated := decode[model.SessionResponse](t, rec)
	assert.Equal(t, updated.Length, regenerated.Length)
	assert.Equal(t, updated.Classes, regenerated.Classes)
	assert.NotEqual(t, updated.Password, regenerated.Password)

	rec = do(t, h, http.MethodPatch, "/api/v1/session/config", token, `{"classes":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/v1/session", token, "")
	assert.Equal(t, regenerated.Password, decode[model.SessionResponse](t, rec).Password, "rejected change must not regenerate")

	rec = do(t, h, http.MethodDelete, "/api/v1/session", token, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/session", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// lapsingStore accepts the first Save and then reports the session gone,
// as a store with key TTLs does when a session lapses mid-request.
type lapsingStore struct {
	*repository.MemorySessionStore
	saved bool
}

func (l *lapsingStore) Save(ctx context.Context, state *model.SessionState) error {
	if l.saved {
		return repository.ErrSessionNotFound
	}
	l.saved = true
	return l.MemorySessionStore.Save(ctx, state)
}

func TestSessionLapsedDuringSave(t *testing.T) {
	mem := repository.NewMemorySessionStore(0)
	t.Cleanup(func() { mem.Close() })
	h := newTestRouterWithStore(&lapsingStore{MemorySessionStore: mem})

	rec := do(t, h, http.MethodPost, "/api/v1/sessions", "", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	token := decode[model.CreateSessionResponse](t, rec).Token

	rec = do(t, h, http.MethodPost, "/api/v1/session/regenerate", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPatch, "/api/v1/session/config", token, `{"length":8}`)
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
}

func TestSessionRoutesRequireToken(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/v1/session", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/session/regenerate", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateConfigRequiresBody(t *testing.T) {
	h := newTestRouter(t)
	created := decode[model.CreateSessionResponse](t, do(t, h, http.MethodPost, "/api/v1/sessions", "", ""))

	rec := do(t, h, http.MethodPatch, "/api/v1/session/config", created.Token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionRoutesAbsentWithoutSessions(t *testing.T) {
	h := NewRouter(RouterConfig{Generator: NewGeneratorHandler(service.NewGeneratorService(nil))})

	rec := do(t, h, http.MethodPost, "/api/v1/sessions", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/generate", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
