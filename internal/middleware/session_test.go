package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"resumehub/internal/config"
	"resumehub/internal/domain"
	"resumehub/internal/modules/session"
	"resumehub/internal/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memStore is an in-memory RevocationStore for middleware tests.
type memStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func newMemStore() *memStore {
	return &memStore{entries: map[string]time.Time{}}
}

func (s *memStore) Revoke(_ context.Context, credential, _ string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[credential]; !ok {
		s.entries[credential] = expiresAt
	}
	return nil
}

func (s *memStore) IsRevoked(_ context.Context, credential string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[credential]
	return ok, nil
}

func (s *memStore) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for cred, exp := range s.entries {
		if !exp.After(now) {
			delete(s.entries, cred)
			n++
		}
	}
	return n, nil
}

type memUsers struct {
	users map[string]*domain.User
}

func (m *memUsers) FindActiveByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type gateFixture struct {
	clock  time.Time
	tokens *token.Service
	store  *memStore
	router *gin.Engine
}

func setupGate(t *testing.T) *gateFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &gateFixture{
		clock: time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC),
		store: newMemStore(),
	}
	f.tokens = token.New(token.Config{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		TimeFunc:      func() time.Time { return f.clock },
	})
	users := &memUsers{users: map[string]*domain.User{
		"u1": {ID: "u1", Email: "u1@x.com"},
	}}
	sessions := session.NewService(f.tokens, f.store, users, nil)
	cfg := &config.SessionRuntimeConfig{
		RefreshTTL:     7 * 24 * time.Hour,
		CookieSameSite: "Lax",
		CookiePath:     "/api/v1/auth",
	}

	f.router = gin.New()
	f.router.Use(SessionGate(sessions, cfg))
	f.router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("user_id"),
			"email":   c.GetString("email"),
		})
	})
	return f
}

func TestSessionGate_ValidToken(t *testing.T) {
	f := setupGate(t)
	pair, err := f.tokens.IssuePair("u1", "u1@x.com")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u1@x.com")
	assert.Empty(t, w.Header().Get("X-New-Access-Token"))
}

func TestSessionGate_NoToken(t *testing.T) {
	f := setupGate(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "NO_TOKEN")
}

func TestSessionGate_ExpiredWithoutRefresh(t *testing.T) {
	f := setupGate(t)
	pair, err := f.tokens.IssuePair("u1", "u1@x.com")
	require.NoError(t, err)

	f.clock = f.clock.Add(16 * time.Minute)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
}

func TestSessionGate_TransparentRefresh(t *testing.T) {
	f := setupGate(t)
	pair, err := f.tokens.IssuePair("u1", "u1@x.com")
	require.NoError(t, err)

	f.clock = f.clock.Add(16 * time.Minute)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: pair.RefreshToken})
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u1")

	newAccess := w.Header().Get("X-New-Access-Token")
	require.NotEmpty(t, newAccess)
	status, _ := f.tokens.Verify(newAccess, token.ClassAccess)
	assert.Equal(t, token.StatusValid, status)

	// the rotation revoked the old refresh credential
	revoked, err := f.store.IsRevoked(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.True(t, revoked)

	// and handed out a fresh cookie
	cookies := w.Result().Cookies()
	var refreshed string
	for _, ck := range cookies {
		if ck.Name == "refresh_token" {
			refreshed = ck.Value
		}
	}
	require.NotEmpty(t, refreshed)
	assert.NotEqual(t, pair.RefreshToken, refreshed)
}

func TestSessionGate_RevokedToken(t *testing.T) {
	f := setupGate(t)
	pair, err := f.tokens.IssuePair("u1", "u1@x.com")
	require.NoError(t, err)

	require.NoError(t, f.store.Revoke(context.Background(), pair.AccessToken, "u1", f.clock.Add(15*time.Minute)))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
}
