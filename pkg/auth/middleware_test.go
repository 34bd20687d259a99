package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRequireAuthSetsContext(t *testing.T) {
	svc := NewAuthService(&mockJWKSClient{claims: validClaims()}, zap.NewNop())
	m := NewMiddleware(svc, zap.NewNop())

	var gotActor Actor
	handler := m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r.Context())
		require.True(t, ok)
		gotActor = actor

		token, ok := GetToken(r.Context())
		require.True(t, ok)
		assert.Equal(t, "some-token", token)

		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/technologies", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", gotActor.ID)
	assert.Equal(t, "alice", gotActor.Name)
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	svc := NewAuthService(&mockJWKSClient{claims: validClaims()}, zap.NewNop())
	m := NewMiddleware(svc, zap.NewNop())

	called := false
	handler := m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodPost, "/technologies", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
	assert.Contains(t, rec.Body.String(), "unauthorized")
}

func TestOptionalAuthAttachesClaimsWhenPresent(t *testing.T) {
	svc := NewAuthService(&mockJWKSClient{claims: validClaims()}, zap.NewNop())
	m := NewMiddleware(svc, zap.NewNop())

	var hadActor bool
	handler := m.OptionalAuth(func(w http.ResponseWriter, r *http.Request) {
		_, hadActor = GetActor(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/technologies", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, hadActor)
}

func TestOptionalAuthNeverRejects(t *testing.T) {
	svc := NewAuthService(&mockJWKSClient{claims: validClaims()}, zap.NewNop())
	m := NewMiddleware(svc, zap.NewNop())

	var hadActor bool
	handler := m.OptionalAuth(func(w http.ResponseWriter, r *http.Request) {
		_, hadActor = GetActor(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/technologies", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, hadActor)
}
