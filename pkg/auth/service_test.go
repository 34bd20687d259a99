package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockJWKSClient returns fixed claims or a fixed error.
type mockJWKSClient struct {
	claims *Claims
	err    error
}

func (m *mockJWKSClient) ValidateToken(_ string) (*Claims, error) {
	return m.claims, m.err
}

func (m *mockJWKSClient) Close() {}

func validClaims() *Claims {
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
		Name:             "alice",
	}
}

func TestValidateRequestBearerHeader(t *testing.T) {
	svc := NewAuthService(&mockJWKSClient{claims: validClaims()}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer some-token")

	claims, token, err := svc.ValidateRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "some-token", token)
}

func TestValidateRequestCookie(t *testing.T) {
	svc := NewAuthService(&mockJWKSClient{claims: validClaims()}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "cookie-token"})

	claims, token, err := svc.ValidateRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "cookie-token", token)
}

func TestValidateRequestCookieTakesPrecedence(t *testing.T) {
	svc := NewAuthService(&mockJWKSClient{claims: validClaims()}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "cookie-token"})
	req.Header.Set("Authorization", "Bearer header-token")

	_, token, err := svc.ValidateRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "cookie-token", token)
}

func TestValidateRequestMissingAuthorization(t *testing.T) {
	svc := NewAuthService(&mockJWKSClient{claims: validClaims()}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, _, err := svc.ValidateRequest(req)
	assert.ErrorIs(t, err, ErrMissingAuthorization)
}

func TestValidateRequestBadHeaderFormat(t *testing.T) {
	svc := NewAuthService(&mockJWKSClient{claims: validClaims()}, zap.NewNop())

	tests := []string{"some-token", "Basic dXNlcjpwYXNz", "Bearer"}
	for _, header := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)

		_, _, err := svc.ValidateRequest(req)
		assert.ErrorIs(t, err, ErrInvalidAuthFormat, "header %q", header)
	}
}

func TestValidateRequestInvalidToken(t *testing.T) {
	wantErr := errors.New("token validation failed")
	svc := NewAuthService(&mockJWKSClient{err: wantErr}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad-token")

	_, _, err := svc.ValidateRequest(req)
	assert.ErrorIs(t, err, wantErr)
}

func TestValidateRequestMissingSubject(t *testing.T) {
	svc := NewAuthService(&mockJWKSClient{claims: &Claims{Name: "nobody"}}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer some-token")

	_, _, err := svc.ValidateRequest(req)
	assert.ErrorIs(t, err, ErrMissingSubject)
}
