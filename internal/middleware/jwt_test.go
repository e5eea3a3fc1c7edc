package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	auth := NewAuthenticator("unit-test-secret", time.Hour)
	userID := uuid.New()

	token, err := auth.GenerateToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	auth := NewAuthenticator("unit-test-secret", time.Hour)
	other := NewAuthenticator("different-secret", time.Hour)

	token, err := auth.GenerateToken(uuid.New())
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateExpiredToken(t *testing.T) {
	auth := NewAuthenticator("unit-test-secret", -time.Minute)

	token, err := auth.GenerateToken(uuid.New())
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.Error(t, err)
}

func TestApplyJWTMiddlewareProtectedRoute(t *testing.T) {
	auth := NewAuthenticator("unit-test-secret", time.Hour)
	userID := uuid.New()

	var gotUserID uuid.UUID
	handler := auth.ApplyJWTMiddleware(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetUserIDFromContext(r.Context())
		require.True(t, ok)
		gotUserID = id
		w.WriteHeader(http.StatusOK)
	}, "/post")

	// Missing header.
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/post", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Malformed header.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/post", nil)
	req.Header.Set("Authorization", "Basic nope")
	handler(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid token.
	token, err := auth.GenerateToken(userID)
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/post", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, gotUserID)
}

func TestApplyJWTMiddlewareUnprotectedRoute(t *testing.T) {
	auth := NewAuthenticator("unit-test-secret", time.Hour)

	handler := auth.ApplyJWTMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, "/user/login")

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/user/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
