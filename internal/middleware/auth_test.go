package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"goatmeter-be/internal/domain"
	"goatmeter-be/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthService struct {
	identity *domain.UserIdentity
	err      error
}

func (s *stubAuthService) ValidateToken(ctx context.Context, token string) (*domain.UserIdentity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.identity, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "test")
	require.NoError(t, err)
	return log
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		authErr    error
		wantStatus int
		wantUser   string
	}{
		{
			name:       "valid bearer token",
			authHeader: "Bearer ya29.sometoken",
			wantStatus: http.StatusOK,
			wantUser:   "user-1",
		},
		{
			name:       "missing header",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "empty token",
			authHeader: "Bearer ",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "validation failure",
			authHeader: "Bearer bad-token",
			authErr:    errors.New("invalid"),
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authService := &stubAuthService{
				identity: &domain.UserIdentity{Sub: "user-1"},
				err:      tt.authErr,
			}

			var gotUser string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if identity := UserFromContext(r.Context()); identity != nil {
					gotUser = identity.Sub
				}
				w.WriteHeader(http.StatusOK)
			})

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				r.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			Auth(authService, testLogger(t))(next).ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantUser, gotUser)
		})
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	authService := &stubAuthService{identity: &domain.UserIdentity{Sub: "user-1"}}

	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Nil(t, UserFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	})

	// Anonymous request passes straight through.
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	OptionalAuth(authService, testLogger(t))(next).ServeHTTP(w, r)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuthMiddleware_WithToken(t *testing.T) {
	authService := &stubAuthService{identity: &domain.UserIdentity{Sub: "user-1"}}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := UserFromContext(r.Context())
		require.NotNil(t, identity)
		assert.Equal(t, "user-1", identity.Sub)
		w.WriteHeader(http.StatusOK)
	})

	// A supplied token is validated and the identity injected.
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer ya29.sometoken")
	w := httptest.NewRecorder()
	OptionalAuth(authService, testLogger(t))(next).ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)

	// A supplied but invalid token is still rejected.
	authService.err = errors.New("invalid")
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer bad-token")
	w = httptest.NewRecorder()
	OptionalAuth(authService, testLogger(t))(next).ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := r.Context().Value(RequestIDContextKey).(string)
		assert.NotEmpty(t, id)
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	RequestID()(next).ServeHTTP(w, r)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	// A caller-supplied id is preserved.
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-ID", "fixed-id")
	w = httptest.NewRecorder()
	RequestID()(next).ServeHTTP(w, r)

	assert.Equal(t, "fixed-id", w.Header().Get("X-Request-ID"))
}
