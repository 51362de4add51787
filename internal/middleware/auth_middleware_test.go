package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/hotel-admin-backend/internal/app/model"
	apperrors "github.com/ikkim/hotel-admin-backend/internal/errors"
	"github.com/ikkim/hotel-admin-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret-for-middleware"

type stubBlacklist struct {
	revoked map[string]bool
	err     error
}

func (s *stubBlacklist) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	return s.revoked[token], s.err
}

func generateTestToken(t *testing.T, userID uint, role string, expiry time.Duration) string {
	t.Helper()
	issued, err := util.GenerateToken(userID, "tester", role, testJWTSecret, expiry)
	require.NoError(t, err)
	return issued.Token
}

func setupRouter(m *AuthMiddleware, handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LoggingMiddleware())
	chain := append([]gin.HandlerFunc{m.Authenticate()}, handlers...)
	chain = append(chain, func(c *gin.Context) {
		userID, _ := GetUserID(c)
		role, _ := GetUserRole(c)
		name, _ := GetUsername(c)
		c.JSON(http.StatusOK, gin.H{"userId": userID, "role": role, "username": name})
	})
	router.GET("/test", chain...)
	return router
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apperrors.Response {
	t.Helper()
	var resp apperrors.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAuthenticate(t *testing.T) {
	valid := generateTestToken(t, 7, "merchant", time.Hour)
	expired := generateTestToken(t, 7, "merchant", -time.Minute)
	revoked := generateTestToken(t, 8, "merchant", time.Hour)

	tests := []struct {
		name      string
		legacy    bool
		headers   map[string]string
		url       string
		wantCode  int
		wantError string
	}{
		{"Bearer token", false, map[string]string{"Authorization": "Bearer " + valid}, "/test", http.StatusOK, ""},
		{"Lowercase scheme", false, map[string]string{"Authorization": "bearer " + valid}, "/test", http.StatusOK, ""},
		{"Missing header", false, nil, "/test", http.StatusUnauthorized, apperrors.AuthUnauthorized},
		{"Wrong scheme", false, map[string]string{"Authorization": "Basic abc"}, "/test", http.StatusUnauthorized, apperrors.AuthTokenInvalid},
		{"Expired token", false, map[string]string{"Authorization": "Bearer " + expired}, "/test", http.StatusUnauthorized, apperrors.AuthTokenExpired},
		{"Garbage token", false, map[string]string{"Authorization": "Bearer nope"}, "/test", http.StatusUnauthorized, apperrors.AuthTokenInvalid},
		{"Revoked token", false, map[string]string{"Authorization": "Bearer " + revoked}, "/test", http.StatusUnauthorized, apperrors.AuthTokenRevoked},
		{"Legacy header disabled", false, map[string]string{"token": valid}, "/test", http.StatusUnauthorized, apperrors.AuthUnauthorized},
		{"Legacy header enabled", true, map[string]string{"token": valid}, "/test", http.StatusOK, ""},
		{"Query token without upgrade", false, nil, "/test?token=" + valid, http.StatusUnauthorized, apperrors.AuthUnauthorized},
		{"Query token on websocket upgrade", false, map[string]string{"Upgrade": "websocket"}, "/test?token=" + valid, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewAuthMiddleware(testJWTSecret, &stubBlacklist{revoked: map[string]bool{revoked: true}}, tt.legacy)
			router := setupRouter(m)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeError(t, w).Error)
			} else {
				var body map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, "merchant", body["role"])
				assert.Equal(t, "tester", body["username"])
			}
			assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
		})
	}
}

func TestAuthenticate_BlacklistErrorFailsOpen(t *testing.T) {
	m := NewAuthMiddleware(testJWTSecret, &stubBlacklist{err: errors.New("redis down")}, false)
	router := setupRouter(m)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+generateTestToken(t, 1, "admin", time.Hour))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole(t *testing.T) {
	m := NewAuthMiddleware(testJWTSecret, nil, false)
	router := setupRouter(m, m.RequireRole(model.RoleAdmin))

	tests := []struct {
		role     string
		wantCode int
	}{
		{"admin", http.StatusOK},
		{"merchant", http.StatusForbidden},
		{"user", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Authorization", "Bearer "+generateTestToken(t, 1, tt.role, time.Hour))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusForbidden {
				assert.Equal(t, apperrors.AuthzForbidden, decodeError(t, w).Error)
			}
		})
	}
}

func TestLoggingMiddleware_KeepsIncomingRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LoggingMiddleware(), MetricsMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		assert.NotNil(t, GetLoggerFromContext(c))
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
}
