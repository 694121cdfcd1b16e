package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/app/models/dto"
	"github.com/yigit/ratemyteacher/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    dto.ErrorCode
		message string
	}{
		{"not found", apperrors.NewNotFoundError("teacher not found"), http.StatusNotFound, dto.ErrorCodeResourceNotFound, "teacher not found"},
		{"username taken", apperrors.ErrUsernameTaken, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, apperrors.ErrUsernameTaken.Error()},
		{"duplicate review", fmt.Errorf("creating review: %w", apperrors.ErrReviewExists), http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, ""},
		{"validation", apperrors.NewValidationError("text is required"), http.StatusBadRequest, dto.ErrorCodeValidationFailed, "text is required"},
		{"image", apperrors.NewInvalidImageError("bad image"), http.StatusBadRequest, dto.ErrorCodeInvalidImage, "bad image"},
		{"already set up", apperrors.ErrAlreadySetUp, http.StatusBadRequest, dto.ErrorCodeAlreadySetUp, ""},
		{"setup required", apperrors.ErrSetupRequired, http.StatusBadRequest, dto.ErrorCodeSetupRequired, ""},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, ""},
		{"expired", apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "token expired"},
		{"bad token", fmt.Errorf("%w: signature is invalid", apperrors.ErrTokenInvalid), http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "invalid token"},
		{"unauthenticated", apperrors.NewUnauthenticatedError("admin access required"), http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "admin access required"},
		{"internal", errors.New("pq: connection refused"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.True(t, c.IsAborted())
			body := decodeError(t, w)
			assert.Equal(t, tt.code, body.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, body.Error)
			}
			assert.NotContains(t, body.Error, "pq:")
		})
	}
}

type bindTarget struct {
	Username string `json:"username" binding:"required,min=3"`
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
}

func TestBindJSON(t *testing.T) {
	router := gin.New()
	router.POST("/", func(c *gin.Context) {
		var req bindTarget
		if !BindJSON(c, &req) {
			return
		}
		c.JSON(http.StatusOK, req)
	})

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"valid", `{"username":"jane","rating":4}`, http.StatusOK, ""},
		{"missing field", `{"rating":4}`, http.StatusBadRequest, "username is required"},
		{"short string", `{"username":"ab","rating":4}`, http.StatusBadRequest, "username must be at least 3 characters"},
		{"out of range", `{"username":"jane","rating":9}`, http.StatusBadRequest, "rating must be at most 5"},
		{"malformed", `{"username":`, http.StatusBadRequest, "invalid request body"},
		{"empty", ``, http.StatusBadRequest, "request body is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.message != "" {
				body := decodeError(t, w)
				assert.Equal(t, dto.ErrorCodeValidationFailed, body.Code)
				assert.Equal(t, tt.message, body.Error)
			}
		})
	}
}

type stubAuthService struct {
	user     *models.User
	adminErr error
}

func (s *stubAuthService) Register(context.Context, string, string) (*dto.AuthResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) Login(context.Context, string, string) (*dto.AuthResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) AdminLogin(context.Context, string) (string, error) {
	return "", errors.New("not implemented")
}

func (s *stubAuthService) AuthenticateUser(_ context.Context, token string) (*models.User, error) {
	if token != "a.b.c" {
		return nil, apperrors.ErrTokenInvalid
	}
	return s.user, nil
}

func (s *stubAuthService) AuthenticateAdmin(string) error {
	return s.adminErr
}

func TestUserAuth(t *testing.T) {
	m := NewAuthMiddleware(&stubAuthService{user: &models.User{ID: "u1", Username: "jane"}})
	router := gin.New()
	router.GET("/me", m.User(func(c *gin.Context, caller *models.User) {
		c.String(http.StatusOK, caller.Username)
	}))

	tests := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{"bearer", "Bearer a.b.c", "", http.StatusOK},
		{"raw token", "a.b.c", "", http.StatusOK},
		{"query token ignored", "", "?token=a.b.c", http.StatusUnauthorized},
		{"missing", "", "", http.StatusUnauthorized},
		{"garbage", "Bearer nope", "", http.StatusUnauthorized},
		{"unknown token", "Bearer x.y.z", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "jane", w.Body.String())
			}
		})
	}
}

func TestAdminAuth(t *testing.T) {
	for _, tt := range []struct {
		name   string
		err    error
		status int
	}{
		{"admin", nil, http.StatusOK},
		{"not admin", apperrors.NewUnauthenticatedError("admin access required"), http.StatusUnauthorized},
	} {
		t.Run(tt.name, func(t *testing.T) {
			m := NewAuthMiddleware(&stubAuthService{adminErr: tt.err})
			router := gin.New()
			router.GET("/admin", m.AdminAuth(), func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer a.b.c")
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestAdminAuthIgnoresQueryToken(t *testing.T) {
	m := NewAuthMiddleware(&stubAuthService{})
	router := gin.New()
	router.GET("/admin", m.AdminAuth(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin?token=a.b.c", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimit(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 2)
	router := gin.New()
	router.POST("/login", RateLimit(limiter), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(ip string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":1234"
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2"))

	assert.Equal(t, 0, limiter.Cleanup(time.Hour))
	assert.Equal(t, 2, limiter.Cleanup(-time.Second))
}

func TestSecurityHeaders(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeaders())
	router.GET("/api/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/swagger/index.html", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/x", nil))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Empty(t, w.Header().Get("Content-Security-Policy"))
}
