package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockTokenValidator struct {
	mock.Mock
}

func (m *MockTokenValidator) ValidateToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	setupRouter := func(tokens TokenValidator) *gin.Engine {
		router := gin.New()
		router.Use(AuthMiddleware(tokens))
		router.GET("/protected", func(c *gin.Context) {
			userID, ok := GetUserID(c)
			if !ok {
				c.String(http.StatusInternalServerError, "UserID not found in context")
				return
			}
			c.String(http.StatusOK, "Hello "+userID)
		})
		return router
	}

	serve := func(router *gin.Engine, header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("Success: Valid Token", func(t *testing.T) {
		tokens := new(MockTokenValidator)
		tokens.On("ValidateToken", mock.Anything, "good-token").Return("user-123", nil)

		w := serve(setupRouter(tokens), "Bearer good-token")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Hello user-123", w.Body.String())
		tokens.AssertExpectations(t)
	})

	t.Run("Success: Scheme is case-insensitive", func(t *testing.T) {
		tokens := new(MockTokenValidator)
		tokens.On("ValidateToken", mock.Anything, "good-token").Return("user-123", nil)

		w := serve(setupRouter(tokens), "bearer good-token")

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Fail: Missing Authorization Header", func(t *testing.T) {
		tokens := new(MockTokenValidator)

		w := serve(setupRouter(tokens), "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "authorization header required")
		tokens.AssertNotCalled(t, "ValidateToken", mock.Anything, mock.Anything)
	})

	t.Run("Fail: Invalid Header Format", func(t *testing.T) {
		tokens := new(MockTokenValidator)
		router := setupRouter(tokens)

		for _, h := range []string{"Bearer", "Token 12345", "Bearer12345", "Bearer a b"} {
			w := serve(router, h)
			assert.Equal(t, http.StatusUnauthorized, w.Code, "Should fail for header: "+h)
		}
		tokens.AssertNotCalled(t, "ValidateToken", mock.Anything, mock.Anything)
	})

	t.Run("Fail: Rejected Token", func(t *testing.T) {
		tokens := new(MockTokenValidator)
		tokens.On("ValidateToken", mock.Anything, "bad-token").Return("", errors.New("expired"))

		w := serve(setupRouter(tokens), "Bearer bad-token")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid or expired token")
	})
}

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := GetUserID(c)
	assert.False(t, ok)

	c.Set(ContextUserIDKey, 42)
	_, ok = GetUserID(c)
	assert.False(t, ok)

	c.Set(ContextUserIDKey, "u1")
	id, ok := GetUserID(c)
	assert.True(t, ok)
	assert.Equal(t, "u1", id)
}
