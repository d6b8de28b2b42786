package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouter(t *testing.T) {
	app := newTestApp(t)

	t.Run("Health without external services", func(t *testing.T) {
		w := app.do(http.MethodGet, "/health", "", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"database":"memory"`)
		assert.Contains(t, w.Body.String(), `"redis":"disabled"`)
	})

	t.Run("Prometheus endpoint", func(t *testing.T) {
		app.do(http.MethodGet, "/api/v1/quote", "", "")

		w := app.do(http.MethodGet, "/metrics", "", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "habitvault_http_requests_total")
	})

	t.Run("Swagger document", func(t *testing.T) {
		w := app.do(http.MethodGet, "/swagger/doc.json", "", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "HabitVault API")
	})

	t.Run("Quote of the day is public and stable", func(t *testing.T) {
		w := app.do(http.MethodGet, "/api/v1/quote?today=2024-01-01", "", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"date": "2024-01-01", "quote": "Success is the sum of small efforts repeated day in and day out."}`, w.Body.String())

		w = app.do(http.MethodGet, "/api/v1/quote", "", "")
		assert.Contains(t, w.Body.String(), `"date":"2024-01-05"`)
	})

	t.Run("CORS preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/habits", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()

		app.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Protected routes need a token", func(t *testing.T) {
		for _, path := range []string{"/api/v1/habits", "/api/v1/stats/overview", "/api/v1/preferences"} {
			w := app.do(http.MethodGet, path, "", "")
			assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		}
	})
}
