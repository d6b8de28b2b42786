package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/habitvault/habitvault/internal/core/domain"
)

func TestPreferencesHandler(t *testing.T) {
	t.Run("Success: Defaults when never saved", func(t *testing.T) {
		app := newTestApp(t)

		w := app.do(http.MethodGet, "/api/v1/preferences", "user-1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		got := decode[domain.Preferences](t, w)
		assert.False(t, got.DarkMode)
		assert.Equal(t, domain.TimeRangeWeek, got.LastTimeRange)
		assert.True(t, got.ShowMotivationalQuote)
	})

	t.Run("Success: Patch keeps untouched fields", func(t *testing.T) {
		app := newTestApp(t)

		w := app.do(http.MethodPatch, "/api/v1/preferences", "user-1", `{"dark_mode": true, "last_time_range": "month"}`)
		assert.Equal(t, http.StatusOK, w.Code)

		w = app.do(http.MethodPatch, "/api/v1/preferences", "user-1", `{"show_motivational_quote": false}`)
		assert.Equal(t, http.StatusOK, w.Code)

		w = app.do(http.MethodGet, "/api/v1/preferences", "user-1", "")
		got := decode[domain.Preferences](t, w)
		assert.True(t, got.DarkMode)
		assert.Equal(t, domain.TimeRangeMonth, got.LastTimeRange)
		assert.False(t, got.ShowMotivationalQuote)

		other := decode[domain.Preferences](t, app.do(http.MethodGet, "/api/v1/preferences", "user-2", ""))
		assert.False(t, other.DarkMode, "preferences are per user")
	})

	t.Run("Fail: 400 unknown time range", func(t *testing.T) {
		app := newTestApp(t)

		w := app.do(http.MethodPatch, "/api/v1/preferences", "user-1", `{"last_time_range": "decade"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: 401 without token", func(t *testing.T) {
		app := newTestApp(t)

		w := app.do(http.MethodGet, "/api/v1/preferences", "", "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
