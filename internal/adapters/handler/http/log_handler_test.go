package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/habitvault/habitvault/internal/core/domain"
)

type logBody struct {
	HabitID string          `json:"habit_id"`
	Logs    domain.HabitLog `json:"logs"`
}

func TestMarkStatus(t *testing.T) {
	t.Run("Success: Marking returns recomputed metrics", func(t *testing.T) {
		app := newTestApp(t)
		h := app.seedHabit(t, "user-1", "Run", domain.Daily{}, "2024-01-01")
		app.mark(t, h.ID, map[string]domain.DailyStatus{
			"2024-01-01": domain.StatusCompleted,
			"2024-01-02": domain.StatusCompleted,
			"2024-01-03": domain.StatusMissed,
		})

		w := app.do(http.MethodPut, "/api/v1/habits/"+h.ID+"/log/2024-01-04?today=2024-01-05", "user-1", `{"status": "completed"}`)

		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		got := decode[domain.HabitWithLogs](t, w)
		assert.Equal(t, domain.DerivedMetrics{CurrentStreak: 1, LongestStreak: 2, CompletionRate: 75}, got.Metrics)
		assert.Equal(t, domain.StatusCompleted, got.Logs.Status(domain.MustParseDate("2024-01-04")))
	})

	t.Run("Success: Marking today extends the streak but not the rate", func(t *testing.T) {
		app := newTestApp(t)
		h := app.seedHabit(t, "user-1", "Run", domain.Daily{}, "2024-01-01")
		app.mark(t, h.ID, scenarioLog)

		w := app.do(http.MethodPut, "/api/v1/habits/"+h.ID+"/log/2024-01-05", "user-1", `{"status": "completed"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		got := decode[domain.HabitWithLogs](t, w)
		assert.Equal(t, 2, got.Metrics.CurrentStreak)
		assert.Equal(t, 75, got.Metrics.CompletionRate)
	})

	t.Run("Success: A second mark overwrites the first", func(t *testing.T) {
		app := newTestApp(t)
		h := app.seedHabit(t, "user-1", "Run", domain.Daily{}, "2024-01-01")

		app.do(http.MethodPut, "/api/v1/habits/"+h.ID+"/log/2024-01-02", "user-1", `{"status": "completed"}`)
		w := app.do(http.MethodPut, "/api/v1/habits/"+h.ID+"/log/2024-01-02", "user-1", `{"status": "missed"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		got := decode[domain.HabitWithLogs](t, w)
		assert.Len(t, got.Logs, 1)
		assert.Equal(t, domain.StatusMissed, got.Logs.Status(domain.MustParseDate("2024-01-02")))
	})

	tests := []struct {
		name string
		date string
		body string
	}{
		{"untracked is not a mark", "2024-01-02", `{"status": "untracked"}`},
		{"unknown status", "2024-01-02", `{"status": "skipped"}`},
		{"missing status", "2024-01-02", `{}`},
		{"impossible date", "2024-02-30", `{"status": "completed"}`},
		{"non canonical date", "2024-1-2", `{"status": "completed"}`},
	}
	for _, tt := range tests {
		t.Run("Fail: 400 "+tt.name, func(t *testing.T) {
			app := newTestApp(t)
			h := app.seedHabit(t, "user-1", "Run", domain.Daily{}, "2024-01-01")

			w := app.do(http.MethodPut, "/api/v1/habits/"+h.ID+"/log/"+tt.date, "user-1", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	t.Run("Fail: 404 for another user's habit", func(t *testing.T) {
		app := newTestApp(t)
		h := app.seedHabit(t, "user-2", "Run", domain.Daily{}, "2024-01-01")

		w := app.do(http.MethodPut, "/api/v1/habits/"+h.ID+"/log/2024-01-02", "user-1", `{"status": "completed"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetLog(t *testing.T) {
	app := newTestApp(t)
	h := app.seedHabit(t, "user-1", "Run", domain.Daily{}, "2024-01-01")
	app.mark(t, h.ID, scenarioLog)

	t.Run("Success: Whole log without bounds", func(t *testing.T) {
		w := app.do(http.MethodGet, "/api/v1/habits/"+h.ID+"/log", "user-1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		got := decode[logBody](t, w)
		assert.Equal(t, h.ID, got.HabitID)
		assert.Len(t, got.Logs, 4)
	})

	t.Run("Success: Inclusive range", func(t *testing.T) {
		w := app.do(http.MethodGet, "/api/v1/habits/"+h.ID+"/log?from=2024-01-02&to=2024-01-03", "user-1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		got := decode[logBody](t, w)
		assert.Len(t, got.Logs, 2)
		assert.Equal(t, domain.StatusCompleted, got.Logs.Status(domain.MustParseDate("2024-01-02")))
		assert.Equal(t, domain.StatusMissed, got.Logs.Status(domain.MustParseDate("2024-01-03")))
	})

	t.Run("Success: Inverted range is empty", func(t *testing.T) {
		w := app.do(http.MethodGet, "/api/v1/habits/"+h.ID+"/log?from=2024-01-04&to=2024-01-01", "user-1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"habit_id": "`+h.ID+`", "logs": {}}`, w.Body.String())
	})

	t.Run("Fail: 400 bad bound", func(t *testing.T) {
		w := app.do(http.MethodGet, "/api/v1/habits/"+h.ID+"/log?from=last-week", "user-1", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: 404 unknown habit", func(t *testing.T) {
		w := app.do(http.MethodGet, "/api/v1/habits/missing/log", "user-1", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
