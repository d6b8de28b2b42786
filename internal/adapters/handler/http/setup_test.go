package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/habitvault/habitvault/internal/adapters/handler/http"
	"github.com/habitvault/habitvault/internal/adapters/repository"
	"github.com/habitvault/habitvault/internal/core/domain"
	"github.com/habitvault/habitvault/internal/core/services"
)

var testToday = domain.MustParseDate("2024-01-05")

// userTokens accepts any non-empty token and treats it as the user id.
type userTokens struct{}

func (userTokens) ValidateToken(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", errors.New("empty token")
	}
	return token, nil
}

type testApp struct {
	router *gin.Engine
	habits *repository.InMemoryHabitRepository
	logs   *repository.InMemoryHabitLogRepository
	users  *repository.InMemoryUserRepository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := &testApp{
		habits: repository.NewInMemoryHabitRepository(),
		logs:   repository.NewInMemoryHabitLogRepository(),
		users:  repository.NewInMemoryUserRepository(),
	}
	prefs := repository.NewInMemoryPreferencesRepository()
	clock := services.FixedClock(testToday)

	tokenSvc := services.NewTokenService("test-secret", "habitvault-test", time.Hour, app.users)
	statsSvc := services.NewStatsService(app.habits, app.logs, nil, clock)

	app.router = adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:        adapterHTTP.NewAuthHandler(services.NewAuthService(app.users, tokenSvc)),
		HabitHandler:       adapterHTTP.NewHabitHandler(services.NewHabitService(app.habits, app.logs, nil, nil, clock)),
		LogHandler:         adapterHTTP.NewLogHandler(services.NewLogService(app.habits, app.logs, nil, nil, clock)),
		StatsHandler:       adapterHTTP.NewStatsHandler(statsSvc),
		PreferencesHandler: adapterHTTP.NewPreferencesHandler(services.NewPreferencesService(prefs)),
		QuoteHandler:       adapterHTTP.NewQuoteHandler(statsSvc.Today),
		Tokens:             userTokens{},
		StartTime:          time.Now(),
	})
	return app
}

// do sends a request as userID; an empty userID sends no Authorization header.
func (a *testApp) do(method, path, userID, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+userID)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) seedHabit(t *testing.T, userID, name string, rule domain.RecurrenceRule, start string) *domain.Habit {
	t.Helper()
	h, err := domain.NewHabit(userID, name, rule, domain.MustParseDate(start))
	require.NoError(t, err)
	require.NoError(t, a.habits.Create(context.Background(), h))
	return h
}

func (a *testApp) mark(t *testing.T, habitID string, marks map[string]domain.DailyStatus) {
	t.Helper()
	for date, status := range marks {
		entry, err := domain.NewLogEntry(habitID, domain.MustParseDate(date), status)
		require.NoError(t, err)
		require.NoError(t, a.logs.Upsert(context.Background(), entry))
	}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// scenarioLog is the daily habit from 2024-01-01 with one miss on the 3rd.
var scenarioLog = map[string]domain.DailyStatus{
	"2024-01-01": domain.StatusCompleted,
	"2024-01-02": domain.StatusCompleted,
	"2024-01-03": domain.StatusMissed,
	"2024-01-04": domain.StatusCompleted,
}
