package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/habitvault/habitvault/internal/adapters/handler/http/middleware"
	"github.com/habitvault/habitvault/internal/core/domain"
)

var badRequestErrors = []error{
	domain.ErrInvalidDate,
	domain.ErrTodayOutOfRange,
	domain.ErrStartDateOutOfRange,
	domain.ErrInvalidWeekday,
	domain.ErrInvalidFrequency,
	domain.ErrCustomDaysRequired,
	domain.ErrUnexpectedCustomDays,
	domain.ErrInvalidStatus,
	domain.ErrHabitNameEmpty,
	domain.ErrHabitNameTooLong,
	domain.ErrHabitStartRequired,
	domain.ErrInvalidTimeRange,
	domain.ErrInvalidMonth,
	domain.ErrInvalidEmail,
	domain.ErrPasswordTooShort,
	domain.ErrUserNameTooLong,
}

// handleError maps domain sentinels to status codes. Anything unknown is
// logged and reported as a bare 500.
func handleError(c *gin.Context, err error) {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	switch {
	case errors.Is(err, domain.ErrHabitNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
	default:
		log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.FullPath(), err)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func requireUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user context missing"})
	}
	return userID, ok
}

// dateQuery reads an optional YYYY-MM-DD query parameter. An absent value is
// the zero date; a malformed one writes a 400 and returns false.
func dateQuery(c *gin.Context, name string) (domain.CalendarDate, bool) {
	raw := c.Query(name)
	if raw == "" {
		return domain.CalendarDate{}, true
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + ": " + err.Error()})
		return domain.CalendarDate{}, false
	}
	return d, true
}

// todayQuery is the client's calendar date, zero when the server clock
// should decide.
func todayQuery(c *gin.Context) (domain.CalendarDate, bool) {
	return dateQuery(c, "today")
}
