package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/habitvault/habitvault/internal/core/domain"
	"github.com/habitvault/habitvault/internal/core/services"
)

type LogHandler struct {
	svc *services.LogService
}

func NewLogHandler(svc *services.LogService) *LogHandler {
	RegisterValidators()
	return &LogHandler{svc: svc}
}

type markStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=completed missed"`
}

type logResponse struct {
	HabitID string          `json:"habit_id"`
	Logs    domain.HabitLog `json:"logs"`
}

func (h *LogHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits/:id/log")
	{
		habits.GET("", h.GetLog)
		habits.PUT("/:date", h.MarkStatus)
	}
}

// MarkStatus godoc
// @Summary Mark a habit completed or missed on a date
// @Description Creates or overwrites the single entry for the date and returns the recomputed metrics.
// @Tags logs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Habit ID"
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param today query string false "Client calendar date (YYYY-MM-DD)"
// @Param body body markStatusRequest true "Status"
// @Success 200 {object} domain.HabitWithLogs
// @Failure 400,404 {object} map[string]string
// @Router /habits/{id}/log/{date} [put]
func (h *LogHandler) MarkStatus(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	today, ok := todayQuery(c)
	if !ok {
		return
	}

	var req markStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.svc.MarkStatus(c.Request.Context(), services.MarkStatusInput{
		HabitID: c.Param("id"),
		UserID:  userID,
		Date:    c.Param("date"),
		Status:  req.Status,
		Today:   today,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetLog godoc
// @Summary Get the log of a habit
// @Description Without bounds the whole log is returned. A missing from defaults to the start date, a missing to defaults to today.
// @Tags logs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Habit ID"
// @Param from query string false "First date (YYYY-MM-DD)"
// @Param to query string false "Last date (YYYY-MM-DD)"
// @Success 200 {object} logResponse
// @Failure 400,404 {object} map[string]string
// @Router /habits/{id}/log [get]
func (h *LogHandler) GetLog(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	from, ok := dateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := dateQuery(c, "to")
	if !ok {
		return
	}

	habitID := c.Param("id")
	entries, err := h.svc.GetLog(c.Request.Context(), habitID, userID, from, to)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, logResponse{HabitID: habitID, Logs: entries})
}
