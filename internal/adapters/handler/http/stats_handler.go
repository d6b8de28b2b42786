package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/habitvault/habitvault/internal/core/domain"
	"github.com/habitvault/habitvault/internal/core/services"
)

type StatsHandler struct {
	svc *services.StatsService
}

func NewStatsHandler(svc *services.StatsService) *StatsHandler {
	RegisterValidators()
	return &StatsHandler{svc: svc}
}

type summaryQuery struct {
	Range string `form:"range" binding:"omitempty,timerange"`
	Today string `form:"today" binding:"omitempty,isodate"`
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	stats := r.Group("/stats")
	{
		stats.GET("/overview", h.Overview)
		stats.GET("/summary", h.Summary)
	}
	r.GET("/habits/:id/heatmap", h.Heatmap)
}

// Overview godoc
// @Summary Aggregate metrics across all habits
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param today query string false "Client calendar date (YYYY-MM-DD)"
// @Success 200 {object} domain.Overview
// @Router /stats/overview [get]
func (h *StatsHandler) Overview(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	today, ok := todayQuery(c)
	if !ok {
		return
	}

	overview, err := h.svc.Overview(c.Request.Context(), userID, today)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// Summary godoc
// @Summary Per-habit counts over a trailing window
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param range query string false "week, month or year" default(week)
// @Param today query string false "Client calendar date (YYYY-MM-DD)"
// @Success 200 {object} domain.RangeSummary
// @Failure 400 {object} map[string]string
// @Router /stats/summary [get]
func (h *StatsHandler) Summary(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var q summaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if q.Range == "" {
		q.Range = string(domain.TimeRangeWeek)
	}

	var today domain.CalendarDate
	if q.Today != "" {
		today = domain.MustParseDate(q.Today)
	}

	summary, err := h.svc.Summary(c.Request.Context(), userID, q.Range, today)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Heatmap godoc
// @Summary Day-by-day view of one month
// @Description year and month default to the month of today.
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Param id path string true "Habit ID"
// @Param year query int false "Year"
// @Param month query int false "Month (1-12)"
// @Param today query string false "Client calendar date (YYYY-MM-DD)"
// @Success 200 {object} domain.Heatmap
// @Failure 400,404 {object} map[string]string
// @Router /habits/{id}/heatmap [get]
func (h *StatsHandler) Heatmap(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	today, ok := todayQuery(c)
	if !ok {
		return
	}
	if today.IsZero() {
		today = h.svc.Today()
	}

	year, ok := intQuery(c, "year", today.Year())
	if !ok {
		return
	}
	month, ok := intQuery(c, "month", int(today.Month()))
	if !ok {
		return
	}

	heatmap, err := h.svc.Heatmap(c.Request.Context(), c.Param("id"), userID, year, month)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, heatmap)
}

func intQuery(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be an integer"})
		return 0, false
	}
	return n, true
}
