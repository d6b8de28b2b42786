package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/habitvault/habitvault/internal/core/services"
)

type HabitHandler struct {
	svc *services.HabitService
}

func NewHabitHandler(svc *services.HabitService) *HabitHandler {
	RegisterValidators()
	return &HabitHandler{
		svc: svc,
	}
}

type createHabitRequest struct {
	Name       string   `json:"name" binding:"required"`
	Frequency  string   `json:"frequency" binding:"required"`
	CustomDays []string `json:"custom_days" binding:"omitempty,dive,weekday"`
	StartDate  string   `json:"start_date" binding:"omitempty,isodate"`
}

type updateHabitRequest struct {
	Name       *string  `json:"name"`
	Frequency  *string  `json:"frequency"`
	CustomDays []string `json:"custom_days" binding:"omitempty,dive,weekday"`
	StartDate  *string  `json:"start_date" binding:"omitempty,isodate"`
}

func (h *HabitHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	{
		habits.POST("", h.Create)
		habits.GET("", h.List)
		habits.GET("/:id", h.Get)
		habits.PUT("/:id", h.Update)
		habits.DELETE("/:id", h.Delete)
	}
}

// Create godoc
// @Summary Create a habit
// @Tags habits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body createHabitRequest true "Habit"
// @Param today query string false "Client calendar date (YYYY-MM-DD), default start date"
// @Success 201 {object} domain.Habit
// @Failure 400 {object} map[string]string
// @Router /habits [post]
func (h *HabitHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	today, ok := todayQuery(c)
	if !ok {
		return
	}

	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	habit, err := h.svc.Create(c.Request.Context(), services.CreateHabitInput{
		UserID:     userID,
		Name:       req.Name,
		Frequency:  req.Frequency,
		CustomDays: req.CustomDays,
		StartDate:  req.StartDate,
		Today:      today,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, habit)
}

// List godoc
// @Summary List habits with their logs and metrics
// @Tags habits
// @Produce json
// @Security BearerAuth
// @Param today query string false "Client calendar date (YYYY-MM-DD)"
// @Success 200 {array} domain.HabitWithLogs
// @Router /habits [get]
func (h *HabitHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	today, ok := todayQuery(c)
	if !ok {
		return
	}

	list, err := h.svc.List(c.Request.Context(), userID, today)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// Get godoc
// @Summary Get one habit with its log and metrics
// @Tags habits
// @Produce json
// @Security BearerAuth
// @Param id path string true "Habit ID"
// @Param today query string false "Client calendar date (YYYY-MM-DD)"
// @Success 200 {object} domain.HabitWithLogs
// @Failure 404 {object} map[string]string
// @Router /habits/{id} [get]
func (h *HabitHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	today, ok := todayQuery(c)
	if !ok {
		return
	}

	habit, err := h.svc.Get(c.Request.Context(), c.Param("id"), userID, today)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

// Update godoc
// @Summary Partially update a habit
// @Tags habits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Habit ID"
// @Param body body updateHabitRequest true "Fields to change"
// @Success 200 {object} domain.Habit
// @Failure 400,404 {object} map[string]string
// @Router /habits/{id} [put]
func (h *HabitHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req updateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	habit, err := h.svc.Update(c.Request.Context(), services.UpdateHabitInput{
		ID:         c.Param("id"),
		UserID:     userID,
		Name:       req.Name,
		Frequency:  req.Frequency,
		CustomDays: req.CustomDays,
		StartDate:  req.StartDate,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

// Delete godoc
// @Summary Delete a habit and its log
// @Tags habits
// @Security BearerAuth
// @Param id path string true "Habit ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /habits/{id} [delete]
func (h *HabitHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
