package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/habitvault/habitvault/internal/core/domain"
	"github.com/habitvault/habitvault/internal/core/services"
)

type PreferencesHandler struct {
	svc *services.PreferencesService
}

func NewPreferencesHandler(svc *services.PreferencesService) *PreferencesHandler {
	RegisterValidators()
	return &PreferencesHandler{svc: svc}
}

type updatePreferencesRequest struct {
	DarkMode              *bool   `json:"dark_mode"`
	LastTimeRange         *string `json:"last_time_range" binding:"omitempty,timerange"`
	ShowMotivationalQuote *bool   `json:"show_motivational_quote"`
}

func (h *PreferencesHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/preferences", h.Get)
	r.PATCH("/preferences", h.Update)
}

// Get godoc
// @Summary Get the user's preferences, defaults when never saved
// @Tags preferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.Preferences
// @Router /preferences [get]
func (h *PreferencesHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	prefs, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// Update godoc
// @Summary Change some preferences
// @Tags preferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body updatePreferencesRequest true "Fields to change"
// @Success 200 {object} domain.Preferences
// @Failure 400 {object} map[string]string
// @Router /preferences [patch]
func (h *PreferencesHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req updatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := domain.PreferencesPatch{
		DarkMode:              req.DarkMode,
		ShowMotivationalQuote: req.ShowMotivationalQuote,
	}
	if req.LastTimeRange != nil {
		r := domain.TimeRange(*req.LastTimeRange)
		patch.LastTimeRange = &r
	}

	prefs, err := h.svc.Update(c.Request.Context(), userID, patch)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}
