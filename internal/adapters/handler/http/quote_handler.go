package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/habitvault/habitvault/internal/core/domain"
)

// QuoteHandler serves the quote of the day. It needs no storage.
type QuoteHandler struct {
	today func() domain.CalendarDate
}

func NewQuoteHandler(today func() domain.CalendarDate) *QuoteHandler {
	return &QuoteHandler{today: today}
}

type quoteResponse struct {
	Date  domain.CalendarDate `json:"date"`
	Quote string              `json:"quote"`
}

func (h *QuoteHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/quote", h.Get)
}

// Get godoc
// @Summary Motivational quote of the day
// @Tags quote
// @Produce json
// @Param today query string false "Client calendar date (YYYY-MM-DD)"
// @Success 200 {object} quoteResponse
// @Router /quote [get]
func (h *QuoteHandler) Get(c *gin.Context) {
	today, ok := todayQuery(c)
	if !ok {
		return
	}
	if today.IsZero() {
		today = h.today()
	}

	c.JSON(http.StatusOK, quoteResponse{Date: today, Quote: domain.DailyQuote(today)})
}
