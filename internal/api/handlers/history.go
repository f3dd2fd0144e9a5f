package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/etf-portfolio/backend/internal/models"
	"github.com/etf-portfolio/backend/internal/portfolio"
)

type HistoryHandler struct {
	session *portfolio.Session
}

func NewHistoryHandler(session *portfolio.Session) *HistoryHandler {
	return &HistoryHandler{session: session}
}

func (h *HistoryHandler) GetHistory(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.History())
}

// AddPoint inserts or replaces a manual history total, typically a
// pre-migration value from before any holding was tracked.
func (h *HistoryHandler) AddPoint(c *gin.Context) {
	var req models.ManualPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validDate(req.Date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	h.session.AddManualPoint(req.Date, req.Value)
	c.JSON(http.StatusOK, gin.H{"status": "added"})
}

func (h *HistoryHandler) DeletePoint(c *gin.Context) {
	date := c.Param("date")
	if !validDate(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	h.session.RemoveManualPoint(date)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// GetChartSeries returns the flattened per-ticker series with gaps
// forward-filled for continuous chart lines.
func (h *HistoryHandler) GetChartSeries(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.ChartSeries())
}

// GetPriceHistory lists the known prices for one ticker, newest first.
func (h *HistoryHandler) GetPriceHistory(c *gin.Context) {
	ticker := c.Param("ticker")
	c.JSON(http.StatusOK, gin.H{
		"ticker": ticker,
		"points": h.session.PriceHistory(ticker),
	})
}
