package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/etf-portfolio/backend/internal/models"
	"github.com/etf-portfolio/backend/internal/portfolio"
)

type HoldingHandler struct {
	session *portfolio.Session
}

func NewHoldingHandler(session *portfolio.Session) *HoldingHandler {
	return &HoldingHandler{session: session}
}

func (h *HoldingHandler) GetHoldings(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Holdings())
}

func (h *HoldingHandler) AddHolding(c *gin.Context) {
	var req models.HoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateHoldingRequest(req); err != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	holding := h.session.AddHolding(req)
	c.JSON(http.StatusCreated, holding)
}

func (h *HoldingHandler) UpdateHolding(c *gin.Context) {
	var req models.HoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateHoldingRequest(req); err != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	if !h.session.EditHolding(c.Param("id"), req) {
		c.JSON(http.StatusNotFound, gin.H{"error": "holding not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *HoldingHandler) DeleteHolding(c *gin.Context) {
	if !h.session.DeleteHolding(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "holding not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// CorrectPrice fixes a single holding's price on a past (or current)
// date; the engine propagates the fix through later stale snapshots.
func (h *HoldingHandler) CorrectPrice(c *gin.Context) {
	var req models.PriceCorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validDate(req.Date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	if req.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must not be negative"})
		return
	}

	if !h.session.CorrectPrice(c.Param("id"), req.Price, req.Date) {
		c.JSON(http.StatusNotFound, gin.H{"error": "holding not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "corrected"})
}

// UpdatePrices applies a bulk current-price refresh. Unknown ids are
// skipped rather than failing the batch.
func (h *HoldingHandler) UpdatePrices(c *gin.Context) {
	var req models.BulkPriceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	applied := h.session.UpdatePrices(req.Updates)
	c.JSON(http.StatusOK, gin.H{"updated": applied})
}

func validateHoldingRequest(req models.HoldingRequest) string {
	if req.Quantity < 0 {
		return "quantity must not be negative"
	}
	if req.AveragePrice < 0 || req.CurrentPrice < 0 {
		return "prices must not be negative"
	}
	if !validDate(req.PurchaseDate) {
		return "purchase_date must be YYYY-MM-DD"
	}
	return ""
}

func validDate(date string) bool {
	_, err := time.Parse(portfolio.DateFormat, date)
	return err == nil
}
