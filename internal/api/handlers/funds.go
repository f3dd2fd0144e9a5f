package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/etf-portfolio/backend/internal/models"
	"github.com/etf-portfolio/backend/internal/portfolio"
)

type FundsHandler struct {
	session *portfolio.Session
}

func NewFundsHandler(session *portfolio.Session) *FundsHandler {
	return &FundsHandler{session: session}
}

func (h *FundsHandler) GetFunds(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Funds())
}

func (h *FundsHandler) SetFunds(c *gin.Context) {
	var req models.Funds
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Cash < 0 || req.Assets < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cash and assets must not be negative"})
		return
	}

	h.session.SetFunds(req)
	c.JSON(http.StatusOK, h.session.Funds())
}

// GetSummary returns the dashboard aggregate, recomputed from the
// current state on every call.
func (h *FundsHandler) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Summary())
}
