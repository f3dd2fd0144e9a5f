package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/etf-portfolio/backend/internal/export"
	"github.com/etf-portfolio/backend/internal/portfolio"
)

type ExportHandler struct {
	session *portfolio.Session
}

func NewExportHandler(session *portfolio.Session) *ExportHandler {
	return &ExportHandler{session: session}
}

// ExportCSV streams the holdings and valuation history as a CSV report.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	filename := "portfolio-" + time.Now().Format("2006-01-02") + ".csv"
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := export.WriteCSV(c.Writer, h.session.Holdings(), h.session.History()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
