package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/etf-portfolio/backend/internal/models"
	"github.com/etf-portfolio/backend/internal/portfolio"
)

func testRouter() (*gin.Engine, *portfolio.Session) {
	gin.SetMode(gin.TestMode)
	session := portfolio.NewSession(portfolio.State{}, nil)

	router := gin.New()
	holdingHandler := NewHoldingHandler(session)
	fundsHandler := NewFundsHandler(session)
	historyHandler := NewHistoryHandler(session)

	api := router.Group("/api")
	api.GET("/holdings", holdingHandler.GetHoldings)
	api.POST("/holdings", holdingHandler.AddHolding)
	api.PUT("/holdings/:id", holdingHandler.UpdateHolding)
	api.DELETE("/holdings/:id", holdingHandler.DeleteHolding)
	api.POST("/holdings/:id/correct-price", holdingHandler.CorrectPrice)
	api.GET("/summary", fundsHandler.GetSummary)
	api.PUT("/funds", fundsHandler.SetFunds)
	api.POST("/history", historyHandler.AddPoint)
	api.DELETE("/history/:date", historyHandler.DeletePoint)
	api.GET("/history/chart", historyHandler.GetChartSeries)

	return router, session
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHoldingLifecycle(t *testing.T) {
	router, _ := testRouter()

	w := doJSON(t, router, http.MethodPost, "/api/holdings", models.HoldingRequest{
		Ticker:          "ABC",
		Name:            "ABC Fund",
		Quantity:        10,
		AveragePrice:    100,
		TransactionFees: 5,
		CurrentPrice:    100,
		PurchaseDate:    "2024-01-02",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add returned %d: %s", w.Code, w.Body.String())
	}
	var created models.Holding
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected a server-generated id")
	}

	w = doJSON(t, router, http.MethodPost, "/api/holdings/"+created.ID+"/correct-price", models.PriceCorrectionRequest{
		Price: 110,
		Date:  "2024-01-02",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("correct-price returned %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/summary", nil)
	var summary models.PortfolioSummary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("bad summary body: %v", err)
	}
	if summary.ETFValue != 1100 {
		t.Errorf("ETFValue = %v, want 1100 after correction", summary.ETFValue)
	}

	w = doJSON(t, router, http.MethodDelete, "/api/holdings/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete returned %d", w.Code)
	}
	w = doJSON(t, router, http.MethodDelete, "/api/holdings/"+created.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete returned %d, want 404", w.Code)
	}
}

func TestHoldingValidation(t *testing.T) {
	router, _ := testRouter()

	tests := []struct {
		name string
		body models.HoldingRequest
	}{
		{"missing ticker", models.HoldingRequest{PurchaseDate: "2024-01-02"}},
		{"bad date", models.HoldingRequest{Ticker: "ABC", PurchaseDate: "02-01-2024"}},
		{"negative quantity", models.HoldingRequest{Ticker: "ABC", Quantity: -1, PurchaseDate: "2024-01-02"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/holdings", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("returned %d, want 400", w.Code)
			}
		})
	}
}

func TestManualHistoryPoints(t *testing.T) {
	router, session := testRouter()

	w := doJSON(t, router, http.MethodPost, "/api/history", models.ManualPointRequest{
		Date:  "2023-12-01",
		Value: 5000,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("add point returned %d: %s", w.Code, w.Body.String())
	}
	if len(session.History()) != 1 {
		t.Fatal("manual point not recorded")
	}

	w = doJSON(t, router, http.MethodGet, "/api/history/chart", nil)
	var points []portfolio.ChartPoint
	if err := json.Unmarshal(w.Body.Bytes(), &points); err != nil {
		t.Fatalf("bad chart body: %v", err)
	}
	if len(points) != 1 || points[0].TotalValue != 5000 {
		t.Errorf("chart = %+v, want one 5000 point", points)
	}

	w = doJSON(t, router, http.MethodDelete, "/api/history/2023-12-01", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete point returned %d", w.Code)
	}
	if len(session.History()) != 0 {
		t.Error("manual point not removed")
	}
}

func TestSetFunds(t *testing.T) {
	router, session := testRouter()

	w := doJSON(t, router, http.MethodPut, "/api/funds", models.Funds{Cash: 300, Assets: 100})
	if w.Code != http.StatusOK {
		t.Fatalf("set funds returned %d: %s", w.Code, w.Body.String())
	}
	if session.Funds() != (models.Funds{Cash: 300, Assets: 100}) {
		t.Errorf("funds = %+v", session.Funds())
	}

	w = doJSON(t, router, http.MethodPut, "/api/funds", models.Funds{Cash: -1})
	if w.Code != http.StatusBadRequest {
		t.Errorf("negative cash returned %d, want 400", w.Code)
	}
}
