package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/etf-portfolio/backend/internal/models"
)

func TestWriteCSV(t *testing.T) {
	holdings := []models.Holding{
		{
			ID:              "a",
			Ticker:          "ABC",
			Name:            "ABC Fund",
			Sector:          "Tech",
			Quantity:        10,
			AveragePrice:    100,
			TransactionFees: 5,
			CurrentPrice:    110,
			PurchaseDate:    "2024-01-02",
		},
	}
	history := []models.Snapshot{
		{
			Date:          "2024-01-02",
			Timestamp:     1,
			TotalValue:    1000,
			TotalInvested: 1005,
			Breakdown:     map[string]float64{"ABC": 1000},
			Prices:        map[string]float64{"ABC": 100},
		},
		{
			Date:          "2024-02-01",
			Timestamp:     2,
			TotalValue:    1100,
			TotalInvested: 1005,
			Breakdown:     map[string]float64{"ABC": 1100},
			Prices:        map[string]float64{"ABC": 110},
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, holdings, history); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "ticker,name,sector") {
		t.Error("missing holdings header")
	}
	if !strings.Contains(out, "ABC,ABC Fund,Tech,10.00,100.00,5.00,110.00,2024-01-02") {
		t.Errorf("missing holdings row in output:\n%s", out)
	}
	if !strings.Contains(out, "date,total_value,total_invested,ABC") {
		t.Errorf("missing history header in output:\n%s", out)
	}
	if !strings.Contains(out, "2024-02-01,1100.00,1005.00,1100.00") {
		t.Errorf("missing history row in output:\n%s", out)
	}
}

func TestWriteCSVEmptyPortfolio(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil, nil); err != nil {
		t.Fatalf("WriteCSV failed on empty input: %v", err)
	}

	reader := csv.NewReader(bytes.NewReader(buf.Bytes()))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) < 2 {
		t.Errorf("expected both section headers, got %d rows", len(records))
	}
}
