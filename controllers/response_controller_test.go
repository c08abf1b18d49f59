package controllers

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/parkpulse/survey-server/models"
)

func sampleResponse() models.SurveyResponse {
	comments := `great spot, but the "north" stairwell smelled`
	phone := "555-0100"
	return models.SurveyResponse{
		Location:             models.Location{Name: "ATL Select", Slug: "atl-select"},
		TravelerType:         "leisure",
		ParkingPreference:    "self_park",
		UsageFrequency:       "5_or_fewer",
		ExitMethod:           "automated",
		ExitTime:             "1_4_minutes",
		CleanlinessSurface:   3,
		CleanlinessStairs:    4,
		CleanlinessElevators: 2,
		OverallExperience:    3,
		Comments:             &comments,
		FirstName:            "Jane",
		Phone:                &phone,
		CreatedAt:            time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
	}
}

func TestResponseCSVHeaderOrder(t *testing.T) {
	want := "Date,Location,Traveler Type,Parking Preference,Usage Frequency,Exit Method,Exit Time," +
		"Cashier Efficient,Cleanliness Surface,Cleanliness Stairs,Cleanliness Elevators," +
		"Overall Experience,Comments,First Name,Phone,Email"
	if got := strings.Join(responseCSVHeader, ","); got != want {
		t.Fatalf("header order changed:\n got %s\nwant %s", got, want)
	}
}

func TestResponseCSVRecord(t *testing.T) {
	rec := responseCSVRecord(sampleResponse())
	if len(rec) != len(responseCSVHeader) {
		t.Fatalf("record has %d cells, header has %d", len(rec), len(responseCSVHeader))
	}
	if rec[0] != "2026-03-14 09:26:53" {
		t.Errorf("timestamp format: got %q", rec[0])
	}
	if rec[1] != "ATL Select" {
		t.Errorf("location name: got %q", rec[1])
	}
	if rec[7] != "" {
		t.Errorf("nil cashier_efficient must export empty, got %q", rec[7])
	}
	if rec[15] != "" {
		t.Errorf("nil email must export empty, got %q", rec[15])
	}
}

func TestResponseCSVRecordCashierValues(t *testing.T) {
	r := sampleResponse()
	eff := true
	r.CashierEfficient = &eff
	if got := responseCSVRecord(r)[7]; got != "true" {
		t.Errorf("cashier_efficient true exported as %q", got)
	}
	eff = false
	if got := responseCSVRecord(r)[7]; got != "false" {
		t.Errorf("cashier_efficient false exported as %q", got)
	}
}

func TestResponseCSVQuoting(t *testing.T) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write(responseCSVHeader)
	w.Write(responseCSVRecord(sampleResponse()))
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("csv write: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"great spot, but the ""north"" stairwell smelled"`) {
		t.Fatalf("free text not quoted/escaped:\n%s", out)
	}

	// Row count equals exported record count plus header.
	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("csv parse: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(rows))
	}
}
