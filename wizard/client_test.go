package wizard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/parkpulse/survey-server/validation"
)

func TestClientLookupLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/locations/atl-select":
			json.NewEncoder(w).Encode(map[string]string{
				"id": "7c9e6679-7425-40de-944b-e07fc1f90ae7", "name": "ATL Select", "slug": "atl-select",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "Location not found"})
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	loc, err := c.LookupLocation(context.Background(), "atl-select")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if loc.Name != "ATL Select" {
		t.Fatalf("unexpected location: %+v", loc)
	}

	if _, err := c.LookupLocation(context.Background(), "does-not-exist"); err == nil {
		t.Fatal("expected not-found error")
	}
}

func TestClientSubmitPayloadShape(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/survey/submit" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "Survey submitted successfully"})
	}))
	defer srv.Close()

	in := validation.SurveyInput{
		TravelerType:         "leisure",
		ParkingPreference:    "self_park",
		UsageFrequency:       "5_or_fewer",
		ExitMethod:           "automated",
		ExitTime:             "1_4_minutes",
		CleanlinessSurface:   3,
		CleanlinessStairs:    4,
		CleanlinessElevators: 2,
		OverallExperience:    3,
		FirstName:            "Jane",
	}
	if err := NewClient(srv.URL).Submit(context.Background(), "atl-select", in); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if got["locationSlug"] != "atl-select" {
		t.Fatalf("locationSlug missing from payload: %v", got)
	}
	if got["traveler_type"] != "leisure" {
		t.Fatalf("survey fields must be flattened beside locationSlug: %v", got)
	}
}

func TestClientSubmitSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid location"})
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Submit(context.Background(), "nope", validation.SurveyInput{})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "drafts"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	key := DraftKey("atl-select")
	if data, err := store.Get(key); err != nil || data != nil {
		t.Fatalf("empty store must return nil, nil; got %v, %v", data, err)
	}

	if err := store.Set(key, []byte(`{"traveler_type":"leisure"}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, err := store.Get(key)
	if err != nil || string(data) != `{"traveler_type":"leisure"}` {
		t.Fatalf("Get after Set: %s, %v", data, err)
	}

	if err := store.Clear(key); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if data, _ := store.Get(key); data != nil {
		t.Fatal("Clear must remove the draft")
	}
	if err := store.Clear(key); err != nil {
		t.Fatalf("Clear must be idempotent: %v", err)
	}
}
