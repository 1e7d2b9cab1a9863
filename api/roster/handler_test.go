package roster

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/kilianp07/rakeplan/core/model"
	"github.com/kilianp07/rakeplan/core/rosterlog"
)

func seeded(t *testing.T) rosterlog.Store {
	t.Helper()
	s, err := rosterlog.NewJSONLStore(filepath.Join(t.TempDir(), "log.jsonl"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	date := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	for day := 1; day <= 2; day++ {
		recs := []rosterlog.Record{
			rosterlog.NewRecord(day, date.AddDate(0, 0, day-1), model.ScenarioNormal, model.DutyService, model.VehicleRecord{ID: "Rake-01", CurrentKM: 200 * day, HealthScore: 99}),
			rosterlog.NewRecord(day, date.AddDate(0, 0, day-1), model.ScenarioNormal, model.DutyMaintenance, model.VehicleRecord{ID: "Rake-02", HealthScore: 100}),
		}
		if err := s.Append(context.Background(), recs); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	return s
}

func get(h http.Handler, url, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", url, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestLogHandler_AuthAndFilters(t *testing.T) {
	h := NewLogHandler(seeded(t), "tok")

	if rr := get(h, "/api/roster/log", ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}

	rr := get(h, "/api/roster/log?day=2&vehicle_id=Rake-01", "tok")
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var out []rosterlog.Record
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0].CurrentKM != 400 || out[0].Duty != model.DutyService {
		t.Fatalf("unexpected output %#v", out)
	}

	rr = get(h, "/api/roster/log?duty=MAINTENANCE", "tok")
	out = nil
	_ = json.Unmarshal(rr.Body.Bytes(), &out)
	if len(out) != 2 || out[0].VehicleID != "Rake-02" {
		t.Fatalf("duty filter bad %#v", out)
	}
}

func TestLogHandler_RejectsWrongToken(t *testing.T) {
	h := NewLogHandler(seeded(t), "tok")
	for _, tok := range []string{"tak", "to", "tokk", "TOK"} {
		if rr := get(h, "/api/roster/log", tok); rr.Code != http.StatusUnauthorized {
			t.Fatalf("token %q: expected 401 got %d", tok, rr.Code)
		}
	}
	req := httptest.NewRequest(http.MethodGet, "/api/roster/log", nil)
	req.Header.Set("Authorization", "tok")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("missing scheme: expected 401 got %d", rr.Code)
	}
}

func TestLogHandler_Empty(t *testing.T) {
	h := NewLogHandler(seeded(t), "")
	rr := get(h, "/api/roster/log?day=9", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	if rr.Body.String() != "[]\n" {
		t.Fatalf("expected empty array got %s", rr.Body.String())
	}
}

func TestLogHandler_BadParams(t *testing.T) {
	h := NewLogHandler(seeded(t), "")
	for _, url := range []string{"/api/roster/log?day=x", "/api/roster/log?from_day=0", "/api/roster/log?duty=IDLE"} {
		if rr := get(h, url, ""); rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", url, rr.Code)
		}
	}
	req := httptest.NewRequest("POST", "/api/roster/log", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", rr.Code)
	}
}

func TestSummaryHandler(t *testing.T) {
	h := NewSummaryHandler(seeded(t), "")
	rr := get(h, "/api/roster/summary", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var sum rosterlog.Summary
	if err := json.Unmarshal(rr.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sum.LastDay != 2 || len(sum.Final) != 2 || sum.Duties["Rake-01"]["SERVICE"] != 2 {
		t.Fatalf("unexpected summary %#v", sum)
	}
}

func TestRateLimit(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	h := RateLimit(ok, 0.001, 1)
	if rr := get(h, "/", ""); rr.Code != http.StatusOK {
		t.Fatalf("first request status %d", rr.Code)
	}
	if rr := get(h, "/", ""); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", rr.Code)
	}
	if RateLimit(ok, 0, 0) == nil {
		t.Fatalf("nil handler")
	}
}
