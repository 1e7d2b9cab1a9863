package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/rakeplan/core/metrics"
	"github.com/kilianp07/rakeplan/core/model"
)

type captured struct {
	mu     sync.Mutex
	bodies []string
}

func (c *captured) server() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		c.mu.Lock()
		c.bodies = append(c.bodies, strings.TrimSpace(string(data)))
		c.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
}

func lineProtocol(points ...*write.Point) string {
	lines := make([]string, len(points))
	for i, p := range points {
		lines[i] = strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	}
	return strings.Join(lines, "\n")
}

func TestInfluxSink_RecordDay(t *testing.T) {
	var c captured
	srv := c.server()
	defer srv.Close()

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()
	d := coremetrics.DaySummary{
		Day: 3, Date: time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC), Scenario: model.ScenarioNormal,
		FleetSize: 10, Service: 6, Maintenance: 2, Standby: 2, Objective: 242, Operational: 242,
		AverageHealth: 97.25, Solver: "exact", SolveDuration: 3 * time.Millisecond,
	}
	if err := sink.RecordDay(d); err != nil {
		t.Fatalf("record error: %v", err)
	}
	if len(c.bodies) != 1 || c.bodies[0] != lineProtocol(dayPoint(d)) {
		t.Errorf("unexpected bodies: %#v", c.bodies)
	}
	if !strings.Contains(c.bodies[0], "roster_day,scenario=NORMAL,solver=exact") {
		t.Errorf("missing tags: %s", c.bodies[0])
	}
}

func TestInfluxSink_RecordVehicleStates(t *testing.T) {
	var c captured
	srv := c.server()
	defer srv.Close()

	sink := NewInfluxSink(srv.URL+"/api/v2/write", "token", "org", "bucket")
	defer sink.Close()
	now := time.Date(2025, 9, 4, 0, 0, 0, 0, time.UTC)
	states := []coremetrics.VehicleState{
		{Day: 4, Date: now, VehicleID: "Rake-01", Duty: model.DutyService, HealthScore: 91, CurrentKM: 800, Consecutive: 4},
		{Day: 4, Date: now, VehicleID: "Rake-02", Duty: model.DutyMaintenance, HealthScore: 100},
	}
	if err := sink.RecordVehicleStates(states); err != nil {
		t.Fatalf("record: %v", err)
	}
	want := lineProtocol(vehiclePoint(states[0]), vehiclePoint(states[1]))
	if len(c.bodies) != 1 || c.bodies[0] != want {
		t.Errorf("unexpected bodies: %#v", c.bodies)
	}
	if err := sink.RecordVehicleStates(nil); err != nil || len(c.bodies) != 1 {
		t.Errorf("empty batch should not write")
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}
