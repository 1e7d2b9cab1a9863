package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/rakeplan/core/metrics"
	"github.com/kilianp07/rakeplan/infra/logger"
)

// InfluxSink writes simulation days to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.Sink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordDay writes the day summary as a roster_day point.
func (s *InfluxSink) RecordDay(d coremetrics.DaySummary) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, dayPoint(d))
}

func dayPoint(d coremetrics.DaySummary) *write.Point {
	return write.NewPointWithMeasurement("roster_day").
		AddTag("scenario", string(d.Scenario)).
		AddTag("solver", d.Solver).
		AddField("day", d.Day).
		AddField("fleet_size", d.FleetSize).
		AddField("service", d.Service).
		AddField("maintenance", d.Maintenance).
		AddField("standby", d.Standby).
		AddField("objective", d.Objective).
		AddField("operational_cost", d.Operational).
		AddField("avg_health", round3(d.AverageHealth)).
		AddField("solve_ms", round3(d.SolveDuration.Seconds()*1000)).
		AddField("renewals", d.Renewals).
		SetTime(d.Date)
}

// RecordVehicleStates writes one vehicle_state point per vehicle.
func (s *InfluxSink) RecordVehicleStates(states []coremetrics.VehicleState) error {
	if len(states) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	points := make([]*write.Point, len(states))
	for i, v := range states {
		points[i] = vehiclePoint(v)
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

func vehiclePoint(v coremetrics.VehicleState) *write.Point {
	return write.NewPointWithMeasurement("vehicle_state").
		AddTag("vehicle_id", v.VehicleID).
		AddTag("duty", v.Duty.String()).
		AddField("day", v.Day).
		AddField("health_score", round3(v.HealthScore)).
		AddField("current_km", v.CurrentKM).
		AddField("current_hours", round3(v.CurrentHours)).
		AddField("consecutive_service_days", v.Consecutive).
		SetTime(v.Date)
}

// Close releases the HTTP client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
