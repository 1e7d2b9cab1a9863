package metrics

import (
	"errors"

	coremetrics "github.com/kilianp07/rakeplan/core/metrics"
	"github.com/kilianp07/rakeplan/core/model"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink exposes the simulation progress as Prometheus metrics.
type PromSink struct {
	days      *prometheus.CounterVec
	duties    *prometheus.GaugeVec
	objective *prometheus.GaugeVec
	health    prometheus.Gauge
	solve     *prometheus.HistogramVec
	renewals  prometheus.Counter
	failures  *prometheus.CounterVec
	vehicle   *prometheus.GaugeVec
	day       prometheus.Gauge
}

// NewPromSink registers the metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// register registers c, returning the already registered collector when a
// previous sink created it.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{}
	var err error
	if s.days, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rakeplan_days_total",
		Help: "Completed simulation days by scenario",
	}, []string{"scenario"})); err != nil {
		return nil, err
	}
	if s.duties, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rakeplan_duty_vehicles",
		Help: "Vehicles assigned to each duty on the last completed day",
	}, []string{"duty"})); err != nil {
		return nil, err
	}
	if s.objective, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rakeplan_objective",
		Help: "Objective terms of the last solved plan",
	}, []string{"term"})); err != nil {
		return nil, err
	}
	if s.health, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rakeplan_fleet_health_average",
		Help: "Average derived health score of the fleet",
	})); err != nil {
		return nil, err
	}
	if s.solve, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rakeplan_solve_seconds",
		Help:    "Time spent solving the daily assignment",
		Buckets: prometheus.DefBuckets,
	}, []string{"solver"})); err != nil {
		return nil, err
	}
	if s.renewals, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rakeplan_certificate_renewals_total",
		Help: "Telecom certificates renewed during maintenance",
	})); err != nil {
		return nil, err
	}
	if s.failures, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rakeplan_run_failures_total",
		Help: "Runs halted by a fatal error",
	}, []string{"kind"})); err != nil {
		return nil, err
	}
	if s.vehicle, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rakeplan_vehicle_state",
		Help: "End of day state per vehicle",
	}, []string{"vehicle_id", "field"})); err != nil {
		return nil, err
	}
	if s.day, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rakeplan_last_completed_day",
		Help: "Last simulation day persisted",
	})); err != nil {
		return nil, err
	}
	return s, nil
}

// RecordDay updates the day level metrics.
func (s *PromSink) RecordDay(d coremetrics.DaySummary) error {
	s.days.WithLabelValues(string(d.Scenario)).Inc()
	s.day.Set(float64(d.Day))
	s.duties.WithLabelValues(model.DutyService.String()).Set(float64(d.Service))
	s.duties.WithLabelValues(model.DutyMaintenance.String()).Set(float64(d.Maintenance))
	s.duties.WithLabelValues(model.DutyStandby.String()).Set(float64(d.Standby))
	s.objective.WithLabelValues("total").Set(float64(d.Objective))
	s.objective.WithLabelValues("operational").Set(float64(d.Operational))
	s.objective.WithLabelValues("shortfall").Set(float64(d.Shortfall))
	s.objective.WithLabelValues("slot_deviation").Set(float64(d.SlotDeviation))
	s.health.Set(d.AverageHealth)
	s.solve.WithLabelValues(d.Solver).Observe(d.SolveDuration.Seconds())
	s.renewals.Add(float64(d.Renewals))
	return nil
}

// RecordVehicleStates sets the per-vehicle gauges.
func (s *PromSink) RecordVehicleStates(states []coremetrics.VehicleState) error {
	for _, v := range states {
		s.vehicle.WithLabelValues(v.VehicleID, "health_score").Set(v.HealthScore)
		s.vehicle.WithLabelValues(v.VehicleID, "current_km").Set(float64(v.CurrentKM))
		s.vehicle.WithLabelValues(v.VehicleID, "current_hours").Set(v.CurrentHours)
		s.vehicle.WithLabelValues(v.VehicleID, "consecutive_service_days").Set(float64(v.Consecutive))
	}
	return nil
}

// RecordRunFailure counts fatal failures by kind.
func (s *PromSink) RecordRunFailure(f coremetrics.RunFailure) error {
	s.failures.WithLabelValues(f.Kind).Inc()
	return nil
}
