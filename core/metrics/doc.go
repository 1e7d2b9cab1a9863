// Package metrics defines the sinks that observe the daily simulation.
// Sinks like PromSink and InfluxSink record one DaySummary per simulated day
// and, when they implement VehicleStateRecorder, the per-vehicle end of day
// state. They can be combined with NewMultiSink; NewSink returns a MultiSink
// automatically when multiple sinks are configured.
package metrics
