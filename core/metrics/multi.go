package metrics

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordDay forwards the summary to all sinks, returning the first error encountered.
func (m *MultiSink) RecordDay(s DaySummary) error {
	for _, sink := range m.Sinks {
		if err := sink.RecordDay(s); err != nil {
			return err
		}
	}
	return nil
}

// RecordVehicleStates forwards snapshots when supported by the sink.
func (m *MultiSink) RecordVehicleStates(states []VehicleState) error {
	for _, sink := range m.Sinks {
		if rec, ok := sink.(VehicleStateRecorder); ok {
			if err := rec.RecordVehicleStates(states); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordRunFailure forwards failures when supported by the sink.
func (m *MultiSink) RecordRunFailure(f RunFailure) error {
	for _, sink := range m.Sinks {
		if rec, ok := sink.(RunFailureRecorder); ok {
			if err := rec.RecordRunFailure(f); err != nil {
				return err
			}
		}
	}
	return nil
}
