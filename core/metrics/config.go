package metrics

import (
	"fmt"

	"github.com/kilianp07/rakeplan/core/factory"
)

// Config lists the metrics sinks fed by the simulation.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks" yaml:"sinks"`
}

// Validate rejects entries without a type and repeated types.
func (c Config) Validate() error {
	seen := make(map[string]bool, len(c.Sinks))
	for i, s := range c.Sinks {
		if s.Type == "" {
			return fmt.Errorf("sink %d: type is required", i)
		}
		if seen[s.Type] {
			return fmt.Errorf("sink %s configured twice", s.Type)
		}
		seen[s.Type] = true
	}
	return nil
}
