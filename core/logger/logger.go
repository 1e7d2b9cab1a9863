// Package logger declares the logging contract shared by the simulation
// core. Adapters live in infra/logger.
package logger

// Logger exposes logging methods for common severity levels. The daily
// driver logs per-day progress at info, data integrity findings and
// non-fatal output failures at warn, and run failures at error.
type Logger interface {
	Debugf(format string, args ...any)
	// Debugw logs a message with structured fields, for instance the cost
	// breakdown of a solved day.
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}
