package monitoring

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/kilianp07/rakeplan/config"
	coremon "github.com/kilianp07/rakeplan/core/monitoring"
	"github.com/kilianp07/rakeplan/infra/logger"
)

const serviceName = "rakeplan"

// rosterKeys are capture tags that describe a simulated day. They are copied
// into the "roster" event context so they survive tag cardinality limits.
var rosterKeys = []string{"day", "last_completed_day", "kind", "vehicle_id", "scenario"}

// NewSentryMonitor initializes Sentry using the provided configuration and
// returns a Monitor implementation.
func NewSentryMonitor(cfg config.SentryConfig) (coremon.Monitor, error) {
	if cfg.DSN == "" {
		return coremon.NopMonitor{}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		TracesSampleRate: cfg.TracesSampleRate,
		Release:          cfg.Release,
		ServerName:       serviceName,
	})
	if err != nil {
		return nil, err
	}
	return newHubMonitor(sentry.CurrentHub()), nil
}

// Setup initializes the global monitor from cfg. Errors fall back to the
// no-op monitor so a broken DSN never stops a run.
func Setup(cfg config.SentryConfig, log logger.Logger) coremon.Monitor {
	m, err := NewSentryMonitor(cfg)
	if err != nil {
		log.Errorf("sentry init failed: %v", err)
		m = coremon.NopMonitor{}
	}
	coremon.Init(m)
	return m
}

type sentryMonitor struct {
	hub *sentry.Hub
}

func newHubMonitor(hub *sentry.Hub) *sentryMonitor {
	return &sentryMonitor{hub: hub}
}

// CaptureException reports err. Simulation failures are grouped by module and
// run error kind rather than by message, so one infeasible day per month
// shows up as a single issue.
func (s *sentryMonitor) CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	s.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("service", serviceName)
		scope.SetTags(tags)
		if roster := rosterContext(tags); len(roster) > 0 {
			scope.SetContext("roster", roster)
		}
		module := tags["module"]
		if kind, ok := tags["kind"]; ok && module != "" {
			scope.SetFingerprint([]string{module, kind})
		}
		if module == "simulation" {
			scope.SetLevel(sentry.LevelFatal)
		}
		s.hub.CaptureException(err)
	})
}

func (s *sentryMonitor) CapturePanic(v any) {
	s.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("service", serviceName)
		s.hub.Recover(v)
	})
}

func (s *sentryMonitor) Flush(timeout time.Duration) { s.hub.Flush(timeout) }

func rosterContext(tags map[string]string) sentry.Context {
	out := sentry.Context{}
	for _, k := range rosterKeys {
		if v, ok := tags[k]; ok {
			out[k] = v
		}
	}
	return out
}
