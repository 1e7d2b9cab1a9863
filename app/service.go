package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kilianp07/rakeplan/api/roster"
	"github.com/kilianp07/rakeplan/app/plugins"
	"github.com/kilianp07/rakeplan/config"
	"github.com/kilianp07/rakeplan/core/fleet"
	coremetrics "github.com/kilianp07/rakeplan/core/metrics"
	"github.com/kilianp07/rakeplan/core/optimizer"
	"github.com/kilianp07/rakeplan/core/publish"
	"github.com/kilianp07/rakeplan/core/rosterlog"
	"github.com/kilianp07/rakeplan/core/simulation"
	"github.com/kilianp07/rakeplan/infra/logger"
	_ "github.com/kilianp07/rakeplan/infra/metrics" // registers metrics sinks
	"github.com/kilianp07/rakeplan/infra/mqtt"
	"github.com/kilianp07/rakeplan/infra/redis"
	"github.com/kilianp07/rakeplan/infra/store"
)

// Service wires the configured stores, solver and outputs into a
// simulation driver.
type Service struct {
	Driver  *simulation.Driver
	Fleet   fleet.Store
	Roster  rosterlog.Store
	cfg     *config.Config
	log     logger.Logger
	closers []func() error
}

// New creates a Service from the configuration. Every collaborator is built
// and validated before the first day runs.
func New(ctx context.Context, cfg *config.Config) (*Service, error) {
	s := &Service{cfg: cfg, log: logger.New("service")}
	if err := s.build(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Service) build(ctx context.Context) error {
	cfg := s.cfg
	fs, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("fleet store: %w", err)
	}
	s.Fleet = fs
	if c, ok := fs.(fleet.Closer); ok {
		s.closers = append(s.closers, c.Close)
	}

	rl, err := rosterlog.Open(cfg.RosterLog)
	if err != nil {
		return fmt.Errorf("roster log: %w", err)
	}
	s.Roster = rl
	s.closers = append(s.closers, rl.Close)

	var hist plugins.HistorySource
	if h, ok := fs.(plugins.HistorySource); ok {
		hist = h
	}
	pred, err := plugins.NewPredictor(ctx, cfg.Strategy, hist)
	if err != nil {
		return err
	}

	solver, err := optimizer.New(cfg.Optimizer)
	if err != nil {
		return fmt.Errorf("%w: %v", config.ErrConfiguration, err)
	}

	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if c, ok := sink.(interface{ Close() }); ok {
		s.closers = append(s.closers, func() error { c.Close(); return nil })
	}

	pub, err := s.publisher(ctx)
	if err != nil {
		return err
	}

	cal, err := cfg.Simulation.Calendar()
	if err != nil {
		return err
	}
	ov, err := cfg.Simulation.Overrides()
	if err != nil {
		return err
	}
	start, err := cfg.Simulation.Date()
	if err != nil {
		return fmt.Errorf("%w: %v", config.ErrConfiguration, err)
	}

	s.Driver = &simulation.Driver{
		Store:       fs,
		Predictor:   pred,
		Solver:      solver,
		Log:         rl,
		Sink:        sink,
		Publisher:   pub,
		Logger:      logger.New("simulation"),
		Calendar:    cal,
		Overrides:   ov,
		Modifiers:   cfg.Simulation.ScenarioModifiers(),
		Params:      cfg.Simulation.Transition,
		CostParams:  cfg.Optimizer.Params(),
		StartDate:   start,
		MonthLength: cfg.Simulation.MonthLength,
		StartDay:    cfg.Simulation.StartDay,
	}
	return s.Driver.Validate()
}

func (s *Service) publisher(ctx context.Context) (publish.Publisher, error) {
	var pubs []publish.Publisher
	if s.cfg.MQTT.Enabled {
		p, err := mqtt.NewPahoPublisher(s.cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		s.closers = append(s.closers, func() error { p.Disconnect(); return nil })
		pubs = append(pubs, p)
	}
	if s.cfg.Redis.Enabled {
		p, err := redis.NewPublisher(ctx, s.cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("redis publisher: %w", err)
		}
		s.closers = append(s.closers, p.Close)
		pubs = append(pubs, p)
	}
	switch len(pubs) {
	case 0:
		return publish.NopPublisher{}, nil
	case 1:
		return pubs[0], nil
	default:
		return publish.NewMultiPublisher(pubs...), nil
	}
}

// Run simulates the configured month.
func (s *Service) Run(ctx context.Context) (simulation.Report, error) {
	return s.Driver.Run(ctx)
}

// Handler returns the HTTP routes of the serve command.
func (s *Service) Handler() http.Handler {
	api := s.cfg.API
	mux := http.NewServeMux()
	mux.Handle("/api/roster/log", roster.RateLimit(roster.NewLogHandler(s.Roster, api.Token), api.RateLimitRPS, api.RateLimitBurst))
	mux.Handle("/api/roster/summary", roster.RateLimit(roster.NewSummaryHandler(s.Roster, api.Token), api.RateLimitRPS, api.RateLimitBurst))
	mux.Handle(api.MetricsPath, promhttp.Handler())
	return mux
}

// Serve exposes Handler on the configured address until ctx is cancelled.
func (s *Service) Serve(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.API.Address, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("http server shutdown: %v", err)
		}
		cancel()
	}()
	s.log.Infof("serving roster API on %s", s.cfg.API.Address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases resources held by the service in reverse order.
func (s *Service) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
