package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/rakeplan/core/metrics"
	"github.com/kilianp07/rakeplan/core/optimizer"
	"github.com/kilianp07/rakeplan/core/rosterlog"
	"github.com/kilianp07/rakeplan/core/simulation"
	"github.com/kilianp07/rakeplan/infra/mqtt"
	"github.com/kilianp07/rakeplan/infra/redis"
	"github.com/kilianp07/rakeplan/infra/store"
)

// ErrConfiguration is wrapped by every load and validation failure.
var ErrConfiguration = simulation.ErrConfiguration

type Config struct {
	Simulation SimulationConfig `json:"simulation"`
	Optimizer  optimizer.Config `json:"optimizer"`
	Strategy   StrategyConfig   `json:"strategy"`
	Store      store.Config     `json:"store"`
	RosterLog  rosterlog.Config `json:"roster_log"`
	Logging    LoggingConfig    `json:"logging"`
	Metrics    metrics.Config   `json:"metrics"`
	MQTT       mqtt.Config      `json:"mqtt"`
	Redis      redis.Config     `json:"redis"`
	Sentry     SentryConfig     `json:"sentry"`
	API        APIConfig        `json:"api"`
}

// Load reads a YAML or JSON file, applies K_ prefixed environment
// overrides, then defaults and validates every section.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("%w: unsupported config format: %s", ErrConfiguration, ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every section defaulted.
func Default() *Config {
	var cfg Config
	cfg.SetDefaults()
	return &cfg
}

// SetDefaults applies the defaults of every section.
func (c *Config) SetDefaults() {
	c.Simulation.SetDefaults()
	c.Optimizer.SetDefaults()
	c.Strategy.SetDefaults()
	c.Store.SetDefaults()
	c.RosterLog.SetDefaults()
	c.Logging.SetDefaults()
	c.MQTT.SetDefaults()
	c.Redis.SetDefaults()
	c.Sentry.SetDefaults()
	c.API.SetDefaults()
}

// Validate checks every section and joins the failures under ErrConfiguration.
func (c Config) Validate() error {
	checks := []struct {
		section string
		err     error
	}{
		{"simulation", c.Simulation.Validate()},
		{"optimizer", c.Optimizer.Validate()},
		{"strategy", c.Strategy.Validate()},
		{"store", c.Store.Validate()},
		{"roster_log", c.RosterLog.Validate()},
		{"logging", c.Logging.Validate()},
		{"metrics", c.Metrics.Validate()},
		{"mqtt", c.MQTT.Validate()},
		{"redis", c.Redis.Validate()},
		{"sentry", c.Sentry.Validate()},
		{"api", c.API.Validate()},
	}
	var errs []error
	for _, ch := range checks {
		if ch.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ch.section, ch.err))
		}
	}
	if c.Strategy.Source == "postgres" && c.Store.Backend != "postgres" {
		errs = append(errs, fmt.Errorf("strategy: postgres source requires the postgres store"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrConfiguration, errors.Join(errs...))
	}
	return nil
}
