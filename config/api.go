package config

import (
	"fmt"
	"strings"
)

// APIConfig configures the HTTP server of the serve command.
type APIConfig struct {
	Address string `json:"address"`
	// Token, when set, is required as a bearer token on the roster API.
	Token string `json:"token"`
	// MetricsPath exposes the prometheus registry.
	MetricsPath string `json:"metrics_path"`
	// RateLimitRPS caps roster API requests per second; 0 disables it.
	RateLimitRPS   float64 `json:"rate_limit_rps"`
	RateLimitBurst int     `json:"rate_limit_burst"`
}

func (c *APIConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
	if c.MetricsPath == "" {
		c.MetricsPath = "/metrics"
	}
}

func (c APIConfig) Validate() error {
	if !strings.HasPrefix(c.MetricsPath, "/") {
		return fmt.Errorf("metrics_path must start with /")
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return fmt.Errorf("rate limits must be non-negative")
	}
	return nil
}
