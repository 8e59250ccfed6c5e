package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultHost            = "localhost"
	DefaultDevURL          = "http://localhost:5000/api"
	DefaultAPITimeout      = 30 * time.Second
	DefaultProbeAttempts   = 3
	DefaultProbeTimeout    = 30 * time.Second
	DefaultBackoffStep     = 2 * time.Second
	DefaultRefreshInterval = 30 * time.Second
	DefaultServerPort      = 8080
	DefaultRequestTimeout  = 2 * time.Minute
	DefaultRedisAddr       = "localhost:6379"
	DefaultRedisKey        = "dashboard:markets:latest"
	DefaultRedisChannel    = "dashboard:markets"
)

func (c *Config) applyDefaults() {
	if c.Instance.Host == "" {
		c.Instance.Host = DefaultHost
	}

	// API defaults
	if c.API.DevURL == "" {
		c.API.DevURL = DefaultDevURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}

	// Probe defaults
	if c.Probe.Attempts == 0 {
		c.Probe.Attempts = DefaultProbeAttempts
	}
	if c.Probe.Timeout == 0 {
		c.Probe.Timeout = DefaultProbeTimeout
	}
	if c.Probe.BackoffStep == 0 {
		c.Probe.BackoffStep = DefaultBackoffStep
	}

	// Sync defaults
	if c.Sync.RefreshInterval == 0 {
		c.Sync.RefreshInterval = DefaultRefreshInterval
	}

	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = DefaultRequestTimeout
	}

	// Redis defaults, applied even when disabled so enabling needs one flag.
	if c.Redis.Addr == "" {
		c.Redis.Addr = DefaultRedisAddr
	}
	if c.Redis.Key == "" {
		c.Redis.Key = DefaultRedisKey
	}
	if c.Redis.Channel == "" {
		c.Redis.Channel = DefaultRedisChannel
	}
}
