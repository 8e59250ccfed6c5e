package config

import "time"

// Config is the root configuration for a dashboard instance.
type Config struct {
	Instance InstanceConfig `yaml:"instance"`
	API      APIConfig      `yaml:"api"`
	Probe    ProbeConfig    `yaml:"probe"`
	Sync     SyncConfig     `yaml:"sync"`
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
}

// InstanceConfig describes where the dashboard is deployed.
type InstanceConfig struct {
	Host string `yaml:"host"` // Hostname the dashboard is served from; picks dev or prod API
}

// APIConfig holds market data service settings.
type APIConfig struct {
	DevURL  string        `yaml:"dev_url"`  // Used when instance.host is local
	ProdURL string        `yaml:"prod_url"` // Used otherwise
	Origin  string        `yaml:"origin"`   // Sent as Origin and checked against CORS headers; empty disables
	Timeout time.Duration `yaml:"timeout"`  // Bounds requests whose caller sets no deadline
}

// ProbeConfig holds connectivity prober settings.
type ProbeConfig struct {
	Attempts    int           `yaml:"attempts"`
	Timeout     time.Duration `yaml:"timeout"`
	BackoffStep time.Duration `yaml:"backoff_step"`
}

// SyncConfig holds market synchronizer settings.
type SyncConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	AutoRefresh     *bool         `yaml:"auto_refresh"` // nil means enabled
}

// ServerConfig holds the dashboard HTTP server settings.
type ServerConfig struct {
	Port           int           `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"` // Browser origins allowed on /ws; empty means same-origin only
}

// RedisConfig holds the optional snapshot publisher settings.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`     // Key holding the latest snapshot
	Channel  string `yaml:"channel"` // Channel snapshots are published on
}

// BaseURL returns the market data service URL for this instance.
func (c *Config) BaseURL() string {
	return ResolveBaseURL(c.Instance.Host, c.API.DevURL, c.API.ProdURL)
}

// AutoRefreshEnabled reports the initial auto-refresh flag.
func (s SyncConfig) AutoRefreshEnabled() bool {
	return s.AutoRefresh == nil || *s.AutoRefresh
}
