package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
instance:
  host: dashboard.example.com
api:
  dev_url: http://localhost:5000/api
  prod_url: https://markets.example.com/api
  origin: https://dashboard.example.com
probe:
  attempts: 5
  timeout: 10s
sync:
  auto_refresh: false
redis:
  enabled: true
  addr: redis:6379
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Instance.Host != "dashboard.example.com" {
		t.Errorf("Instance.Host = %q, want %q", cfg.Instance.Host, "dashboard.example.com")
	}
	if cfg.API.ProdURL != "https://markets.example.com/api" {
		t.Errorf("API.ProdURL = %q, want %q", cfg.API.ProdURL, "https://markets.example.com/api")
	}
	if cfg.API.Origin != "https://dashboard.example.com" {
		t.Errorf("API.Origin = %q, want %q", cfg.API.Origin, "https://dashboard.example.com")
	}
	if cfg.Probe.Attempts != 5 {
		t.Errorf("Probe.Attempts = %d, want 5", cfg.Probe.Attempts)
	}
	if cfg.Probe.Timeout != 10*time.Second {
		t.Errorf("Probe.Timeout = %v, want 10s", cfg.Probe.Timeout)
	}
	if cfg.Sync.AutoRefreshEnabled() {
		t.Error("Sync.AutoRefreshEnabled() = true, want false")
	}
	if !cfg.Redis.Enabled || cfg.Redis.Addr != "redis:6379" {
		t.Errorf("Redis = %+v, want enabled at redis:6379", cfg.Redis)
	}
	if got := cfg.BaseURL(); got != "https://markets.example.com/api" {
		t.Errorf("BaseURL() = %q, want prod URL", got)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_REDIS_PASSWORD", "secret123")
	t.Setenv("TEST_PROD_URL", "https://markets.example.com/api")

	yaml := `
api:
  prod_url: ${TEST_PROD_URL}
redis:
  password: ${TEST_REDIS_PASSWORD}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Redis.Password != "secret123" {
		t.Errorf("Redis.Password = %q, want %q", cfg.Redis.Password, "secret123")
	}
	if cfg.API.ProdURL != "https://markets.example.com/api" {
		t.Errorf("API.ProdURL = %q, want %q", cfg.API.ProdURL, "https://markets.example.com/api")
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing) expected error, got nil")
	}

	path := writeTempFile(t, "api: [not, a, map")
	if _, err := Load(path); err == nil {
		t.Error("Load(bad yaml) expected error, got nil")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
api:
  prod_url: https://markets.example.com/api
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	// Check defaults were applied
	if cfg.Instance.Host != DefaultHost {
		t.Errorf("Instance.Host = %q, want default %q", cfg.Instance.Host, DefaultHost)
	}
	if cfg.API.DevURL != DefaultDevURL {
		t.Errorf("API.DevURL = %q, want default %q", cfg.API.DevURL, DefaultDevURL)
	}
	if cfg.API.Timeout != DefaultAPITimeout {
		t.Errorf("API.Timeout = %v, want default %v", cfg.API.Timeout, DefaultAPITimeout)
	}
	if cfg.Probe.Attempts != 3 || cfg.Probe.Timeout != 30*time.Second || cfg.Probe.BackoffStep != 2*time.Second {
		t.Errorf("Probe = %+v, want 3 attempts, 30s timeout, 2s step", cfg.Probe)
	}
	if cfg.Sync.RefreshInterval != 30*time.Second {
		t.Errorf("Sync.RefreshInterval = %v, want 30s", cfg.Sync.RefreshInterval)
	}
	if !cfg.Sync.AutoRefreshEnabled() {
		t.Error("Sync.AutoRefreshEnabled() = false, want true")
	}
	if cfg.Server.Port != DefaultServerPort {
		t.Errorf("Server.Port = %d, want default %d", cfg.Server.Port, DefaultServerPort)
	}
	if cfg.Redis.Enabled {
		t.Error("Redis.Enabled = true, want false")
	}
	if cfg.Redis.Key != DefaultRedisKey || cfg.Redis.Channel != DefaultRedisChannel {
		t.Errorf("Redis = %+v, want default key and channel", cfg.Redis)
	}
	// Default host is local, so the dev URL is used.
	if got := cfg.BaseURL(); got != DefaultDevURL {
		t.Errorf("BaseURL() = %q, want %q", got, DefaultDevURL)
	}
}

func TestLoadAndValidate(t *testing.T) {
	path := writeTempFile(t, "instance:\n  host: localhost\n")

	_, err := LoadAndValidate(path)
	if err == nil {
		t.Fatal("LoadAndValidate expected error for missing prod_url")
	}
	if want := "validate config: api.prod_url is required"; err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := Config{API: APIConfig{ProdURL: "https://markets.example.com/api"}}
		cfg.applyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: "",
		},
		{
			name:    "missing prod url",
			mutate:  func(c *Config) { c.API.ProdURL = "" },
			wantErr: "api.prod_url is required",
		},
		{
			name:    "prod url without scheme",
			mutate:  func(c *Config) { c.API.ProdURL = "markets.example.com" },
			wantErr: `api.prod_url must be an http or https URL, got "markets.example.com"`,
		},
		{
			name:    "zero attempts",
			mutate:  func(c *Config) { c.Probe.Attempts = 0 },
			wantErr: "probe.attempts must be >= 1",
		},
		{
			name:    "negative backoff",
			mutate:  func(c *Config) { c.Probe.BackoffStep = -time.Second },
			wantErr: "probe.backoff_step must be >= 0",
		},
		{
			name:    "refresh interval too short",
			mutate:  func(c *Config) { c.Sync.RefreshInterval = 100 * time.Millisecond },
			wantErr: "sync.refresh_interval must be >= 1s, got 100ms",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port must be between 1 and 65535, got 70000",
		},
		{
			name: "redis enabled without addr",
			mutate: func(c *Config) {
				c.Redis.Enabled = true
				c.Redis.Addr = ""
			},
			wantErr: "redis.addr is required when redis is enabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("DASHBOARD_TEST_FROM_FILE=file\nDASHBOARD_TEST_PRESET=file\n"), 0644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("DASHBOARD_TEST_PRESET", "env")
	t.Setenv("DASHBOARD_TEST_FROM_FILE", "")
	os.Unsetenv("DASHBOARD_TEST_FROM_FILE")

	if err := LoadEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}

	if got := os.Getenv("DASHBOARD_TEST_FROM_FILE"); got != "file" {
		t.Errorf("DASHBOARD_TEST_FROM_FILE = %q, want %q", got, "file")
	}
	if got := os.Getenv("DASHBOARD_TEST_PRESET"); got != "env" {
		t.Errorf("DASHBOARD_TEST_PRESET = %q, want %q (existing values win)", got, "env")
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
