package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.RequestTimeout != 120*time.Second {
		t.Errorf("expected default request timeout 120s, got %v", cfg.RequestTimeout)
	}
	if cfg.ProxyCountry != "us" {
		t.Errorf("expected default proxy country 'us', got %q", cfg.ProxyCountry)
	}
	if len(cfg.Languages) != 1 || cfg.Languages[0] != "en" {
		t.Errorf("expected default languages [en], got %v", cfg.Languages)
	}
	if cfg.Concurrency != 1 {
		t.Errorf("expected default concurrency 1, got %d", cfg.Concurrency)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SCRAPEOPS_API_KEY", "test-key")
	t.Setenv("REQUEST_TIMEOUT", "3m")
	t.Setenv("LANGUAGES", "de,en")
	t.Setenv("RATE_LIMIT", "5")
	t.Setenv("CACHE_ENABLED", "false")

	cfg := LoadConfig()

	if cfg.ScrapeOpsAPIKey != "test-key" {
		t.Errorf("expected api key 'test-key', got %q", cfg.ScrapeOpsAPIKey)
	}
	if cfg.RequestTimeout != 3*time.Minute {
		t.Errorf("expected request timeout 3m, got %v", cfg.RequestTimeout)
	}
	if len(cfg.Languages) != 2 || cfg.Languages[0] != "de" || cfg.Languages[1] != "en" {
		t.Errorf("expected languages [de en], got %v", cfg.Languages)
	}
	if cfg.RateLimit != 5 {
		t.Errorf("expected rate limit 5, got %d", cfg.RateLimit)
	}
	if cfg.CacheEnabled {
		t.Error("expected cache to be disabled")
	}
}

func TestLoadConfigInvalidValues(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "not-a-duration")
	t.Setenv("RATE_LIMIT", "not-a-number")

	cfg := LoadConfig()

	if cfg.RequestTimeout != 120*time.Second {
		t.Errorf("expected fallback to default timeout, got %v", cfg.RequestTimeout)
	}
	if cfg.RateLimit != 0 {
		t.Errorf("expected fallback to default rate limit, got %d", cfg.RateLimit)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.RequestTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "cache enabled without path",
			mutate:  func(c *Config) { c.CachePath = "" },
			wantErr: true,
		},
		{
			name:    "cache disabled without path",
			mutate:  func(c *Config) { c.CacheEnabled = false; c.CachePath = "" },
			wantErr: false,
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Concurrency = 0 },
			wantErr: true,
		},
		{
			name:    "negative rate limit",
			mutate:  func(c *Config) { c.RateLimit = -1 },
			wantErr: true,
		},
		{
			name:    "no languages",
			mutate:  func(c *Config) { c.Languages = nil },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoadConfig()
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
