package config

import (
	"testing"
	"time"
)

func TestNewConfigDefaults(t *testing.T) {
	for _, key := range []string{"STACK_NAME", "STACK_VERSION", "PROMETHEUS_URL", "HOST_METRICS_CACHE_TTL", "PROMETHEUS_FETCH_CONCURRENCY", "STORAGE_ENABLED", "LIVY_USER"} {
		t.Setenv(key, "")
	}

	cfg := NewConfig()

	if cfg.StackName != "HDP" || cfg.StackVersion != "2.6" {
		t.Errorf("Expected default stack HDP-2.6, got %s-%s", cfg.StackName, cfg.StackVersion)
	}

	if cfg.PrometheusURL != "http://localhost:9090" {
		t.Errorf("Expected default Prometheus URL, got %s", cfg.PrometheusURL)
	}

	if cfg.HostMetricsTTL != 10*time.Minute {
		t.Errorf("Expected default cache TTL 10m, got %v", cfg.HostMetricsTTL)
	}

	if cfg.FetchConcurrency != 8 {
		t.Errorf("Expected default concurrency 8, got %d", cfg.FetchConcurrency)
	}

	if cfg.StorageEnabled {
		t.Errorf("Storage should be disabled by default")
	}

	if cfg.LivyUser != "livy" {
		t.Errorf("Expected default livy user, got %s", cfg.LivyUser)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid, got %v", err)
	}
}

func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv("STACK_VERSION", "2.5")
	t.Setenv("PROMETHEUS_URL", "http://prometheus:9090")
	t.Setenv("HOST_METRICS_CACHE_TTL", "30s")
	t.Setenv("PROMETHEUS_FETCH_CONCURRENCY", "2")
	t.Setenv("STORAGE_ENABLED", "1")

	cfg := NewConfig()

	if cfg.StackVersion != "2.5" {
		t.Errorf("Expected stack version 2.5 from env, got %s", cfg.StackVersion)
	}

	if cfg.PrometheusURL != "http://prometheus:9090" {
		t.Errorf("Expected custom Prometheus URL, got %s", cfg.PrometheusURL)
	}

	if cfg.HostMetricsTTL != 30*time.Second {
		t.Errorf("Expected cache TTL 30s from env, got %v", cfg.HostMetricsTTL)
	}

	if cfg.FetchConcurrency != 2 {
		t.Errorf("Expected concurrency 2 from env, got %d", cfg.FetchConcurrency)
	}

	if !cfg.StorageEnabled {
		t.Errorf("Expected storage enabled from env")
	}
}

func TestConfigIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("HOST_METRICS_CACHE_TTL", "soon")
	t.Setenv("PROMETHEUS_FETCH_CONCURRENCY", "many")

	cfg := NewConfig()

	if cfg.HostMetricsTTL != 10*time.Minute {
		t.Errorf("Malformed TTL should fall back to default, got %v", cfg.HostMetricsTTL)
	}

	if cfg.FetchConcurrency != 8 {
		t.Errorf("Malformed concurrency should fall back to default, got %d", cfg.FetchConcurrency)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"storage without url", func(c *Config) { c.StorageEnabled = true; c.DatabaseURL = "" }, true},
		{"empty stack", func(c *Config) { c.StackName = "" }, true},
		{"zero concurrency", func(c *Config) { c.FetchConcurrency = 0 }, true},
		{"negative ttl", func(c *Config) { c.HostMetricsTTL = -time.Second }, true},
		{"bad output", func(c *Config) { c.OutputFormat = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
