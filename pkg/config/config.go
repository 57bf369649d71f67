package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	// Stack
	StackName    string
	StackVersion string

	// Host metrics
	PrometheusURL      string
	HostMetricsTTL     time.Duration
	FetchConcurrency   int
	PrometheusDisabled bool

	// Discovery
	Kubeconfig string

	// Storage
	StorageEnabled bool
	DatabaseURL    string

	// Lifecycle (Livy)
	LivyHome   string
	LivyPIDDir string
	LivyUser   string
	JavaHome   string

	// Output
	OutputFormat string // text, json, yaml
	Verbose      bool
}

// NewConfig creates a new configuration with defaults
func NewConfig() *Config {
	return &Config{
		StackName:          getEnv("STACK_NAME", "HDP"),
		StackVersion:       getEnv("STACK_VERSION", "2.6"),
		PrometheusURL:      getEnv("PROMETHEUS_URL", "http://localhost:9090"),
		HostMetricsTTL:     getEnvDuration("HOST_METRICS_CACHE_TTL", 10*time.Minute),
		FetchConcurrency:   getEnvInt("PROMETHEUS_FETCH_CONCURRENCY", 8),
		PrometheusDisabled: getEnvBool("PROMETHEUS_DISABLED", false),
		Kubeconfig:         getEnv("KUBECONFIG", ""),
		StorageEnabled:     getEnvBool("STORAGE_ENABLED", false),
		DatabaseURL:        getEnv("DATABASE_URL", "host=localhost port=5432 user=advisor password=devpassword dbname=stackadvisor sslmode=disable"),
		LivyHome:           getEnv("LIVY_HOME", "/usr/hdp/current/livy2-server"),
		LivyPIDDir:         getEnv("LIVY_PID_DIR", "/var/run/livy2"),
		LivyUser:           getEnv("LIVY_USER", "livy"),
		JavaHome:           getEnv("JAVA_HOME", ""),
		OutputFormat:       "text",
		Verbose:            false,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.StorageEnabled && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set when storage is enabled")
	}
	if c.StackName == "" || c.StackVersion == "" {
		return fmt.Errorf("stack name and version must be set")
	}
	if c.FetchConcurrency < 1 {
		return fmt.Errorf("prometheus fetch concurrency must be >= 1")
	}
	if c.HostMetricsTTL < 0 {
		return fmt.Errorf("host metrics cache TTL must not be negative")
	}
	switch c.OutputFormat {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unsupported output format: %s", c.OutputFormat)
	}
	return nil
}
