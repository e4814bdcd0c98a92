package config

import (
	"os"
	"strconv"
	"sync"
	"time"
)

// Config represents the global configuration for the graph SDK
type Config struct {
	// Sources configuration
	Sources struct {
		// GitHub-backed source configuration
		GitHub struct {
			Enabled       bool
			Token         string
			BaseURL       string
			SearchQuery   string
			MaxOrgs       int
			AllowFallback bool
		}

		// Crunchbase-backed source configuration
		Crunchbase struct {
			Enabled       bool
			APIKey        string
			BaseURL       string
			Query         string
			MaxOrgs       int
			AllowFallback bool
		}
	}

	// Cache configuration
	Cache struct {
		// Backend selects the cache implementation ("memory" or "redis")
		Backend string

		// TTL per source for write-through entries
		GitHubTTL     time.Duration
		CrunchbaseTTL time.Duration
		StaticTTL     time.Duration

		// Redis configuration, used when Backend is "redis"
		Redis struct {
			URL      string
			Password string
			DB       int
		}
	}

	// RateLimit configuration: minimum interval between requests per source
	RateLimit struct {
		GitHubInterval     time.Duration
		GitHubAnonInterval time.Duration
		CrunchbaseInterval time.Duration
	}

	// Retry configuration shared by all source clients
	Retry struct {
		MaxAttempts       int
		DefaultRetryAfter time.Duration
		BackoffBase       time.Duration
	}

	// Heuristics holds the inference tables used by source mappers
	Heuristics Heuristics

	// HTTP configuration
	HTTP struct {
		Timeout time.Duration
	}

	// Tracing configuration
	Tracing struct {
		Enabled           bool
		ServiceName       string
		CollectorEndpoint string
	}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	config := &Config{}

	// Sources configuration
	config.Sources.GitHub.Enabled = getEnvBool("GITHUB_SOURCE_ENABLED", true)
	config.Sources.GitHub.Token = getEnv("GITHUB_TOKEN", "")
	config.Sources.GitHub.BaseURL = getEnv("GITHUB_BASE_URL", "")
	config.Sources.GitHub.SearchQuery = getEnv("GITHUB_SEARCH_QUERY", "topic:startup stars:>100")
	config.Sources.GitHub.MaxOrgs = getEnvInt("GITHUB_MAX_ORGS", 20)
	config.Sources.GitHub.AllowFallback = getEnvBool("GITHUB_ALLOW_FALLBACK", true)

	config.Sources.Crunchbase.Enabled = getEnvBool("CRUNCHBASE_SOURCE_ENABLED", false)
	config.Sources.Crunchbase.APIKey = getEnv("CRUNCHBASE_API_KEY", "")
	config.Sources.Crunchbase.BaseURL = getEnv("CRUNCHBASE_BASE_URL", "https://api.crunchbase.com/api/v4")
	config.Sources.Crunchbase.Query = getEnv("CRUNCHBASE_QUERY", "")
	config.Sources.Crunchbase.MaxOrgs = getEnvInt("CRUNCHBASE_MAX_ORGS", 20)
	config.Sources.Crunchbase.AllowFallback = getEnvBool("CRUNCHBASE_ALLOW_FALLBACK", true)

	// Cache configuration
	config.Cache.Backend = getEnv("CACHE_BACKEND", "memory")
	config.Cache.GitHubTTL = getEnvDuration("CACHE_GITHUB_TTL", 10*time.Minute)
	config.Cache.CrunchbaseTTL = getEnvDuration("CACHE_CRUNCHBASE_TTL", 30*time.Minute)
	config.Cache.StaticTTL = getEnvDuration("CACHE_STATIC_TTL", time.Hour)
	config.Cache.Redis.URL = getEnv("REDIS_URL", "localhost:6379")
	config.Cache.Redis.Password = getEnv("REDIS_PASSWORD", "")
	config.Cache.Redis.DB = getEnvInt("REDIS_DB", 0)

	// Rate limit configuration
	config.RateLimit.GitHubInterval = getEnvDuration("GITHUB_MIN_INTERVAL", time.Second)
	config.RateLimit.GitHubAnonInterval = getEnvDuration("GITHUB_ANON_MIN_INTERVAL", 2*time.Second)
	config.RateLimit.CrunchbaseInterval = getEnvDuration("CRUNCHBASE_MIN_INTERVAL", 500*time.Millisecond)

	// Retry configuration
	config.Retry.MaxAttempts = getEnvInt("RETRY_MAX_ATTEMPTS", 3)
	config.Retry.DefaultRetryAfter = getEnvDuration("RETRY_DEFAULT_RETRY_AFTER", 5*time.Second)
	config.Retry.BackoffBase = getEnvDuration("RETRY_BACKOFF_BASE", time.Second)

	// Heuristics configuration
	config.Heuristics = DefaultHeuristics()

	// HTTP configuration
	config.HTTP.Timeout = getEnvDuration("HTTP_TIMEOUT", 30*time.Second)

	// Tracing configuration
	config.Tracing.Enabled = getEnvBool("OTEL_ENABLED", false)
	config.Tracing.ServiceName = getEnv("OTEL_SERVICE_NAME", "venturegraph-sdk")
	config.Tracing.CollectorEndpoint = getEnv("OTEL_COLLECTOR_ENDPOINT", "localhost:4317")

	return config
}

var (
	globalConfig *Config
	configOnce   sync.Once
)

// Get returns the global configuration, loading it from the environment on
// first use
func Get() *Config {
	configOnce.Do(func() {
		globalConfig = LoadFromEnv()
	})
	return globalConfig
}

// Reset clears the global configuration so the next Get reloads it
func Reset() {
	globalConfig = nil
	configOnce = sync.Once{}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration (e.g. "500ms",
// "10m") or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
