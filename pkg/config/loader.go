package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// LoadFile loads configuration from a YAML file layered on top of the
// environment: every key present in the file overrides the env-derived
// value, everything else keeps its default.
func LoadFile(path string) (*Config, error) {
	config := LoadFromEnv()

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if v.IsSet("sources.github.enabled") {
		config.Sources.GitHub.Enabled = v.GetBool("sources.github.enabled")
	}
	if v.IsSet("sources.github.token") {
		config.Sources.GitHub.Token = v.GetString("sources.github.token")
	}
	if v.IsSet("sources.github.searchQuery") {
		config.Sources.GitHub.SearchQuery = v.GetString("sources.github.searchQuery")
	}
	if v.IsSet("sources.github.maxOrgs") {
		config.Sources.GitHub.MaxOrgs = v.GetInt("sources.github.maxOrgs")
	}
	if v.IsSet("sources.github.allowFallback") {
		config.Sources.GitHub.AllowFallback = v.GetBool("sources.github.allowFallback")
	}

	if v.IsSet("sources.crunchbase.enabled") {
		config.Sources.Crunchbase.Enabled = v.GetBool("sources.crunchbase.enabled")
	}
	if v.IsSet("sources.crunchbase.apiKey") {
		config.Sources.Crunchbase.APIKey = v.GetString("sources.crunchbase.apiKey")
	}
	if v.IsSet("sources.crunchbase.baseUrl") {
		config.Sources.Crunchbase.BaseURL = v.GetString("sources.crunchbase.baseUrl")
	}
	if v.IsSet("sources.crunchbase.query") {
		config.Sources.Crunchbase.Query = v.GetString("sources.crunchbase.query")
	}
	if v.IsSet("sources.crunchbase.allowFallback") {
		config.Sources.Crunchbase.AllowFallback = v.GetBool("sources.crunchbase.allowFallback")
	}

	if v.IsSet("cache.backend") {
		config.Cache.Backend = v.GetString("cache.backend")
	}
	if v.IsSet("cache.githubTtl") {
		config.Cache.GitHubTTL = v.GetDuration("cache.githubTtl")
	}
	if v.IsSet("cache.crunchbaseTtl") {
		config.Cache.CrunchbaseTTL = v.GetDuration("cache.crunchbaseTtl")
	}
	if v.IsSet("cache.staticTtl") {
		config.Cache.StaticTTL = v.GetDuration("cache.staticTtl")
	}
	if v.IsSet("cache.redis.url") {
		config.Cache.Redis.URL = v.GetString("cache.redis.url")
	}

	if v.IsSet("retry.maxAttempts") {
		config.Retry.MaxAttempts = v.GetInt("retry.maxAttempts")
	}
	if v.IsSet("retry.defaultRetryAfter") {
		config.Retry.DefaultRetryAfter = v.GetDuration("retry.defaultRetryAfter")
	}
	if v.IsSet("retry.backoffBase") {
		config.Retry.BackoffBase = v.GetDuration("retry.backoffBase")
	}

	if v.IsSet("rateLimit.githubInterval") {
		config.RateLimit.GitHubInterval = v.GetDuration("rateLimit.githubInterval")
	}
	if v.IsSet("rateLimit.crunchbaseInterval") {
		config.RateLimit.CrunchbaseInterval = v.GetDuration("rateLimit.crunchbaseInterval")
	}

	if v.IsSet("heuristics") {
		if err := v.UnmarshalKey("heuristics", &config.Heuristics); err != nil {
			return nil, fmt.Errorf("failed to parse heuristics overlay: %w", err)
		}
		if err := config.Heuristics.Validate(); err != nil {
			return nil, err
		}
	}

	return config, nil
}
