// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AI providers
const (
	ProviderService = "service"
	ProviderGemini  = "gemini"
	ProviderNone    = "none"
)

// Session store kinds
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config represents settings that can be loaded from a JSON or YAML file.
// All fields are optional; missing values come from the environment or defaults.
type Config struct {
	// AI backend
	AIProvider     string `json:"ai_provider,omitempty" yaml:"ai_provider,omitempty"`         // service, gemini or none
	AIServiceURL   string `json:"ai_service_url,omitempty" yaml:"ai_service_url,omitempty"`   // Endpoint of the suggestion service
	APIKey         string `json:"api_key,omitempty" yaml:"api_key,omitempty"`                 // Gemini API key
	Model          string `json:"model,omitempty" yaml:"model,omitempty"`                     // Overrides the Gemini model for suggestions
	RequestTimeout string `json:"request_timeout,omitempty" yaml:"request_timeout,omitempty"` // Remote call timeout, e.g. "10s"

	// Optimization
	OptimizationLevel string `json:"optimization_level,omitempty" yaml:"optimization_level,omitempty"`

	// Persistence
	Store       string `json:"store,omitempty" yaml:"store,omitempty"`               // memory, postgres or redis
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL connection URL
	RedisURL    string `json:"redis_url,omitempty" yaml:"redis_url,omitempty"`       // Redis connection URL

	// Server
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// Behavior
	LogLevel   string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	UseBrowser bool   `json:"use_browser,omitempty" yaml:"use_browser,omitempty"` // Use headless browser for job boards that render with JS
	Verbose    bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// Defaults returns the configuration used when nothing else is set
func Defaults() Config {
	return Config{
		AIProvider:        ProviderNone,
		RequestTimeout:    "10s",
		OptimizationLevel: "moderate",
		Store:             StoreMemory,
		Port:              8080,
		LogLevel:          "info",
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// FromEnv reads configuration from environment variables using getenv (usually os.Getenv)
func FromEnv(getenv func(string) string) Config {
	cfg := Config{
		AIProvider:        getenv("CV_AI_PROVIDER"),
		AIServiceURL:      getenv("CV_AI_SERVICE_URL"),
		APIKey:            getenv("GEMINI_API_KEY"),
		Model:             getenv("GEMINI_MODEL"),
		RequestTimeout:    getenv("CV_REQUEST_TIMEOUT"),
		OptimizationLevel: getenv("CV_OPTIMIZATION_LEVEL"),
		Store:             getenv("CV_STORE"),
		DatabaseURL:       getenv("DATABASE_URL"),
		RedisURL:          getenv("REDIS_URL"),
		LogLevel:          getenv("LOG_LEVEL"),
	}
	if port, err := strconv.Atoi(getenv("PORT")); err == nil {
		cfg.Port = port
	}
	if b, err := strconv.ParseBool(getenv("CV_USE_BROWSER")); err == nil {
		cfg.UseBrowser = b
	}
	return cfg
}

// Validate checks that the configuration has valid values.
// Required connection strings are only checked for the backends that need them.
func (c *Config) Validate() error {
	switch c.AIProvider {
	case "", ProviderNone, ProviderGemini:
	case ProviderService:
		if c.AIServiceURL == "" {
			return fmt.Errorf("config error: 'ai_service_url' is required when 'ai_provider' is %q", ProviderService)
		}
	default:
		return fmt.Errorf("config error: unknown 'ai_provider' %q", c.AIProvider)
	}

	switch c.Store {
	case "", StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required for the postgres store")
		}
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config error: 'redis_url' is required for the redis store")
		}
	default:
		return fmt.Errorf("config error: unknown 'store' %q", c.Store)
	}

	switch c.OptimizationLevel {
	case "", "conservative", "moderate", "aggressive":
	default:
		return fmt.Errorf("config error: unknown 'optimization_level' %q", c.OptimizationLevel)
	}

	if c.RequestTimeout != "" {
		if d, err := time.ParseDuration(c.RequestTimeout); err != nil || d <= 0 {
			return fmt.Errorf("config error: 'request_timeout' must be a positive duration, got %q", c.RequestTimeout)
		}
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	return nil
}

// Timeout returns RequestTimeout as a duration, or fallback when unset or invalid
func (c *Config) Timeout(fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// Layers are merged highest priority first: flags, then file, then env, then Defaults().
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.AIProvider == "" {
		result.AIProvider = defaults.AIProvider
	}
	if result.AIServiceURL == "" {
		result.AIServiceURL = defaults.AIServiceURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.RequestTimeout == "" {
		result.RequestTimeout = defaults.RequestTimeout
	}
	if result.OptimizationLevel == "" {
		result.OptimizationLevel = defaults.OptimizationLevel
	}
	if result.Store == "" {
		result.Store = defaults.Store
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bools cannot distinguish unset from false; either layer may turn them on
	result.UseBrowser = result.UseBrowser || defaults.UseBrowser
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}
