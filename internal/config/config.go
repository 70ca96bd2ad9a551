// Package config provides configuration loading and validation for the
// CLI and for embedding hosts.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config is the application configuration. All fields are optional;
// missing values use defaults or come from environment variables.
type Config struct {
	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL; empty runs in-memory
	RedisAddr   string `json:"redis_addr,omitempty"`   // Redis address for local state; empty runs in-memory
	RedisDB     int    `json:"redis_db,omitempty"`

	// Identity
	UserID    string `json:"user_id,omitempty"`    // Fixed user ID for single-user runs
	JWTSecret string `json:"jwt_secret,omitempty"` // HS256 secret when identity comes from a token
	JWTToken  string `json:"jwt_token,omitempty"`

	// Suggestions
	APIKey string `json:"api_key,omitempty"` // Gemini API key
	Model  string `json:"model,omitempty"`   // Gemini model name

	// Behavior
	AutoSaveInterval int    `json:"auto_save_interval,omitempty"` // seconds; 0 uses the stored preference
	LogLevel         string `json:"log_level,omitempty"`
	LogFormat        string `json:"log_format,omitempty"` // "json" or "console"
}

// Load reads configuration from a JSON file.
func Load(path string) (*Config, error) {
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
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return &cfg, nil
}

// FromEnv fills a config from environment variables.
func FromEnv() Config {
	cfg := Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		UserID:      os.Getenv("RESUME_USER_ID"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		JWTToken:    os.Getenv("JWT_TOKEN"),
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		Model:       os.Getenv("GEMINI_MODEL"),
		LogLevel:    os.Getenv("LOG_LEVEL"),
		LogFormat:   os.Getenv("LOG_FORMAT"),
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = db
		}
	}
	if v := os.Getenv("AUTO_SAVE_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.AutoSaveInterval = n
		}
	}
	return cfg
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.AutoSaveInterval < 0 {
		return fmt.Errorf("config error: 'auto_save_interval' must be non-negative")
	}
	if c.RedisDB < 0 {
		return fmt.Errorf("config error: 'redis_db' must be non-negative")
	}
	if c.JWTToken != "" && c.JWTSecret == "" {
		return fmt.Errorf("config error: 'jwt_token' requires 'jwt_secret'")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. CLI flags beat config files beat environment.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisAddr == "" {
		result.RedisAddr = defaults.RedisAddr
	}
	if result.RedisDB == 0 {
		result.RedisDB = defaults.RedisDB
	}
	if result.UserID == "" {
		result.UserID = defaults.UserID
	}
	if result.JWTSecret == "" {
		result.JWTSecret = defaults.JWTSecret
	}
	if result.JWTToken == "" {
		result.JWTToken = defaults.JWTToken
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.AutoSaveInterval == 0 {
		result.AutoSaveInterval = defaults.AutoSaveInterval
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}
	return result
}
