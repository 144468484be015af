// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Store     StoreConfig
	Server    ServerConfig
	Recommend RecommendConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// StoreConfig holds database storage configuration.
type StoreConfig struct {
	// Path is the directory for the embedded database.
	Path string
	// SearchIndexPath is the directory for the course search index.
	// Defaults to {store}/search.
	SearchIndexPath string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Name         string
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
	// RecommendRPS limits recommendation requests per viewer.
	RecommendRPS   float64
	RecommendBurst int
}

// RecommendConfig holds the recommendation scoring constants.
// These were implicit policy in earlier revisions; they are hoisted here
// so they can be tuned and tested in isolation.
type RecommendConfig struct {
	TagWeight        float64 // Weight of tag affinity in the reference vector
	RatingWeight     float64 // Weight of rating alignment
	PopularityWeight float64 // Weight of enrollment popularity
	PopularityScale  int     // Enrollment count at which popularity saturates
	DefaultLimit     int     // Result count when the client does not specify one
	MaxLimit         int     // Server-enforced cap on requested result count
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	storePath := flag.String("store-path", "", "Directory for the embedded database")
	searchPath := flag.String("search-index-path", "", "Directory for the course search index")
	serverName := flag.String("server-name", "", "Name for the server")
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			Path:            getConfigValue(*storePath, "STORE_PATH", ""),
			SearchIndexPath: getConfigValue(*searchPath, "SEARCH_INDEX_PATH", ""),
		},
		Server: ServerConfig{
			Name:           getConfigValue(*serverName, "SERVER_NAME", "SkillForge Server"),
			Port:           getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			RecommendRPS:   getFloatConfigValue("", "RECOMMEND_RPS", 5),
			RecommendBurst: getIntConfigValue("", "RECOMMEND_BURST", 10),
		},
		Recommend: RecommendConfig{
			TagWeight:        getFloatConfigValue("", "RECOMMEND_TAG_WEIGHT", 0.65),
			RatingWeight:     getFloatConfigValue("", "RECOMMEND_RATING_WEIGHT", 0.25),
			PopularityWeight: getFloatConfigValue("", "RECOMMEND_POPULARITY_WEIGHT", 0.10),
			PopularityScale:  getIntConfigValue("", "RECOMMEND_POPULARITY_SCALE", 50),
			DefaultLimit:     getIntConfigValue("", "RECOMMEND_DEFAULT_LIMIT", 5),
			MaxLimit:         getIntConfigValue("", "RECOMMEND_MAX_LIMIT", 20),
		},
	}

	// Parse server timeouts.
	readTimeoutStr := getConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s")
	readTimeoutDuration, err := time.ParseDuration(readTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid read timeout %q: %w", readTimeoutStr, err)
	}
	cfg.Server.ReadTimeout = readTimeoutDuration

	writeTimeoutStr := getConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s")
	writeTimeoutDuration, err := time.ParseDuration(writeTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid write timeout %q: %w", writeTimeoutStr, err)
	}
	cfg.Server.WriteTimeout = writeTimeoutDuration

	idleTimeoutStr := getConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s")
	idleTimeoutDuration, err := time.ParseDuration(idleTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid idle timeout %q: %w", idleTimeoutStr, err)
	}
	cfg.Server.IdleTimeout = idleTimeoutDuration

	// Expand and validate the store path.
	if err := cfg.expandStorePaths(); err != nil {
		return nil, fmt.Errorf("invalid store path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Store.Path == "" {
		return errors.New("store path cannot be empty after expansion")
	}

	r := c.Recommend
	if r.TagWeight < 0 || r.RatingWeight < 0 || r.PopularityWeight < 0 {
		return errors.New("recommendation weights must be non-negative")
	}
	if r.TagWeight+r.RatingWeight+r.PopularityWeight == 0 {
		return errors.New("at least one recommendation weight must be positive")
	}
	if r.PopularityScale <= 0 {
		return fmt.Errorf("popularity scale must be positive, got %d", r.PopularityScale)
	}
	if r.DefaultLimit <= 0 || r.MaxLimit <= 0 || r.DefaultLimit > r.MaxLimit {
		return fmt.Errorf("invalid recommendation limits: default=%d max=%d", r.DefaultLimit, r.MaxLimit)
	}

	return nil
}

// expandStorePaths expands ~ and makes the store paths absolute.
func (c *Config) expandStorePaths() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "skillforge", "db")

	expanded, err := expandPath(c.Store.Path, defaultPath)
	if err != nil {
		return err
	}
	c.Store.Path = expanded

	searchDefault := filepath.Join(c.Store.Path, "search")
	expandedSearch, err := expandPath(c.Store.SearchIndexPath, searchDefault)
	if err != nil {
		return err
	}
	c.Store.SearchIndexPath = expandedSearch
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float64 from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result float64
	if _, err := fmt.Sscanf(strValue, "%g", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		// Env vars take precedence over .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
