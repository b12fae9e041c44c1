// Package config provides configuration management for the Job Finder MCP Server.
// It supports loading configuration from config files and environment variables,
// with proper precedence handling: config file > environment variables > defaults.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration settings for the Job Finder MCP Server.
type Config struct {
	// Server settings
	LogLevel string // Log level: debug, info, warn, error (default: info)

	// Auth settings (both required, no defaults)
	AuthToken string // Static bearer secret presented by callers (env: AUTH_TOKEN)
	MyNumber  string // Identifier returned by the validate tool (env: MY_NUMBER)

	// Transport settings
	TransportType string // Transport: stdio, sse, streamablehttp (default: streamablehttp)
	Host          string // Bind host for network transports (default: 0.0.0.0)
	Port          int    // Bind port for network transports (default: 8086)

	// Outbound HTTP settings
	FetchTimeout   int    // Timeout for outbound fetches in seconds (default: 30)
	UserAgent      string // User agent for outbound requests
	MaxOutboundRPS int    // Outbound requests per second across all tools (default: 5)

	// Search settings
	MaxSearchResults int // Maximum links returned by the scraper (default: 5)

	// Trivia session settings
	SessionStore  string // Session store backend: memory or sqlite (default: memory)
	SessionDBPath string // SQLite database path, required when SessionStore is sqlite
}

// DefaultUserAgent identifies outbound requests made on behalf of tools.
const DefaultUserAgent = "Puch/1.0 (Autonomous)"

// NewConfig creates a new Config with default values for all optional
// parameters. AuthToken and MyNumber have no defaults and must be supplied.
func NewConfig() *Config {
	return &Config{
		LogLevel: "info",

		TransportType: "streamablehttp",
		Host:          "0.0.0.0",
		Port:          8086,

		FetchTimeout:   30,
		UserAgent:      DefaultUserAgent,
		MaxOutboundRPS: 5,

		MaxSearchResults: 5,

		SessionStore:  "memory",
		SessionDBPath: "",
	}
}

// Load loads configuration from environment variables with defaults.
// Returns a Config with values from environment variables or defaults.
func Load() (*Config, error) {
	cfg := NewConfig()

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file, with environment
// variables as fallback, and defaults as final fallback.
func LoadFromFile(configPath string) (*Config, error) {
	cfg := NewConfig()

	loadFromEnv(cfg)

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Override with config file values (only if they exist in the file)
	if v.IsSet("log_level") {
		cfg.LogLevel = v.GetString("log_level")
	}
	if v.IsSet("auth_token") {
		cfg.AuthToken = v.GetString("auth_token")
	}
	if v.IsSet("my_number") {
		cfg.MyNumber = v.GetString("my_number")
	}
	if v.IsSet("transport") {
		cfg.TransportType = v.GetString("transport")
	}
	if v.IsSet("host") {
		cfg.Host = v.GetString("host")
	}
	if v.IsSet("port") {
		cfg.Port = v.GetInt("port")
	}
	if v.IsSet("fetch_timeout") {
		cfg.FetchTimeout = v.GetInt("fetch_timeout")
	}
	if v.IsSet("user_agent") {
		cfg.UserAgent = v.GetString("user_agent")
	}
	if v.IsSet("max_outbound_rps") {
		cfg.MaxOutboundRPS = v.GetInt("max_outbound_rps")
	}
	if v.IsSet("max_search_results") {
		cfg.MaxSearchResults = v.GetInt("max_search_results")
	}
	if v.IsSet("session_store") {
		cfg.SessionStore = v.GetString("session_store")
	}
	if v.IsSet("session_db_path") {
		cfg.SessionDBPath = v.GetString("session_db_path")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromEnv loads configuration from environment variables into the provided Config
func loadFromEnv(cfg *Config) {
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		cfg.LogLevel = val
	}
	if val := os.Getenv("AUTH_TOKEN"); val != "" {
		cfg.AuthToken = val
	}
	if val := os.Getenv("MY_NUMBER"); val != "" {
		cfg.MyNumber = val
	}
	if val := os.Getenv("TRANSPORT"); val != "" {
		cfg.TransportType = val
	}
	if val := os.Getenv("HOST"); val != "" {
		cfg.Host = val
	}
	if val := os.Getenv("PORT"); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			cfg.Port = intVal
		}
	}
	if val := os.Getenv("FETCH_TIMEOUT"); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			cfg.FetchTimeout = intVal
		}
	}
	if val := os.Getenv("USER_AGENT"); val != "" {
		cfg.UserAgent = val
	}
	if val := os.Getenv("MAX_OUTBOUND_RPS"); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			cfg.MaxOutboundRPS = intVal
		}
	}
	if val := os.Getenv("MAX_SEARCH_RESULTS"); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			cfg.MaxSearchResults = intVal
		}
	}
	if val := os.Getenv("SESSION_STORE"); val != "" {
		cfg.SessionStore = val
	}
	if val := os.Getenv("SESSION_DB_PATH"); val != "" {
		cfg.SessionDBPath = val
	}
}

// Validate validates all configuration values and returns descriptive errors
// for any invalid settings. The server must not start with invalid configuration;
// in particular, a missing AuthToken or MyNumber aborts startup.
func (c *Config) Validate() error {
	var errors []string

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel))
	}

	if c.AuthToken == "" {
		errors = append(errors, "auth_token is required (set AUTH_TOKEN)")
	}
	if c.MyNumber == "" {
		errors = append(errors, "my_number is required (set MY_NUMBER)")
	}

	if c.FetchTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("fetch_timeout must be positive, got: %d", c.FetchTimeout))
	}
	if c.MaxOutboundRPS <= 0 {
		errors = append(errors, fmt.Sprintf("max_outbound_rps must be positive, got: %d", c.MaxOutboundRPS))
	}
	if c.MaxSearchResults <= 0 {
		errors = append(errors, fmt.Sprintf("max_search_results must be positive, got: %d", c.MaxSearchResults))
	}
	if c.UserAgent == "" {
		errors = append(errors, "user_agent cannot be empty")
	}

	switch c.SessionStore {
	case "memory":
	case "sqlite":
		if c.SessionDBPath == "" {
			errors = append(errors, "session_db_path is required when session_store is sqlite")
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid session_store: %s (must be one of: memory, sqlite)", c.SessionStore))
	}

	if err := c.ValidateTransport(); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}

// ValidateTransport validates the transport type and its network settings.
func (c *Config) ValidateTransport() error {
	switch c.TransportType {
	case "stdio":
		return nil
	case "sse", "streamablehttp":
		if c.Port <= 0 || c.Port > 65535 {
			return fmt.Errorf("invalid transport port for %s: %d", c.TransportType, c.Port)
		}
		return nil
	default:
		return fmt.Errorf("invalid transport: %s (must be one of: stdio, sse, streamablehttp)", c.TransportType)
	}
}

// GetTransportType returns the configured transport type.
func (c *Config) GetTransportType() string {
	return c.TransportType
}

// GetPort returns the configured network port.
func (c *Config) GetPort() int {
	return c.Port
}

// GetTransportAddress returns the host:port address for network transports,
// or an empty string for stdio.
func (c *Config) GetTransportAddress() string {
	if c.TransportType == "stdio" {
		return ""
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
