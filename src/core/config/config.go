package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the agent market registry.
type Config struct {
	// Server configuration
	Host string `env:"HOST" envDefault:"localhost"`
	Port int    `env:"PORT" envDefault:"8000"`

	// Registry configuration
	RegistryName     string `env:"REGISTRY_NAME" envDefault:"agentmarket-registry"`
	DefaultListLimit int    `env:"DEFAULT_LIST_LIMIT" envDefault:"10"`

	// Manifest loading: when set, listing manifests (*.json, *.yaml) in
	// this directory are registered at startup and watched for changes.
	ManifestDir string `env:"MANIFEST_DIR" envDefault:""`

	// Cache configuration
	CacheTTL            int  `env:"CACHE_TTL" envDefault:"30"` // seconds
	EnableResponseCache bool `env:"ENABLE_RESPONSE_CACHE" envDefault:"true"`

	// Logging configuration
	LogLevel  string `env:"AGENTMARKET_LOG_LEVEL" envDefault:"INFO"`
	DebugMode bool   `env:"AGENTMARKET_DEBUG_MODE" envDefault:"false"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() *Config {
	return &Config{
		Host:                getEnvString("HOST", "localhost"),
		Port:                getEnvInt("PORT", 8000),
		RegistryName:        getEnvString("REGISTRY_NAME", "agentmarket-registry"),
		DefaultListLimit:    getEnvInt("DEFAULT_LIST_LIMIT", 10),
		ManifestDir:         getEnvString("MANIFEST_DIR", ""),
		CacheTTL:            getEnvInt("CACHE_TTL", 30),
		EnableResponseCache: getEnvBool("ENABLE_RESPONSE_CACHE", true),
		LogLevel:            getEnvString("AGENTMARKET_LOG_LEVEL", "INFO"),
		DebugMode:           getEnvBool("AGENTMARKET_DEBUG_MODE", false),
	}
}

// Validate ensures configuration is valid.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	if c.CacheTTL < 0 {
		return fmt.Errorf("cache TTL must be non-negative: %d", c.CacheTTL)
	}

	if c.DefaultListLimit < 1 {
		return fmt.Errorf("default list limit must be positive: %d", c.DefaultListLimit)
	}

	validLogLevels := map[string]bool{
		"DEBUG":   true,
		"INFO":    true,
		"WARNING": true,
		"ERROR":   true,
	}
	if !validLogLevels[strings.ToUpper(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (valid: DEBUG, INFO, WARNING, ERROR)", c.LogLevel)
	}

	// Debug mode forces the DEBUG level
	if c.DebugMode {
		c.LogLevel = "DEBUG"
	}

	return nil
}

// IsDebugMode determines if debug mode is enabled.
func (c *Config) IsDebugMode() bool {
	return c.DebugMode || strings.ToUpper(c.LogLevel) == "DEBUG"
}

// ShouldLogAtLevel checks if messages at the given level should be logged.
func (c *Config) ShouldLogAtLevel(level string) bool {
	levelPriority := map[string]int{
		"DEBUG":   0,
		"INFO":    1,
		"WARNING": 2,
		"ERROR":   3,
	}

	currentPriority, exists := levelPriority[strings.ToUpper(c.LogLevel)]
	if !exists {
		currentPriority = 1 // Default to INFO
	}

	checkPriority, exists := levelPriority[strings.ToUpper(level)]
	if !exists {
		return false
	}

	return checkPriority >= currentPriority
}

// Helper functions for environment variable parsing

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
