package core

import (
	"os"
)

// Config holds the application configuration.
type Config struct {
	LogLevel        string // debug, info, warn, error
	ListenAddr      string // Host HTTP listen address
	PlatformBaseURL string // Local platform endpoint for install/health calls
	ConfigPath      string // Path of the persisted plugin configuration file
	LockPath        string // Advisory lock guarding the configuration file
	EventBuffer     int    // Notification channel capacity
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	logLevel := getEnvOrDefault("LOG_LEVEL", "info")

	// DEBUG flag overrides log level
	if os.Getenv("DEBUG") == "1" {
		logLevel = "debug"
	}

	cfg := &Config{
		LogLevel:        logLevel,
		ListenAddr:      getEnvOrDefault("PLUGSETUP_LISTEN_ADDR", ":8790"),
		PlatformBaseURL: getEnvOrDefault("PLUGSETUP_PLATFORM_URL", "http://127.0.0.1:8787"),
		ConfigPath:      getEnvOrDefault("PLUGSETUP_CONFIG_PATH", ".plugsetup/config.yaml"),
		LockPath:        getEnvOrDefault("PLUGSETUP_LOCK_PATH", ".plugsetup/.lock"),
		EventBuffer:     64,
	}

	return cfg, nil
}

// getEnvOrDefault returns the value of an environment variable or a default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
