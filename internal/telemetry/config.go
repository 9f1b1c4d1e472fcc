package telemetry

import "os"

// Config holds the logging configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	LogLevel       string
}

// NewConfigFromEnv creates a new config from environment variables.
func NewConfigFromEnv() *Config {
	return &Config{
		ServiceName:    getEnv("ARTIFACTS_SERVICE_NAME", "artifacts-go"),
		ServiceVersion: getEnv("ARTIFACTS_SERVICE_VERSION", "unknown"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		LogLevel:       getEnv("ARTIFACTS_LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
