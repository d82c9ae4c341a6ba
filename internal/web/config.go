package web

import (
	"github.com/geoproc/internal/config"
)

// Config represents the web server configuration
type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Database DatabaseConfig
	Features FeatureConfig
	Debug    bool
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string
	Port int
}

// UpstreamConfig contains the external service endpoints
type UpstreamConfig struct {
	RelayURL      string
	GeocodeURL    string
	GeocodeAPIKey string
}

// DatabaseConfig contains the optional corrections database settings
type DatabaseConfig struct {
	URL string
}

// FeatureConfig contains feature toggles
type FeatureConfig struct {
	ExportEnabled         bool
	ManualOverrideEnabled bool
}

// LoadConfig builds the configuration from environment variables,
// reading a .env file first if one is present
func LoadConfig() *Config {
	config.LoadEnv()

	return &Config{
		Server: ServerConfig{
			Host: config.GetEnv("WEB_HOST", "0.0.0.0"),
			Port: config.GetEnvInt("WEB_PORT", 8080),
		},
		Upstream: UpstreamConfig{
			RelayURL:      config.GetEnv("RELAY_URL", "http://localhost:8000/api/upload"),
			GeocodeURL:    config.GetEnv("GEOCODE_URL", "https://maps.googleapis.com/maps/api/geocode/json"),
			GeocodeAPIKey: config.GetEnv("GEOCODE_API_KEY", ""),
		},
		Database: DatabaseConfig{
			URL: config.GetEnv("DATABASE_URL", ""),
		},
		Features: FeatureConfig{
			ExportEnabled:         config.GetEnvBool("ENABLE_EXPORT", true),
			ManualOverrideEnabled: config.GetEnvBool("ENABLE_MANUAL_OVERRIDE", true),
		},
		Debug: config.GetEnvBool("DEBUG", false),
	}
}
