package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Address the MCP server listens on
	Addr string

	// Optional bearer token protecting the MCP endpoint
	BearerToken string

	// Log level (debug, info, warn, error)
	LogLevel string

	// Last.fm API credentials and auth state
	LastFM LastFMConfig
}

// LastFMConfig holds Last.fm specific configuration
type LastFMConfig struct {
	APIKey       string
	SharedSecret string
	SessionKey   string
	// AuthToken carries an in-flight, not-yet-exchanged request token
	// between a token-request step and a later exchange step.
	AuthToken string
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Config file locations (in order of precedence)
	configDir := getConfigDir()
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Set defaults
	v.SetDefault("addr", ":8080")
	v.SetDefault("log_level", "info")

	// Read config file (optional - don't fail if missing)
	_ = v.ReadInConfig()

	// Read from environment variables: LASTFM_API_KEY,
	// LASTFM_SHARED_SECRET, LASTFM_SESSION_KEY, LASTFM_AUTH_TOKEN,
	// LASTFM_ADDR, LASTFM_TOKEN, LASTFM_LOG_LEVEL
	v.SetEnvPrefix("LASTFM")
	v.AutomaticEnv()

	// Map config to struct
	cfg := &Config{
		Addr:        v.GetString("addr"),
		BearerToken: v.GetString("token"),
		LogLevel:    v.GetString("log_level"),
		LastFM: LastFMConfig{
			APIKey:       v.GetString("api_key"),
			SharedSecret: v.GetString("shared_secret"),
			SessionKey:   v.GetString("session_key"),
			AuthToken:    v.GetString("auth_token"),
		},
	}

	return cfg, nil
}

// getConfigDir returns the configuration directory path
// Creates the directory if it doesn't exist
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	configDir := filepath.Join(homeDir, ".config", "lastfm-mcp")

	// Create config directory if it doesn't exist
	_ = os.MkdirAll(configDir, 0755)

	return configDir
}

// GetConfigDir returns the configuration directory path (public helper)
func GetConfigDir() string {
	return getConfigDir()
}

// Save writes configuration to file
func (c *Config) Save() error {
	v := viper.New()

	// Set config file path
	configDir := getConfigDir()
	configFile := filepath.Join(configDir, "config.yaml")

	// Set values in viper
	v.Set("addr", c.Addr)
	v.Set("token", c.BearerToken)
	v.Set("log_level", c.LogLevel)
	v.Set("api_key", c.LastFM.APIKey)
	v.Set("shared_secret", c.LastFM.SharedSecret)
	v.Set("session_key", c.LastFM.SessionKey)
	v.Set("auth_token", c.LastFM.AuthToken)

	// Write to file
	return v.WriteConfigAs(configFile)
}
