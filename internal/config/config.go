package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Google  GoogleConfig  `mapstructure:"google"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Export  ExportConfig  `mapstructure:"export"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// GoogleConfig holds the OAuth application credentials and token location
type GoogleConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	TokenFile    string `mapstructure:"token_file"`
}

// CacheConfig holds local storage locations
type CacheConfig struct {
	Dir      string `mapstructure:"dir"`       // bbolt database directory
	ThumbDir string `mapstructure:"thumb_dir"` // mirrored thumbnail directory
}

// ExportConfig holds export settings
type ExportConfig struct {
	Dir string `mapstructure:"dir"` // destination for JSON exports
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	data := defaultDataPath()
	return &Config{
		Google: GoogleConfig{
			TokenFile: filepath.Join(data, "google-oauth.json"),
		},
		Cache: CacheConfig{
			Dir:      filepath.Join(data, "cache"),
			ThumbDir: filepath.Join(data, "thumbs"),
		},
		Export: ExportConfig{
			Dir: defaultExportPath(),
		},
		Logging: LoggingConfig{
			File:  filepath.Join(data, "likeshelf.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "likeshelf")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "likeshelf")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "likeshelf")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "likeshelf")
	}
}

// defaultExportPath returns where JSON exports land by default
func defaultExportPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "Downloads")
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("LIKESHELF")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.Set("google.client_id", cfg.Google.ClientID)
	viper.Set("google.client_secret", cfg.Google.ClientSecret)
	viper.Set("google.token_file", cfg.Google.TokenFile)

	viper.Set("cache.dir", cfg.Cache.Dir)
	viper.Set("cache.thumb_dir", cfg.Cache.ThumbDir)

	viper.Set("export.dir", cfg.Export.Dir)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// IsConfigured returns true if the OAuth client credentials are set
func (c *Config) IsConfigured() bool {
	return c.Google.ClientID != "" && c.Google.ClientSecret != ""
}
