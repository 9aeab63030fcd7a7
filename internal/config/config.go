package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rebeliceyang/lazydb/internal/models"
)

// AppName names the config and cache directories
const AppName = "lazydb"

// Config holds all application configuration
type Config struct {
	Connection  ConnectionConfig  `mapstructure:"connection"`
	UI          UIConfig          `mapstructure:"ui"`
	Data        DataConfig        `mapstructure:"data"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Performance PerformanceConfig `mapstructure:"performance"`
}

type ConnectionConfig struct {
	Driver         string `mapstructure:"driver"`
	DSN            string `mapstructure:"dsn"`
	ConnectTimeout int    `mapstructure:"connect_timeout"` // seconds
}

type UIConfig struct {
	Theme           string `mapstructure:"theme"`
	MouseEnabled    bool   `mapstructure:"mouse_enabled"`
	PanelWidthRatio int    `mapstructure:"panel_width_ratio"`
}

type DataConfig struct {
	SampleLimit          int    `mapstructure:"sample_limit"`
	MaxCellDisplayLength int    `mapstructure:"max_cell_display_length"`
	NullPlaceholder      string `mapstructure:"null_placeholder"`
}

// LoggingConfig configures the zap logger. Output is "stderr", "stdout",
// "discard" or a file path; empty means the default log file.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type PerformanceConfig struct {
	QueryTimeout int `mapstructure:"query_timeout"` // milliseconds
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		Connection: ConnectionConfig{
			ConnectTimeout: 10,
		},
		UI: UIConfig{
			Theme:           "default",
			MouseEnabled:    true,
			PanelWidthRatio: 25,
		},
		Data: DataConfig{
			SampleLimit:          100,
			MaxCellDisplayLength: 50,
			NullPlaceholder:      "NULL",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Performance: PerformanceConfig{
			QueryTimeout: 30000,
		},
	}
}

// Load loads configuration from path, or from the first config.yaml found in
// the search paths when path is empty. A missing config file is not an error.
// LAZYDB_* environment variables override file values, e.g.
// LAZYDB_CONNECTION_DSN.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Add config paths in priority order
		// 1. User config directory
		if configDir, err := GetConfigPath(); err == nil {
			v.AddConfigPath(configDir)
		}

		// 2. Current directory
		v.AddConfigPath(".")

		// 3. Default config directory
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("LAZYDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := GetDefaults()
	v.SetDefault("connection.driver", defaults.Connection.Driver)
	v.SetDefault("connection.dsn", defaults.Connection.DSN)
	v.SetDefault("connection.connect_timeout", defaults.Connection.ConnectTimeout)
	v.SetDefault("ui.theme", defaults.UI.Theme)
	v.SetDefault("ui.mouse_enabled", defaults.UI.MouseEnabled)
	v.SetDefault("ui.panel_width_ratio", defaults.UI.PanelWidthRatio)
	v.SetDefault("data.sample_limit", defaults.Data.SampleLimit)
	v.SetDefault("data.max_cell_display_length", defaults.Data.MaxCellDisplayLength)
	v.SetDefault("data.null_placeholder", defaults.Data.NullPlaceholder)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.output", defaults.Logging.Output)
	v.SetDefault("performance.query_timeout", defaults.Performance.QueryTimeout)

	// Read config (it's okay if file doesn't exist, we have defaults)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	// Unmarshal into struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Data.SampleLimit <= 0 {
		return fmt.Errorf("data.sample_limit must be positive, got %d", c.Data.SampleLimit)
	}
	if c.UI.PanelWidthRatio < 10 || c.UI.PanelWidthRatio > 80 {
		return fmt.Errorf("ui.panel_width_ratio must be between 10 and 80, got %d", c.UI.PanelWidthRatio)
	}
	if c.Performance.QueryTimeout < 0 {
		return fmt.Errorf("performance.query_timeout must not be negative")
	}
	return nil
}

// ConnectionTarget converts the connection section to a connection config
func (c *Config) ConnectionTarget() models.ConnectionConfig {
	return models.ConnectionConfig{
		Driver:         c.Connection.Driver,
		DSN:            c.Connection.DSN,
		ConnectTimeout: time.Duration(c.Connection.ConnectTimeout) * time.Second,
	}
}

// QueryTimeout returns the per-sample timeout, zero for none
func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.Performance.QueryTimeout) * time.Millisecond
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, AppName), nil
}

// DefaultLogFile returns the log file used when logging.output is empty
func DefaultLogFile() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, AppName, AppName+".log"), nil
}

// Overrides holds command line values that take precedence over the config
// file. Zero values leave the config untouched.
type Overrides struct {
	Driver   string
	DSN      string
	Theme    string
	LogLevel string
	LogFile  string
	Limit    int
}

// ApplyOverrides applies non-zero overrides and validates the result
func (c *Config) ApplyOverrides(o Overrides) error {
	if o.Driver != "" {
		c.Connection.Driver = o.Driver
	}
	if o.DSN != "" {
		c.Connection.DSN = o.DSN
	}
	if o.Theme != "" {
		c.UI.Theme = o.Theme
	}
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.LogFile != "" {
		c.Logging.Output = o.LogFile
	}
	if o.Limit != 0 {
		c.Data.SampleLimit = o.Limit
	}
	return c.Validate()
}
