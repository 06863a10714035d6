package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Scroll  ScrollConfig  `mapstructure:"scroll"`
	Store   StoreConfig   `mapstructure:"store"`
	History HistoryConfig `mapstructure:"history"`
	Feed    FeedConfig    `mapstructure:"feed"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	File     string `mapstructure:"file"`
	Preserve bool   `mapstructure:"preserve"`
	Level    string `mapstructure:"level"`
}

// ScrollConfig holds the tuning knobs of the scroll engine.
//
// BottomEpsilon is the slack (in rows or pixels) still counted as "at
// bottom"; raising it makes autoscroll stickier. TopThreshold is the offset
// under which older history is requested; raising it paginates earlier.
type ScrollConfig struct {
	BottomEpsilon      float64       `mapstructure:"bottom_epsilon"`
	TopThreshold       float64       `mapstructure:"top_threshold"`
	UserScrollCooldown time.Duration `mapstructure:"user_scroll_cooldown"`
	ProgrammaticGrace  time.Duration `mapstructure:"programmatic_grace"`
}

// StoreConfig holds message store configuration
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// HistoryConfig holds history paging configuration
type HistoryConfig struct {
	PageSize int           `mapstructure:"page_size"`
	Latency  time.Duration `mapstructure:"latency"` // artificial delay for each older page
}

// FeedConfig holds the incoming message feed used by the viewer
type FeedConfig struct {
	Interval     time.Duration `mapstructure:"interval"`
	Conversation string        `mapstructure:"conversation"`
}

// MetricsConfig holds prometheus exposition configuration
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// ErrInvalid is returned when a loaded configuration fails validation
var ErrInvalid = errors.New("invalid configuration")

// Global config instance
var cfg *Config

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		panic("config not initialized")
	}
	return cfg
}

// Load loads configuration from file and environment
func Load(cfgFile string) (*Config, error) {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome == "" {
			xdgConfigHome = filepath.Join(home, ".config")
		}

		viper.AddConfigPath("./" + DirName) // project directory first
		viper.AddConfigPath(filepath.Join(xdgConfigHome, "scrollback"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("settings")
	}

	viper.SetEnvPrefix("scrollback")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	bindEnvironmentVariables()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit file that is missing is an error, a missing default is not
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	loaded := &Config{}
	if err := viper.Unmarshal(loaded); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := loaded.Validate(); err != nil {
		return nil, err
	}

	cfg = loaded
	return cfg, nil
}

// Validate checks value ranges that viper cannot express
func (c *Config) Validate() error {
	switch {
	case c.Scroll.BottomEpsilon < 0:
		return fmt.Errorf("%w: scroll.bottom_epsilon must not be negative", ErrInvalid)
	case c.Scroll.TopThreshold < 0:
		return fmt.Errorf("%w: scroll.top_threshold must not be negative", ErrInvalid)
	case c.Scroll.UserScrollCooldown <= 0:
		return fmt.Errorf("%w: scroll.user_scroll_cooldown must be positive", ErrInvalid)
	case c.Scroll.ProgrammaticGrace < 0:
		return fmt.Errorf("%w: scroll.programmatic_grace must not be negative", ErrInvalid)
	case c.History.PageSize <= 0:
		return fmt.Errorf("%w: history.page_size must be positive", ErrInvalid)
	case c.Feed.Interval < 0:
		return fmt.Errorf("%w: feed.interval must not be negative", ErrInvalid)
	}
	return nil
}

// setDefaults sets all default configuration values
func setDefaults() {
	// Logging defaults
	viper.SetDefault("logging.file", "./"+DirName+"/system.log")
	viper.SetDefault("logging.preserve", false)
	viper.SetDefault("logging.level", "info")

	// Scroll engine defaults
	viper.SetDefault("scroll.bottom_epsilon", 50)
	viper.SetDefault("scroll.top_threshold", 200)
	viper.SetDefault("scroll.user_scroll_cooldown", "2s")
	viper.SetDefault("scroll.programmatic_grace", "150ms")

	viper.SetDefault("store.path", "./"+DirName+"/messages")

	viper.SetDefault("history.page_size", 30)
	viper.SetDefault("history.latency", "0s")

	viper.SetDefault("feed.interval", "3s")
	viper.SetDefault("feed.conversation", "general")

	viper.SetDefault("metrics.addr", "")
}

// bindEnvironmentVariables binds specific environment variables to Viper keys
func bindEnvironmentVariables() {
	viper.BindEnv("logging.level", "SCROLLBACK_LOG_LEVEL")
	viper.BindEnv("logging.file", "SCROLLBACK_LOG_FILE")
	viper.BindEnv("store.path", "SCROLLBACK_STORE_PATH")
	viper.BindEnv("metrics.addr", "SCROLLBACK_METRICS_ADDR")
}
