package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	FastSpringUsername string `mapstructure:"fastspring_username"`
	FastSpringPassword string `mapstructure:"fastspring_password"`
	FastSpringCompany  string `mapstructure:"fastspring_company"`
	FastSpringBaseURL  string `mapstructure:"fastspring_base_url"`

	HTTPTimeoutSeconds  int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout         time.Duration `mapstructure:"-"`
	PollIntervalSeconds int64         `mapstructure:"poll_interval"`
	PollInterval        time.Duration `mapstructure:"-"`

	WatchesFile    string `mapstructure:"watches_file"`
	PublishersFile string `mapstructure:"publishers_file"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "fastspring-bridge")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	// Registered with empty defaults so AutomaticEnv picks them up during Unmarshal.
	v.SetDefault("fastspring_username", "")
	v.SetDefault("fastspring_password", "")
	v.SetDefault("fastspring_company", "")
	v.SetDefault("fastspring_base_url", "https://api.fastspring.com")
	v.SetDefault("http_timeout_seconds", 15)
	v.SetDefault("poll_interval", 900) // seconds
	v.SetDefault("watches_file", "./configs/watches.yaml")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.FastSpringUsername == "" {
		return nil, fmt.Errorf("fastspring_username is required")
	}
	if cfg.FastSpringPassword == "" {
		return nil, fmt.Errorf("fastspring_password is required")
	}
	if cfg.FastSpringCompany == "" {
		return nil, fmt.Errorf("fastspring_company is required")
	}

	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	if cfg.PollIntervalSeconds <= 0 {
		return nil, fmt.Errorf("invalid poll_interval (must be positive seconds)")
	}
	cfg.PollInterval = time.Duration(cfg.PollIntervalSeconds) * time.Second

	return &cfg, nil
}
