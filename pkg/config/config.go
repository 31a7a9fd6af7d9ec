package config

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Video    VideoConfig    `mapstructure:"video"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Port    int    `mapstructure:"port"`
}

type DatabaseConfig struct {
	// Driver is "sqlite" or "mysql".
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type VideoConfig struct {
	MaxSizeMB       float64 `mapstructure:"max_size_mb"`
	MinDurationSecs float64 `mapstructure:"min_duration_secs"`
	MaxDurationSecs float64 `mapstructure:"max_duration_secs"`
	StorageDir      string  `mapstructure:"storage_dir"`
}

type AuthConfig struct {
	APIToken string `mapstructure:"api_token"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Production bool   `mapstructure:"production"`
}

// Load reads config/config.yaml from the repository root and returns the
// parsed configuration. Components receive the value through their
// constructors; nothing reads it from package state.
func Load() (*Config, error) {
	_, b, _, _ := runtime.Caller(0)
	basepath := filepath.Dir(filepath.Dir(filepath.Dir(b)))

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(basepath, "config"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
