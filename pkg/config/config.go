// Package config loads insightsctl configuration with Viper. Values come from
// an optional YAML file, INSIGHTS_ prefixed environment variables and a .env
// file in the working directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "INSIGHTS"

// Config is the complete insightsctl configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Chart   ChartConfig   `mapstructure:"chart"`
	Fixture FixtureConfig `mapstructure:"fixture"`
	Tour    TourConfig    `mapstructure:"tour"`
	Session SessionConfig `mapstructure:"session"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Address  string `mapstructure:"address" validate:"required,hostname_port"`
	BasePath string `mapstructure:"base_path" validate:"required,startswith=/"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address" validate:"omitempty,hostname_port"`
}

type ChartConfig struct {
	Theme       string        `mapstructure:"theme" validate:"required"`
	AssetsHost  string        `mapstructure:"assets_host" validate:"omitempty,url"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl" validate:"gte=0"`
	CacheSize   int           `mapstructure:"cache_size" validate:"gte=0"`
	TooltipYear int           `mapstructure:"tooltip_year" validate:"gte=1970,lte=9999"`
}

// FixtureConfig points at an optional YAML fixture. An empty path serves the
// built-in data set.
type FixtureConfig struct {
	Path  string `mapstructure:"path"`
	Watch bool   `mapstructure:"watch"`
}

type TourConfig struct {
	AutoStart bool `mapstructure:"auto_start"`
}

type SessionConfig struct {
	HashKey string        `mapstructure:"hash_key" validate:"omitempty,min=32"`
	MaxIdle time.Duration `mapstructure:"max_idle" validate:"gte=0"`
}

type LogConfig struct {
	Level       string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Development bool   `mapstructure:"development"`
}

// Load reads configuration from cfgFile (optional), the environment and a
// .env file, then validates the result.
func Load(cfgFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("insights")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/insights")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks cfg against its struct rules.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			messages := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				messages = append(messages, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config: invalid: %s", strings.Join(messages, "; "))
		}
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "127.0.0.1:8080")
	v.SetDefault("server.base_path", "/insights")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.address", "127.0.0.1:9090")

	v.SetDefault("chart.theme", "westeros")
	v.SetDefault("chart.assets_host", "")
	v.SetDefault("chart.cache_ttl", 5*time.Minute)
	v.SetDefault("chart.cache_size", 128)
	v.SetDefault("chart.tooltip_year", 2024)

	v.SetDefault("fixture.path", "")
	v.SetDefault("fixture.watch", false)

	v.SetDefault("tour.auto_start", true)

	v.SetDefault("session.hash_key", "")
	v.SetDefault("session.max_idle", 30*time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}
