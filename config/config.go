// Package config loads runtime configuration from flags, environment
// variables and an optional config file, in that order of precedence.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every tunable of the tool
type Config struct {
	Region  string `mapstructure:"region"`
	Profile string `mapstructure:"profile"`

	// Days is the default query window for historical cost lookups
	Days int `mapstructure:"days"`

	CacheEnabled bool          `mapstructure:"cache_enabled"`
	CacheDir     string        `mapstructure:"cache_dir"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`

	// Verbosity maps to the logger's V level; 0 is quiet
	Verbosity int `mapstructure:"verbosity"`
}

// Load reads configuration from ~/.costdrill/config.yaml when present
// and from COSTDRILL_* environment variables. Environment wins over the
// file; flag bindings applied by the caller win over both.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	v.SetDefault("region", "")
	v.SetDefault("profile", "")
	v.SetDefault("days", 30)
	v.SetDefault("cache_enabled", true)
	v.SetDefault("cache_dir", "")
	v.SetDefault("cache_ttl", time.Hour)
	v.SetDefault("verbosity", 0)

	v.SetEnvPrefix("COSTDRILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".costdrill"))
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		// a missing config file is the normal case
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// AWS_REGION and AWS_PROFILE keep working as fallbacks
	if v.GetString("region") == "" {
		if region := os.Getenv("AWS_REGION"); region != "" {
			v.Set("region", region)
		} else {
			v.Set("region", "us-east-1")
		}
	}
	if v.GetString("profile") == "" {
		if profile := os.Getenv("AWS_PROFILE"); profile != "" {
			v.Set("profile", profile)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
