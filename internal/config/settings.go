// Package config loads runtime settings and the monitored targets list, and
// watches the targets file for edits.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/manufgue/Monitor/internal/model"
)

// Default values applied when fields are absent from the settings file.
const (
	DefaultTargetsPath = "./targets.json"
	DefaultTimeout     = 15 * time.Second
	DefaultAuthTimeout = 20 * time.Second
)

// Settings holds runtime configuration. Fields map 1:1 to monitor.yaml and
// can be overridden through MONITOR_* environment variables.
type Settings struct {
	// Targets is the path to the host-target mapping file.
	Targets string `mapstructure:"targets"`

	// Timeout bounds each region fetch.
	Timeout time.Duration `mapstructure:"timeout"`

	// AuthTimeout bounds each logon and logoff exchange.
	AuthTimeout time.Duration `mapstructure:"auth-timeout"`

	// User and Password are the default admin credentials. Both empty means
	// anonymous runs with no session renewal.
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// Credentials bundles the configured account.
func (s Settings) Credentials() model.Credentials {
	return model.Credentials{User: s.User, Password: s.Password}
}

// LoadSettings reads monitor.yaml plus MONITOR_* environment overrides.
// An explicit configPath wins over the search path; a missing file is not
// an error, defaults apply.
func LoadSettings(configPath string) (Settings, error) {
	var cfg Settings

	v := viper.New()
	v.SetEnvPrefix("MONITOR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("targets", DefaultTargetsPath)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("auth-timeout", DefaultAuthTimeout)
	v.SetDefault("user", "")
	v.SetDefault("password", "")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("monitor")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "monitor"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
