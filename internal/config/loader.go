// Package config loads slowly's YAML configuration with viper. Every key can
// be overridden from the environment as SLOWLY_<KEY>, with dots turned into
// underscores (SLOWLY_QUOTE_MODE, SLOWLY_SERVER_ADDR).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load reads the config file at path over the defaults. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("SLOWLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, cfg)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.DataDir = expandHome(cfg.DataDir)
	cfg.DBPath = expandHome(cfg.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can see it
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("db_path", cfg.DBPath)
	v.SetDefault("theme", cfg.Theme)
	v.SetDefault("quote.mode", cfg.Quote.Mode)
	v.SetDefault("quote.fixed_index", cfg.Quote.FixedIndex)
	v.SetDefault("notifications", cfg.Notifications)
	v.SetDefault("poll_interval", cfg.PollInterval)
	v.SetDefault("timezone", cfg.Timezone)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("debug", cfg.Debug)
}

// Save writes cfg to path, creating the directory if needed
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return os.WriteFile(path, append([]byte("# slowly configuration\n"), data...), 0644)
}

// Validate checks values that would otherwise fail later
func (c *Config) Validate() error {
	switch c.Quote.Mode {
	case "random", "fixed":
	default:
		return fmt.Errorf("quote.mode must be random or fixed, got %q", c.Quote.Mode)
	}
	if c.Quote.FixedIndex < 0 {
		return fmt.Errorf("quote.fixed_index must not be negative")
	}
	if c.PollInterval < 0 {
		return fmt.Errorf("poll_interval must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location returns the zone history days are computed in
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DatabasePath returns the SQLite file to open
func (c *Config) DatabasePath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Join(c.DataDir, "slowly.db")
}

// LockPath returns the single instance lock file
func (c *Config) LockPath() string {
	return filepath.Join(c.DataDir, "slowly.lock")
}

// DebugLogPath returns the debug log file
func (c *Config) DebugLogPath() string {
	return filepath.Join(c.DataDir, "slowly-debug.log")
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
