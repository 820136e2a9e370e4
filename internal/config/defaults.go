package config

import (
	"os"
	"path/filepath"
	"time"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		DataDir: DefaultDataDir(),
		Theme:   "nord",
		Quote: QuoteConfig{
			Mode: "random",
		},
		Notifications: true,
		PollInterval:  2 * time.Second,
		Server: ServerConfig{
			Addr: "127.0.0.1:7878",
		},
	}
}

// DefaultDataDir returns ~/.local/share/slowly
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".slowly"
	}
	return filepath.Join(home, ".local", "share", "slowly")
}

// DefaultPath returns $XDG_CONFIG_HOME/slowly/config.yaml, falling back to
// ~/.config/slowly/config.yaml
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "slowly", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".slowly", "config.yaml")
	}
	return filepath.Join(home, ".config", "slowly", "config.yaml")
}
