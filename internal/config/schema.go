package config

import "time"

// Config is the slowly configuration file
type Config struct {
	// Where the database, lock and debug log live
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
	// Overrides <data_dir>/slowly.db
	DBPath string `yaml:"db_path,omitempty" mapstructure:"db_path"`

	// TUI theme name
	Theme string `yaml:"theme" mapstructure:"theme"`

	Quote QuoteConfig `yaml:"quote" mapstructure:"quote"`

	// Desktop notifications on completion
	Notifications bool `yaml:"notifications" mapstructure:"notifications"`

	// How often a running shell checks for writes made by other processes.
	// Zero disables the check.
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`

	// IANA zone used for history days. Empty means the system zone.
	Timezone string `yaml:"timezone,omitempty" mapstructure:"timezone"`

	Server ServerConfig `yaml:"server" mapstructure:"server"`

	Debug bool `yaml:"debug" mapstructure:"debug"`
}

// QuoteConfig holds the quote selector state
type QuoteConfig struct {
	Mode       string `yaml:"mode" mapstructure:"mode"`
	FixedIndex int    `yaml:"fixed_index" mapstructure:"fixed_index"`
}

// ServerConfig configures `slowly serve`
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}
