package config

// Config represents the full application configuration
type Config struct {
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Port string `yaml:"port" mapstructure:"port"`

	// Seconds to wait for in-flight requests on shutdown
	ShutdownTimeout int `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// StoreConfig selects the task store backend
type StoreConfig struct {
	// "memory" or "sqlite"
	Backend string `yaml:"backend" mapstructure:"backend"`

	// SQLite DSN, ignored by the memory backend
	DSN string `yaml:"dsn" mapstructure:"dsn"`
}

// LogConfig configures structured logging
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	Prefix string `yaml:"prefix" mapstructure:"prefix"`
}
