package config

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			ShutdownTimeout: 10,
		},
		Store: StoreConfig{
			Backend: "memory",
			DSN:     ":memory:",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			Prefix: "todos",
		},
	}
}
