package config

// Config represents the policyctl configuration
type Config struct {
	// Server connection settings
	Server ServerConfig `json:"server" mapstructure:"server"`

	// Infer call settings
	Infer InferConfig `json:"infer" mapstructure:"infer"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// ServerConfig holds policy server connection settings
type ServerConfig struct {
	Host   string `json:"host" mapstructure:"host"`
	Port   int    `json:"port" mapstructure:"port"`
	APIKey string `json:"api_key" mapstructure:"api_key"`
	Scheme string `json:"scheme" mapstructure:"scheme"` // ws or wss
}

// InferConfig holds per-call settings
type InferConfig struct {
	// TimeoutSeconds bounds the wait for each inference response.
	// Zero waits indefinitely.
	TimeoutSeconds float64 `json:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	File   string `json:"file" mapstructure:"file"`
	Pretty bool   `json:"pretty" mapstructure:"pretty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:   "localhost",
			Port:   8000,
			Scheme: "ws",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}
