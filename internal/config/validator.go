package config

import (
	"fmt"
	"strings"
)

// Validator validates configuration values
type Validator struct{}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateHost validates a server host
func (v *Validator) ValidateHost(host string) error {
	if host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if strings.ContainsAny(host, " /") {
		return fmt.Errorf("invalid server host: %q", host)
	}
	return nil
}

// ValidatePort validates a server port
func (v *Validator) ValidatePort(port int) error {
	if port < 0 || port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535, got %d", port)
	}
	return nil
}

// ValidateScheme validates the connection scheme
func (v *Validator) ValidateScheme(scheme string) error {
	validSchemes := []string{"ws", "wss"}
	for _, valid := range validSchemes {
		if scheme == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid scheme: %s (must be one of: %s)", scheme, strings.Join(validSchemes, ", "))
}

// ValidateTimeout validates the infer timeout in seconds
func (v *Validator) ValidateTimeout(seconds float64) error {
	if seconds < 0 {
		return fmt.Errorf("timeout cannot be negative, got %f", seconds)
	}
	return nil
}

// ValidateLogLevel validates a log level
func (v *Validator) ValidateLogLevel(level string) error {
	validLevels := []string{"trace", "debug", "info", "warn", "error"}
	for _, valid := range validLevels {
		if level == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid log level: %s (must be one of: %s)", level, strings.Join(validLevels, ", "))
}

// ValidateConfig validates an entire configuration
func (v *Validator) ValidateConfig(cfg *Config) error {
	if err := v.ValidateHost(cfg.Server.Host); err != nil {
		return err
	}
	if err := v.ValidatePort(cfg.Server.Port); err != nil {
		return err
	}
	if err := v.ValidateScheme(cfg.Server.Scheme); err != nil {
		return err
	}
	if err := v.ValidateTimeout(cfg.Infer.TimeoutSeconds); err != nil {
		return err
	}
	if err := v.ValidateLogLevel(cfg.Logging.Level); err != nil {
		return err
	}
	return nil
}
