package cli

import (
	"fmt"

	"github.com/robolink/policyclient/internal/config"
	"github.com/robolink/policyclient/internal/logger"
	"github.com/robolink/policyclient/pkg/policy"
)

// loadSetup loads the config, applies flag overrides and builds the logger.
func loadSetup() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	if flagHost != "" {
		cfg.Server.Host = flagHost
	}
	if flagPort != 0 {
		cfg.Server.Port = flagPort
	}
	if flagKey != "" {
		cfg.Server.APIKey = flagKey
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if err := config.NewValidator().ValidateConfig(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		Console:   true,
		Pretty:    cfg.Logging.Pretty,
		Redaction: true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	return cfg, log, nil
}

// newClient connects to the configured policy server. It blocks until the
// server is reachable.
func newClient(cfg *config.Config, log *logger.Logger) (*policy.WebsocketClientPolicy, error) {
	return policy.NewWebsocketClientPolicy(policy.ClientConfig{
		Host:   cfg.Server.Host,
		Port:   cfg.Server.Port,
		APIKey: cfg.Server.APIKey,
		Scheme: cfg.Server.Scheme,
		Logger: log.GetZerolog(),
	})
}
