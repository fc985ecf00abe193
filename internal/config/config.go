// Package config loads the process configuration from the environment
// once at startup. Values are read-only afterwards.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	envconfig "github.com/jcmexdev/membership-checkout/internal/config/env"
)

var cfg *config

type config struct {
	Server     Server
	Gateway    Gateway
	Cache      Cache
	AttemptLog AttemptLog
	Auth       Auth
	Telemetry  Telemetry
}

func Load(path ...string) error {
	const op = "config.Load"

	if shouldLoadDotenv() {
		if err := godotenv.Load(path...); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: load .env: %w", op, err)
		}
	}

	serverCfg, err := envconfig.NewHTTPServerConfig()
	if err != nil {
		return fmt.Errorf("%s Server: %w", op, err)
	}

	gatewayCfg, err := envconfig.NewGatewayConfig()
	if err != nil {
		return fmt.Errorf("%s Gateway: %w", op, err)
	}

	cacheCfg, err := envconfig.NewRedisConfig()
	if err != nil {
		return fmt.Errorf("%s Cache: %w", op, err)
	}

	attemptLogCfg, err := envconfig.NewAttemptLogConfig()
	if err != nil {
		return fmt.Errorf("%s AttemptLog: %w", op, err)
	}

	authCfg, err := envconfig.NewAuthConfig()
	if err != nil {
		return fmt.Errorf("%s Auth: %w", op, err)
	}

	telemetryCfg, err := envconfig.NewTelemetryConfig()
	if err != nil {
		return fmt.Errorf("%s Telemetry: %w", op, err)
	}

	cfg = &config{
		Server:     serverCfg,
		Gateway:    gatewayCfg,
		Cache:      cacheCfg,
		AttemptLog: attemptLogCfg,
		Auth:       authCfg,
		Telemetry:  telemetryCfg,
	}

	return nil
}

func C() *config { return cfg }

func shouldLoadDotenv() bool {
	return os.Getenv("APP_ENV") == "local"
}
