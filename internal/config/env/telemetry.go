package envconfig

import "github.com/caarlos0/env/v11"

type telemetryEnv struct {
	Enabled     bool   `env:"OTEL_ENABLED" envDefault:"false"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"checkout-api"`
	Endpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

type telemetry struct {
	raw telemetryEnv
}

func NewTelemetryConfig() (*telemetry, error) {
	var raw telemetryEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &telemetry{raw: raw}, nil
}

func (cfg *telemetry) TracingEnabled() bool { return cfg.raw.Enabled }
func (cfg *telemetry) ServiceName() string  { return cfg.raw.ServiceName }
func (cfg *telemetry) Endpoint() string     { return cfg.raw.Endpoint }
func (cfg *telemetry) LogLevel() string     { return cfg.raw.LogLevel }
