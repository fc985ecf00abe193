package config

import "time"

type Server interface {
	Address() string
	ReadHeaderTimeout() time.Duration
	ShutdownTimeout() time.Duration
}

type Gateway interface {
	BaseURL() string
	UserName() string
	Password() string
	TerminalID() string
	ReturnURL() string
	FailURL() string
	Currency() string
	Language() string
	Timeout() time.Duration
	OrderNumberPrefix() string
}

type Cache interface {
	Enabled() bool
	Address() string
	TTL() time.Duration
}

type AttemptLog interface {
	Enabled() bool
	Path() string
}

type Auth interface {
	JWTSecret() string
	RateLimitRPS() float64
	RateLimitBurst() int
}

type Telemetry interface {
	TracingEnabled() bool
	ServiceName() string
	Endpoint() string
	LogLevel() string
}
