package envconfig

import "github.com/caarlos0/env/v11"

type authEnv struct {
	JWTSecret string `env:"AUTH_JWT_SECRET"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"10"`
}

type auth struct {
	raw authEnv
}

func NewAuthConfig() (*auth, error) {
	var raw authEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &auth{raw: raw}, nil
}

func (cfg *auth) JWTSecret() string     { return cfg.raw.JWTSecret }
func (cfg *auth) RateLimitRPS() float64 { return cfg.raw.RateLimitRPS }
func (cfg *auth) RateLimitBurst() int   { return cfg.raw.RateLimitBurst }
