package envconfig

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type redisEnv struct {
	Address string        `env:"REDIS_ADDR"`
	TTL     time.Duration `env:"REDIS_TTL" envDefault:"24h"`
}

type redisCache struct {
	raw redisEnv
}

func NewRedisConfig() (*redisCache, error) {
	var raw redisEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &redisCache{raw: raw}, nil
}

func (cfg *redisCache) Enabled() bool      { return cfg.raw.Address != "" }
func (cfg *redisCache) Address() string    { return cfg.raw.Address }
func (cfg *redisCache) TTL() time.Duration { return cfg.raw.TTL }
