package envconfig

import "github.com/caarlos0/env/v11"

type attemptLogEnv struct {
	Path string `env:"ATTEMPT_LOG_PATH"`
}

type attemptLog struct {
	raw attemptLogEnv
}

func NewAttemptLogConfig() (*attemptLog, error) {
	var raw attemptLogEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &attemptLog{raw: raw}, nil
}

func (cfg *attemptLog) Enabled() bool { return cfg.raw.Path != "" }
func (cfg *attemptLog) Path() string  { return cfg.raw.Path }
