package envconfig

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Credentials are optional here: a missing user name or password fails
// each gateway call instead of the startup.
type gatewayEnv struct {
	BaseURL    string        `env:"GATEWAY_BASE_URL,required,notEmpty"`
	UserName   string        `env:"GATEWAY_USERNAME"`
	Password   string        `env:"GATEWAY_PASSWORD"`
	TerminalID string        `env:"GATEWAY_TERMINAL_ID"`
	ReturnURL  string        `env:"GATEWAY_RETURN_URL"`
	FailURL    string        `env:"GATEWAY_FAIL_URL"`
	Currency   string        `env:"GATEWAY_CURRENCY" envDefault:"012"`
	Language   string        `env:"GATEWAY_LANGUAGE" envDefault:"fr"`
	Timeout    time.Duration `env:"GATEWAY_TIMEOUT" envDefault:"30s"`

	OrderNumberPrefix string `env:"ORDER_NUMBER_PREFIX" envDefault:"MB"`
}

type gateway struct {
	raw gatewayEnv
}

func NewGatewayConfig() (*gateway, error) {
	var raw gatewayEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &gateway{raw: raw}, nil
}

func (cfg *gateway) BaseURL() string           { return cfg.raw.BaseURL }
func (cfg *gateway) UserName() string          { return cfg.raw.UserName }
func (cfg *gateway) Password() string          { return cfg.raw.Password }
func (cfg *gateway) TerminalID() string        { return cfg.raw.TerminalID }
func (cfg *gateway) ReturnURL() string         { return cfg.raw.ReturnURL }
func (cfg *gateway) FailURL() string           { return cfg.raw.FailURL }
func (cfg *gateway) Currency() string          { return cfg.raw.Currency }
func (cfg *gateway) Language() string          { return cfg.raw.Language }
func (cfg *gateway) Timeout() time.Duration    { return cfg.raw.Timeout }
func (cfg *gateway) OrderNumberPrefix() string { return cfg.raw.OrderNumberPrefix }
