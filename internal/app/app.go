// Package app wires configuration, adapters and the checkout service into
// the HTTP handler served by cmd/checkout-api.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jcmexdev/membership-checkout/internal/checkout/handshake"
	"github.com/jcmexdev/membership-checkout/internal/checkout/handshake/sqlite"
	"github.com/jcmexdev/membership-checkout/internal/checkout/infra/adapters/gateway"
	"github.com/jcmexdev/membership-checkout/internal/checkout/infra/httpx"
	"github.com/jcmexdev/membership-checkout/internal/checkout/infra/httpx/middlewares"
	"github.com/jcmexdev/membership-checkout/internal/checkout/order"
	"github.com/jcmexdev/membership-checkout/internal/checkout/service"
	"github.com/jcmexdev/membership-checkout/internal/config"
	"github.com/jcmexdev/membership-checkout/internal/pkg/cache"
)

const cacheNamespace = "checkout"

// Settings is the subset of the process configuration the app needs.
type Settings struct {
	Gateway    config.Gateway
	Cache      config.Cache
	AttemptLog config.AttemptLog
	Auth       config.Auth
}

type App struct {
	handler http.Handler
	closers []func() error
}

// New builds the object graph. An unreachable redis only disables the
// cache; an attempt log that cannot be opened is fatal.
func New(ctx context.Context, s Settings) (*App, error) {
	a := &App{}

	var recorder *handshake.Recorder
	if s.AttemptLog.Enabled() {
		repo, err := sqlite.Open(s.AttemptLog.Path())
		if err != nil {
			return nil, fmt.Errorf("app: open attempt log: %w", err)
		}
		a.closers = append(a.closers, repo.Close)
		recorder = handshake.NewRecorder(repo)
		slog.Info("attempt log enabled", "path", s.AttemptLog.Path())
	}

	var outcomes cache.Cache
	if s.Cache.Enabled() {
		client, err := cache.NewRedisClient(ctx, s.Cache.Address())
		if err != nil {
			slog.Warn("redis unavailable, running without cache", "addr", s.Cache.Address(), "error", err)
		} else {
			a.closers = append(a.closers, client.Close)
			outcomes = cache.NewRedisCache(client, cacheNamespace)
		}
	}

	checkout := service.NewCheckout(NewOrderBuilder(s.Gateway), NewGatewayClient(s.Gateway), service.Options{
		Recorder: recorder,
		Cache:    outcomes,
		CacheTTL: s.Cache.TTL(),
	})

	var limiter *middlewares.RateLimiter
	if s.Auth.RateLimitRPS() > 0 {
		limiter = middlewares.NewRateLimiter(s.Auth.RateLimitRPS(), s.Auth.RateLimitBurst())
	}
	if s.Auth.JWTSecret() == "" {
		slog.Warn("member authentication disabled: AUTH_JWT_SECRET is empty")
	}

	a.handler = httpx.NewRouter(httpx.NewHandler(checkout), httpx.RouterOptions{
		JWTSecret: s.Auth.JWTSecret(),
		Limiter:   limiter,
	})
	return a, nil
}

func (a *App) Handler() http.Handler { return a.handler }

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewGatewayClient returns the single gateway client of the process.
// Missing credentials are reported by each call, not here.
func NewGatewayClient(gw config.Gateway) *gateway.Client {
	if gw.UserName() == "" || gw.Password() == "" {
		slog.Warn("gateway credentials not set; payment calls will fail")
	}
	return gateway.NewClient(gateway.Config{
		BaseURL: gw.BaseURL(),
		Credentials: gateway.Credentials{
			UserName: gw.UserName(),
			Password: gw.Password(),
		},
		Timeout: gw.Timeout(),
	}, &http.Client{})
}

func NewOrderBuilder(gw config.Gateway) *order.Builder {
	return order.NewBuilder(order.NewNumberGenerator(gw.OrderNumberPrefix()), order.Defaults{
		Currency:   gw.Currency(),
		Language:   gw.Language(),
		ReturnURL:  gw.ReturnURL(),
		FailURL:    gw.FailURL(),
		TerminalID: gw.TerminalID(),
	})
}
