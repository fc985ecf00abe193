package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(t *testing.T)
	}{
		{
			name: "ok/defaults",
			env:  map[string]string{"GATEWAY_BASE_URL": "https://test.satim.dz/payment/rest"},
			check: func(t *testing.T) {
				c := C()
				require.Equal(t, ":8080", c.Server.Address())
				require.Equal(t, 5*time.Second, c.Server.ReadHeaderTimeout())
				require.Equal(t, 10*time.Second, c.Server.ShutdownTimeout())
				require.Equal(t, "012", c.Gateway.Currency())
				require.Equal(t, "fr", c.Gateway.Language())
				require.Equal(t, 30*time.Second, c.Gateway.Timeout())
				require.Equal(t, "MB", c.Gateway.OrderNumberPrefix())
				require.Empty(t, c.Gateway.UserName(), "credentials are optional at startup")
				require.False(t, c.Cache.Enabled())
				require.Equal(t, 24*time.Hour, c.Cache.TTL())
				require.False(t, c.AttemptLog.Enabled())
				require.Empty(t, c.Auth.JWTSecret())
				require.Equal(t, 5.0, c.Auth.RateLimitRPS())
				require.Equal(t, 10, c.Auth.RateLimitBurst())
				require.False(t, c.Telemetry.TracingEnabled())
				require.Equal(t, "checkout-api", c.Telemetry.ServiceName())
			},
		},
		{
			name: "ok/overrides",
			env: map[string]string{
				"GATEWAY_BASE_URL":    "https://cib.satim.dz/payment/rest",
				"GATEWAY_USERNAME":    "merchant",
				"GATEWAY_PASSWORD":    "s3cret",
				"GATEWAY_TERMINAL_ID": "E010900000",
				"GATEWAY_TIMEOUT":     "12s",
				"REDIS_ADDR":          "localhost:6379",
				"REDIS_TTL":           "1h",
				"ATTEMPT_LOG_PATH":    "/var/lib/checkout/attempts.db",
				"RATE_LIMIT_RPS":      "0.5",
				"OTEL_ENABLED":        "true",
			},
			check: func(t *testing.T) {
				c := C()
				require.Equal(t, "merchant", c.Gateway.UserName())
				require.Equal(t, "s3cret", c.Gateway.Password())
				require.Equal(t, "E010900000", c.Gateway.TerminalID())
				require.Equal(t, 12*time.Second, c.Gateway.Timeout())
				require.True(t, c.Cache.Enabled())
				require.Equal(t, "localhost:6379", c.Cache.Address())
				require.Equal(t, time.Hour, c.Cache.TTL())
				require.True(t, c.AttemptLog.Enabled())
				require.Equal(t, 0.5, c.Auth.RateLimitRPS())
				require.True(t, c.Telemetry.TracingEnabled())
			},
		},
		{
			name:    "validation/missing base url",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name:    "validation/bad timeout",
			env:     map[string]string{"GATEWAY_BASE_URL": "https://x", "GATEWAY_TIMEOUT": "soon"},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			err := Load()
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tc.check(t)
		})
	}
}

func TestLoad_Dotenv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GATEWAY_BASE_URL=https://from-dotenv\nORDER_NUMBER_PREFIX=CL\n"), 0o600))
	t.Setenv("APP_ENV", "local")
	t.Cleanup(func() {
		_ = os.Unsetenv("GATEWAY_BASE_URL")
		_ = os.Unsetenv("ORDER_NUMBER_PREFIX")
	})

	require.NoError(t, Load(path))
	require.Equal(t, "https://from-dotenv", C().Gateway.BaseURL())
	require.Equal(t, "CL", C().Gateway.OrderNumberPrefix())
}

var knownVars = []string{
	"APP_ENV",
	"HTTP_ADDR", "HTTP_READ_HEADER_TIMEOUT", "HTTP_SHUTDOWN_TIMEOUT",
	"GATEWAY_BASE_URL", "GATEWAY_USERNAME", "GATEWAY_PASSWORD", "GATEWAY_TERMINAL_ID",
	"GATEWAY_RETURN_URL", "GATEWAY_FAIL_URL", "GATEWAY_CURRENCY", "GATEWAY_LANGUAGE",
	"GATEWAY_TIMEOUT", "ORDER_NUMBER_PREFIX",
	"REDIS_ADDR", "REDIS_TTL", "ATTEMPT_LOG_PATH",
	"AUTH_JWT_SECRET", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"OTEL_ENABLED", "OTEL_SERVICE_NAME", "OTEL_EXPORTER_OTLP_ENDPOINT", "LOG_LEVEL",
}

// clearEnv unsets every variable Load reads; t.Setenv restores them.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range knownVars {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}
