// Package gateway talks to the SATIM-style card gateway over its REST
// interface: register.do to open an order, confirmOrder.do to read it back.
//
// Every call is a single GET. The client never retries; callers decide.
// Responses are validated here so callers only ever see a session, an
// outcome, or an error matching one of the entity sentinels.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/membership-checkout/internal/checkout/core/domain/entity"
	"github.com/jcmexdev/membership-checkout/internal/checkout/core/ports"
)

const (
	registerPath = "/register.do"
	confirmPath  = "/confirmOrder.do"

	defaultTimeout  = 30 * time.Second
	maxResponseSize = 1 << 20
)

var _ ports.Gateway = (*Client)(nil)

// Credentials identify the merchant account. They are loaded once at
// startup and shared read-only by every call.
type Credentials struct {
	UserName string
	Password string
}

func (c Credentials) Validate() error {
	var missing []string
	if c.UserName == "" {
		missing = append(missing, "user name")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: gateway %s not set", entity.ErrConfiguration, strings.Join(missing, " and "))
	}
	return nil
}

type Config struct {
	BaseURL     string
	Credentials Credentials
	Timeout     time.Duration
}

type Client struct {
	baseURL string
	creds   Credentials
	timeout time.Duration
	http    *http.Client
	tracer  trace.Tracer
}

// NewClient builds a gateway client. A nil httpClient falls back to a
// plain client; the per-call deadline comes from cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		creds:   cfg.Credentials,
		timeout: timeout,
		http:    httpClient,
		tracer:  otel.Tracer("checkout/gateway"),
	}
}

type rawResponse struct {
	status int
	body   []byte
}

func (r rawResponse) ok() bool { return r.status >= 200 && r.status < 300 }

// call performs one GET against the gateway. Anything that prevents a
// response body from coming back is reported as ErrTransport.
func (c *Client) call(ctx context.Context, path string, params url.Values) (rawResponse, error) {
	if c.baseURL == "" {
		return rawResponse{}, fmt.Errorf("%w: gateway base url not set", entity.ErrConfiguration)
	}
	if err := c.creds.Validate(); err != nil {
		return rawResponse{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params.Set("userName", c.creds.UserName)
	params.Set("password", c.creds.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return rawResponse{}, fmt.Errorf("%w: build request %s: %w", entity.ErrConfiguration, path, err)
	}
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error repeats the request URL, credentials included.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return rawResponse{}, fmt.Errorf("%w: %s: %w", entity.ErrTransport, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return rawResponse{}, fmt.Errorf("%w: read %s response: %w", entity.ErrTransport, path, err)
	}

	slog.DebugContext(ctx, "gateway call",
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(started).Milliseconds(),
	)

	return rawResponse{status: resp.StatusCode, body: body}, nil
}

func (c *Client) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		var gwErr *entity.GatewayError
		if errors.As(err, &gwErr) {
			span.SetAttributes(attribute.String("gateway.error_code", gwErr.Code))
		}
	}
	span.End()
}
