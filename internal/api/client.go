// Package api is the Sync Client for the to-do backend. Every call is
// single-shot: failures surface once as a typed error and are never retried.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/nibzard/todoctl/internal/api"

	// DefaultTimeout bounds a single request when no HTTP client is supplied.
	DefaultTimeout = 10 * time.Second

	// RequestIDHeader carries the per-request correlation ID.
	RequestIDHeader = "X-Request-ID"

	maxResponseBytes = 4 << 20
)

// Client talks to the to-do REST backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *log.Logger
	tracer     trace.Tracer
	meter      metric.Meter

	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default instrumented HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithTracer sets the tracer used for per-operation spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// WithMeter sets the meter used for request counters and latency.
func WithMeter(m metric.Meter) Option {
	return func(c *Client) { c.meter = m }
}

// New returns a client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q: missing host", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(instrumentationName)
	}
	if c.meter == nil {
		c.meter = otel.Meter(instrumentationName)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   c.timeout,
		}
	}

	c.requests, err = c.meter.Int64Counter("todoctl.api.requests",
		metric.WithDescription("Backend requests by operation and outcome"),
		metric.WithUnit("{request}"))
	if err != nil {
		c.logger.Warn("create request counter", "err", err)
		c.requests, _ = noop.NewMeterProvider().Meter(instrumentationName).Int64Counter("todoctl.api.requests")
	}
	c.duration, err = c.meter.Float64Histogram("todoctl.api.duration",
		metric.WithDescription("Backend request latency"),
		metric.WithUnit("ms"))
	if err != nil {
		c.logger.Warn("create duration histogram", "err", err)
		c.duration, _ = noop.NewMeterProvider().Meter(instrumentationName).Float64Histogram("todoctl.api.duration")
	}

	return c, nil
}

// BaseURL returns the normalized backend URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// call performs one request and hands the response to handle. The span,
// metrics and log line cover the whole operation, decoding included.
func (c *Client) call(ctx context.Context, op, method, path string, body any, handle func(status int, data []byte) error) (err error) {
	start := time.Now()
	reqID := uuid.NewString()
	status := 0

	ctx, span := c.tracer.Start(ctx, "todoctl.api."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
			attribute.String("todoctl.request_id", reqID),
		))

	defer func() {
		elapsed := time.Since(start)
		outcome := outcomeOf(err)
		attrs := metric.WithAttributes(
			attribute.String("op", op),
			attribute.String("outcome", outcome),
		)
		c.requests.Add(ctx, 1, attrs)
		c.duration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)

		if status != 0 {
			span.SetAttributes(attribute.Int("http.response.status_code", status))
		}
		span.SetAttributes(attribute.String("todoctl.outcome", outcome))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
			c.logger.Warn("api request failed", "op", op, "request_id", reqID, "status", status, "duration", elapsed, "err", err)
		} else {
			c.logger.Debug("api request", "op", op, "request_id", reqID, "status", status, "duration", elapsed)
		}
		span.End()
	}()

	var data []byte
	status, data, err = c.roundTrip(ctx, method, path, reqID, body)
	if err != nil {
		return &NetworkError{Op: opLabel(op), Err: err}
	}
	return handle(status, data)
}

func (c *Client) roundTrip(ctx context.Context, method, path, reqID string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, data, nil
}

// decode parses data, validates it against a bundled schema and unmarshals
// it into out. Any failure is a NetworkError.
func decode(op, schema string, status int, data []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		if !statusOK(status) {
			return &NetworkError{Op: opLabel(op), Err: fmt.Errorf("unexpected HTTP status %d", status)}
		}
		return &NetworkError{Op: opLabel(op), Err: fmt.Errorf("decode response: %w", err)}
	}
	if err := validate(schema, doc); err != nil {
		return &NetworkError{Op: opLabel(op), Err: err}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &NetworkError{Op: opLabel(op), Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// checkEnvelope turns success=false, or an error status carrying a valid
// envelope, into a RejectionError.
func checkEnvelope(op string, status int, env envelope) error {
	if env.Success && statusOK(status) {
		return nil
	}
	msg := env.reason()
	if env.Success && msg == "" {
		msg = http.StatusText(status)
	}
	return &RejectionError{Op: opLabel(op), Status: status, Message: msg}
}

func statusOK(status int) bool {
	return status >= 200 && status < 300
}

func opLabel(op string) string {
	return strings.ReplaceAll(op, "_", " ")
}

func outcomeOf(err error) string {
	var ne *NetworkError
	var re *RejectionError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &re):
		return "rejected"
	case errors.As(err, &ne):
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "canceled"
		}
		return "network_error"
	default:
		return "error"
	}
}
