package jsonrpc

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/USA-RedDragon/zcash-rcli/internal/jsonrpc"

// Doer sends one HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Observer is told about every finished call. kind is the Kind of the
// returned error, "ok" on success.
type Observer interface {
	ObserveCall(method string, kind string, elapsed time.Duration)
}

// Client performs JSON-RPC calls against a single endpoint. It is safe for
// concurrent use as long as its Doer is.
type Client struct {
	url      string
	auth     string
	http     Doer
	ids      IDGenerator
	observer Observer
	tracer   trace.Tracer
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(doer Doer) Option {
	return func(c *Client) {
		c.http = doer
	}
}

func WithObserver(observer Observer) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		c.tracer = tracer
	}
}

// WithTracerProvider takes the client's tracer from tp instead of the global
// provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		c.tracer = tp.Tracer(tracerName)
	}
}

// NewClient returns a client posting to url. credential is sent verbatim as
// "Authorization: Basic <credential>"; it is neither encoded nor checked.
func NewClient(url string, credential string, opts ...Option) *Client {
	c := &Client{
		url:    url,
		auth:   "Basic " + credential,
		http:   http.DefaultClient,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) URL() string {
	return c.url
}

func call[R any](ctx context.Context, c *Client, method string, args ...any) (result R, err error) {
	// The id is consumed before anything can fail.
	id := c.ids.Next()
	start := time.Now()

	ctx, span := c.tracer.Start(ctx, method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("rpc.system", "jsonrpc"),
			attribute.String("rpc.method", method),
			attribute.String("rpc.jsonrpc.version", Version),
			attribute.Int64("rpc.jsonrpc.request_id", int64(id)), //nolint:gosec
		))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		if c.observer != nil {
			c.observer.ObserveCall(method, Kind(err), time.Since(start))
		}
	}()

	params, err := marshalParams(args...)
	if err != nil {
		return result, &TransportError{Method: method, Err: err}
	}

	env, err := c.exchange(ctx, id, method, params)
	if err != nil {
		return result, err
	}

	result, err = Unwrap[R](env, id)
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		decodeErr.Method = method
	}
	return result, err
}

// exchange does one POST round trip. The HTTP status is not inspected; only
// the envelope decides the outcome.
func (c *Client) exchange(ctx context.Context, id uint64, method string, params []json.RawMessage) (ResponseEnvelope, error) {
	body, err := Wrap(id, method, params)
	if err != nil {
		return ResponseEnvelope{}, &TransportError{Method: method, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return ResponseEnvelope{}, &TransportError{Method: method, Err: err}
	}
	req.Header.Set("Authorization", c.auth)
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.http.Do(req)
	if err != nil {
		return ResponseEnvelope{}, &TransportError{Method: method, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return ResponseEnvelope{}, &TransportError{Method: method, Err: err}
	}

	return Parse(raw)
}

func marshalParams(args ...any) ([]json.RawMessage, error) {
	params := make([]json.RawMessage, 0, len(args))
	for _, arg := range args {
		b, err := json.Marshal(arg)
		if err != nil {
			return nil, err
		}
		params = append(params, b)
	}
	return params, nil
}
