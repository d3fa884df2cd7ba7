// Package backend is the HTTP client for the ordering backend that owns
// restaurant orders and persists their status.
package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/xenking/order-board/internal/domain/order"
)

const (
	listPath   = "orders/resorders/"
	changePath = "orders/change-order-status/%d/"

	// maxErrorBody bounds how much of a failed response is kept in StatusError.
	maxErrorBody = 512
)

var _ order.Backend = (*Client)(nil)

// StatusError is returned when the backend answers with a non-2xx code.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Code)
}

// Config configures the backend Client.
type Config struct {
	// BaseURL is the API root, e.g. http://127.0.0.1:8000/.
	BaseURL string
	// Token is sent as a bearer token when non-empty.
	Token   string
	Timeout time.Duration

	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

// Client talks to the ordering backend.
type Client struct {
	base  *url.URL
	token string
	http  *http.Client
}

// New creates a Client. The underlying transport is instrumented with
// OpenTelemetry when providers are given.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.Errorf("base url %q must be absolute", cfg.BaseURL)
	}
	// Relative references resolve against the last path segment otherwise.
	if len(base.Path) == 0 || base.Path[len(base.Path)-1] != '/' {
		base.Path += "/"
	}

	var opts []otelhttp.Option
	if cfg.TracerProvider != nil {
		opts = append(opts, otelhttp.WithTracerProvider(cfg.TracerProvider))
	}
	if cfg.MeterProvider != nil {
		opts = append(opts, otelhttp.WithMeterProvider(cfg.MeterProvider))
	}

	return &Client{
		base:  base,
		token: cfg.Token,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport, opts...),
		},
	}, nil
}

// ListRestaurantOrders fetches the orders visible to the authenticated restaurant.
func (c *Client) ListRestaurantOrders(ctx context.Context) (*order.Listing, error) {
	body, err := c.do(ctx, http.MethodGet, listPath, nil)
	if err != nil {
		return nil, err
	}

	listing, err := decodeListing(jx.DecodeBytes(body))
	if err != nil {
		return nil, errors.Wrap(err, "decode orders")
	}
	return listing, nil
}

// ChangeStatus asks the backend to persist a new status for the order.
// The response body is not used.
func (c *Client) ChangeStatus(ctx context.Context, id int64, status order.Status) error {
	_, err := c.do(ctx, http.MethodPost, fmt.Sprintf(changePath, id), encodeChangeStatus(status))
	return err
}

// Ping checks that the backend answers HTTP at all. Any response counts as
// reachable; only transport errors fail.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.base.String(), http.NoBody)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "ping backend")
	}
	_ = resp.Body.Close()
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, errors.Wrapf(err, "parse path %q", path)
	}
	u := c.base.ResolveReference(ref)

	var reqBody io.Reader = http.NoBody
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s response", path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &StatusError{
			Method: method,
			Path:   path,
			Code:   resp.StatusCode,
			Body:   string(body),
		}
	}
	return body, nil
}

func encodeChangeStatus(status order.Status) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("newStatus", func(e *jx.Encoder) {
			e.Str(string(status))
		})
	})
	return e.Bytes()
}

// parseID accepts ids rendered either as numbers or as numeric strings.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse id %q", s)
	}
	return id, nil
}
