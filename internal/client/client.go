// Package client talks to the Unit applications API and maps its JSON:API
// responses onto the application DTOs.
package client

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"unit-client/internal/common/config"
	apperrors "unit-client/internal/common/errors"
	apihttp "unit-client/internal/common/http"
	"unit-client/internal/common/logger"
	"unit-client/internal/common/metrics"
	"unit-client/internal/common/observability"
)

// Cache stores raw response bodies. *cache.RedisCache satisfies it.
type Cache interface {
	Key(parts ...string) string
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, keys ...string) error
}

type Client struct {
	transport  *apihttp.Client
	cache      Cache
	obs        *observability.Observability
	logger     logger.Logger
	maxRetries int
	retryDelay time.Duration
}

type Option func(*Client)

// WithCache enables read-through caching of fetched applications.
func WithCache(c Cache) Option {
	return func(cl *Client) { cl.cache = c }
}

func WithObservability(o *observability.Observability) Option {
	return func(cl *Client) { cl.obs = o }
}

func New(cfg config.UnitConfig, log logger.Logger, opts ...Option) *Client {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	c := &Client{
		transport:  apihttp.NewClient(cfg),
		logger:     log,
		maxRetries: max(cfg.MaxRetries, 1),
		retryDelay: cfg.InitialRetryDelay(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call performs one API round trip. endpoint is the path template used for
// span names and metric labels.
func (c *Client) call(ctx context.Context, method, path, endpoint string, body interface{}) ([]byte, error) {
	ctx, span := c.obs.StartSpan(ctx, method+" "+endpoint,
		attribute.String("http.method", method),
		attribute.String("http.route", endpoint),
	)
	defer span.End()

	req, err := c.transport.NewRequest(ctx, method, path, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	c.obs.Inject(ctx, req.Header)

	metrics.RequestsInFlight.Inc()
	start := time.Now()
	resp, err := c.transport.Do(req)
	duration := time.Since(start)
	metrics.RequestsInFlight.Dec()

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	c.obs.RecordAPICall(ctx, method, endpoint, status, duration)
	metrics.APIRequestsTotal.WithLabelValues(method, endpoint, statusLabel(status)).Inc()

	fields := map[string]interface{}{
		"method":      method,
		"endpoint":    endpoint,
		"status":      status,
		"request_id":  req.Header.Get(apihttp.RequestIDHeader),
		"duration_ms": duration.Milliseconds(),
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if stdErr, ok := apperrors.AsStandardError(err); ok {
			fields["error_code"] = string(stdErr.Code)
			fields["error_category"] = apperrors.GetErrorCategory(stdErr.Code)
		}
		c.logger.WithError(err).Error("Unit API request failed", fields)
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.status_code", status))
	c.logger.Debug("Unit API request completed", fields)
	return resp.Body, nil
}

func statusLabel(status int) string {
	if status == 0 {
		return "error"
	}
	return strconv.Itoa(status)
}

