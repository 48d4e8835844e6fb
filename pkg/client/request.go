package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Sternrassler/spess/pkg/cache"
	"github.com/Sternrassler/spess/pkg/models"
	"github.com/Sternrassler/spess/pkg/pagination"
	"github.com/Sternrassler/spess/pkg/ratelimit"
)

// Prometheus metrics for client operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spess_requests_total",
		Help: "Total API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spess_request_duration_seconds",
		Help:    "API request duration in seconds by endpoint, including waits and retries",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spess_errors_total",
		Help: "Total API errors by class",
	}, []string{"class"})

	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spess_retries_total",
		Help: "Total number of retry attempts by error class",
	}, []string{"error_class"})

	retryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spess_retry_backoff_seconds",
		Help:    "Backoff duration for retries by error class",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"error_class"})

	retryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spess_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by error class",
	}, []string{"error_class"})
)

// request describes one API call. route is the path template, used as the
// metrics label; path is route with its arguments filled in.
type request struct {
	method    string
	route     string
	path      string
	query     url.Values
	body      any
	cacheable bool
}

type response struct {
	status int
	header http.Header
	body   []byte
}

// newRequest fills the {placeholders} of route with args, in order.
func newRequest(method, route string, args ...string) request {
	var b strings.Builder
	rest := route
	for _, arg := range args {
		open := strings.IndexByte(rest, '{')
		end := strings.IndexByte(rest, '}')
		if open < 0 || end < open {
			break
		}
		b.WriteString(rest[:open])
		b.WriteString(url.PathEscape(arg))
		rest = rest[end+1:]
	}
	b.WriteString(rest)

	return request{
		method:    method,
		route:     route,
		path:      b.String(),
		query:     url.Values{},
		cacheable: method == http.MethodGet && strings.HasPrefix(route, "/systems"),
	}
}

// withQuery adds query values, skipping empty ones.
func (r request) withQuery(name string, values ...string) request {
	q := url.Values{}
	for k, v := range r.query {
		q[k] = append([]string(nil), v...)
	}
	for _, v := range values {
		if v != "" {
			q.Add(name, v)
		}
	}
	r.query = q
	return r
}

func (r request) withBody(body any) request {
	r.body = body
	return r
}

// do runs the request pipeline: cache, rate limits, transport and retries.
// Only transport failures are returned as errors; HTTP statuses are left to
// the decoders, except when retries for them are exhausted.
func (c *Client) do(ctx context.Context, req request) (*response, error) {
	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues(req.route).Observe(time.Since(start).Seconds())
	}()

	id := uuid.NewString()
	logger := c.logger.With().
		Str("request_id", id).
		Str("method", req.method).
		Str("endpoint", req.route).
		Logger()

	var key cache.Key
	useCache := c.cache != nil && req.cacheable
	if useCache {
		key = cache.Key{Path: req.path, Query: req.query, Scope: c.config.CacheScope}
		entry, err := c.cache.Get(ctx, key)
		switch {
		case err == nil:
			logger.Debug().Str("path", req.path).Msg("Cache hit")
			requestsTotal.WithLabelValues(req.route, "cached").Inc()
			return &response{status: entry.StatusCode, header: entry.Headers, body: entry.Data}, nil
		case !errors.Is(err, cache.ErrCacheMiss):
			logger.Warn().Err(err).Msg("Cache get error")
		}
	}

	attempts := map[ErrorClass]int{}
	for {
		resp, err := c.execute(ctx, req, id)

		var class ErrorClass
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, networkError("request cancelled", err)
			}
			class = ErrorClassNetwork
			requestsTotal.WithLabelValues(req.route, "network_error").Inc()
		case resp.status == http.StatusTooManyRequests:
			class = ErrorClassRateLimit
		case resp.status >= 500:
			class = ErrorClassServer
		}

		if class == "" {
			if useCache && cache.Cacheable(resp.status, resp.header) {
				entry := cache.NewEntry(resp.status, resp.header, resp.body, c.clock.Now(), c.cache.TTL())
				if err := c.cache.Set(ctx, key, entry); err != nil {
					logger.Warn().Err(err).Msg("Failed to cache response")
				}
			}
			return resp, nil
		}

		attempts[class]++
		rc := c.retryConfig(class)
		if !shouldRetry(req.method, class) {
			if err != nil {
				return nil, networkError("request failed", err)
			}
			return resp, nil
		}
		if attempts[class] >= rc.MaxAttempts {
			retryExhaustedTotal.WithLabelValues(string(class)).Inc()
			logger.Warn().
				Str("error_class", string(class)).
				Int("max_attempts", rc.MaxAttempts).
				Msg("Retry attempts exhausted")
			if err != nil {
				return nil, networkError("request failed", errors.Join(ErrRetryExhausted, err))
			}
			e := statusError(resp)
			e.Err = ErrRetryExhausted
			return nil, e
		}

		var wait time.Duration
		if class == ErrorClassRateLimit {
			wait = retryAfter(resp.header, c.clock.Now(), rc.InitialBackoff, rc.MaxBackoff)
			if c.tracker != nil {
				if err := c.tracker.UpdateFromHeaders(ctx, resp.header); err != nil {
					logger.Debug().Err(err).Msg("Failed to update rate limit state")
				}
			}
		} else {
			wait = rc.backoff(attempts[class])
		}

		retriesTotal.WithLabelValues(string(class)).Inc()
		retryBackoffSeconds.WithLabelValues(string(class)).Observe(wait.Seconds())

		event := logger.Debug()
		if class != ErrorClassRateLimit {
			event = logger.Warn()
		}
		event.
			Err(err).
			Str("error_class", string(class)).
			Int("attempt", attempts[class]).
			Dur("backoff", wait).
			Msg("Retrying request after backoff")

		if err := c.clock.Sleep(ctx, wait); err != nil {
			return nil, networkError("request cancelled", err)
		}
	}
}

// execute waits on the rate limiters and sends the request once.
func (c *Client) execute(ctx context.Context, req request, id string) (*response, error) {
	if err := ratelimit.Wait(ctx, c.limiter, c.clock); err != nil {
		return nil, err
	}
	if c.tracker != nil {
		if err := c.tracker.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn().Err(err).Msg("Shared rate limit unavailable - using local limiter only")
		}
	}

	r := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(req.query)
	if req.body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(req.body)
	}

	if c.config.Debug {
		body, _ := json.Marshal(req.body)
		c.logger.Debug().
			Str("request_id", id).
			Str("method", req.method).
			Str("path", req.path).
			Str("query", req.query.Encode()).
			RawJSON("body", body).
			Msg(">>>")
	}

	resp, err := r.Execute(req.method, req.path)
	if err != nil {
		c.logger.Debug().Err(err).Str("request_id", id).Msg("HTTP request failed")
		return nil, err
	}

	out := &response{
		status: resp.StatusCode(),
		header: resp.Header(),
		body:   resp.Body(),
	}

	requestsTotal.WithLabelValues(req.route, strconv.Itoa(out.status)).Inc()

	if c.config.Debug {
		event := c.logger.Debug().
			Str("request_id", id).
			Int("status", out.status)
		if json.Valid(out.body) {
			event = event.RawJSON("body", out.body)
		} else {
			event = event.Bytes("body", out.body)
		}
		event.Msg("<<<")
	}

	if c.tracker != nil && out.status != http.StatusTooManyRequests {
		if err := c.tracker.UpdateFromHeaders(ctx, out.header); err != nil {
			c.logger.Debug().Err(err).Msg("Failed to update rate limit state")
		}
	}

	return out, nil
}

// errorBody is the SpaceTraders error envelope.
type errorBody struct {
	Error *struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	} `json:"error"`
}

// statusError builds the error for a non-2xx response.
func statusError(resp *response) *Error {
	e := &Error{
		Class:      classForStatus(resp.status),
		StatusCode: resp.status,
	}

	var body errorBody
	if err := json.Unmarshal(resp.body, &body); err == nil && body.Error != nil {
		e.Code = body.Error.Code
		e.Message = body.Error.Message
	}
	if e.Message == "" {
		e.Message = http.StatusText(resp.status)
	}
	return e
}

// check maps non-success statuses to errors.
func check(resp *response) error {
	switch {
	case resp.status == http.StatusNoContent:
		return &Error{Class: ErrorClassNoContent, StatusCode: resp.status, Message: "no content"}
	case resp.status >= 200 && resp.status < 300:
		return nil
	default:
		return statusError(resp)
	}
}

// envelope decodes {"data": ...} and optionally {"meta": ...}.
type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta json.RawMessage `json:"meta"`
}

func decodeEnvelope(resp *response) (envelope, error) {
	var env envelope
	body := bytes.TrimSpace(resp.body)
	if !json.Valid(body) {
		return env, parseError("response is not JSON", nil)
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return env, parseError("response is not an object", err)
	}
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return env, parseError(`response has no "data" key`, nil)
	}
	return env, nil
}

func decode[T any](resp *response) (T, error) {
	var out T
	if err := check(resp); err != nil {
		return out, err
	}
	env, err := decodeEnvelope(resp)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, parseError(fmt.Sprintf("response is not %T", out), err)
	}
	return out, nil
}

func decodePage[T any](resp *response) (models.Meta, []T, error) {
	var meta models.Meta
	if err := check(resp); err != nil {
		return meta, nil, err
	}
	env, err := decodeEnvelope(resp)
	if err != nil {
		return meta, nil, err
	}
	if len(env.Meta) == 0 {
		return meta, nil, parseError(`paged response missing "meta" key`, nil)
	}
	if err := json.Unmarshal(env.Meta, &meta); err != nil {
		return meta, nil, parseError("paged response has bad meta", err)
	}
	var items []T
	if err := json.Unmarshal(env.Data, &items); err != nil {
		return meta, nil, parseError(fmt.Sprintf("paged response data is not %T", items), err)
	}
	return meta, items, nil
}

// decodeRaw decodes a body that is not wrapped in a data envelope.
func decodeRaw[T any](resp *response) (T, error) {
	var out T
	if err := check(resp); err != nil {
		return out, err
	}
	if !json.Valid(resp.body) {
		return out, parseError("response is not JSON", nil)
	}
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return out, parseError(fmt.Sprintf("response is not %T", out), err)
	}
	return out, nil
}

// call performs req and decodes the data envelope into T.
func call[T any](ctx context.Context, c *Client, req request) (T, error) {
	resp, err := c.do(ctx, req)
	if err != nil {
		var zero T
		return zero, c.logFailure(req, err)
	}
	out, err := decode[T](resp)
	if err != nil {
		return out, c.logFailure(req, err)
	}
	return out, nil
}

// paged wraps a listing endpoint. Page and limit are added per fetch.
func paged[T any](c *Client, req request) *pagination.Paged[T] {
	return pagination.New(func(ctx context.Context, page, limit int) (models.Meta, []T, error) {
		r := req.withQuery("page", strconv.Itoa(page)).withQuery("limit", strconv.Itoa(limit))
		resp, err := c.do(ctx, r)
		if err != nil {
			return models.Meta{}, nil, c.logFailure(req, err)
		}
		meta, items, err := decodePage[T](resp)
		if err != nil {
			return meta, nil, c.logFailure(req, err)
		}
		return meta, items, nil
	})
}

func (c *Client) logFailure(req request, err error) error {
	var e *Error
	if errors.As(err, &e) {
		if e.Class == ErrorClassNoContent {
			return err
		}
		errorsTotal.WithLabelValues(string(e.Class)).Inc()
		c.logger.Warn().
			Str("endpoint", req.route).
			Int("status", e.StatusCode).
			Int("code", e.Code).
			Str("error_class", string(e.Class)).
			Msg(e.Message)
	}
	return err
}
