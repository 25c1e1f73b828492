package trends

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sony/gobreaker"
	"github.com/valyala/fasthttp"

	"trends-search/pkg/logger"
	"trends-search/pkg/metrics"
	"trends-search/pkg/volume"
)

// DefaultEndpoint is the Google Trends health API base URL
const DefaultEndpoint = "https://trends.googleapis.com/trends/v1beta"

// Config holds the provider client settings
type Config struct {
	Endpoint        string
	APIKeys         string // comma-separated, rotated round-robin
	Timeout         time.Duration
	MaxRetries      int
	RetryDelay      time.Duration
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

func (c *Config) applyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = time.Second
	}
	if c.BreakerFailures == 0 {
		c.BreakerFailures = 5
	}
	if c.BreakerTimeout <= 0 {
		c.BreakerTimeout = 30 * time.Second
	}
}

// Client queries timelinesForHealth and flattens the response into records
type Client struct {
	config  Config
	keys    *KeyPool
	http    *fasthttp.Client
	retry   *Retry
	breaker *gobreaker.CircuitBreaker
	log     *logger.SecurityLogger

	totalRequests  atomic.Uint64
	failedRequests atomic.Uint64
}

// ClientStats is a snapshot of request counters
type ClientStats struct {
	TotalRequests  uint64 `json:"total_requests"`
	FailedRequests uint64 `json:"failed_requests"`
	BreakerState   string `json:"breaker_state"`
	Keys           int    `json:"keys"`
}

func NewClient(config Config) *Client {
	config.applyDefaults()

	c := &Client{
		config: config,
		keys:   NewKeyPool(config.APIKeys),
		http: &fasthttp.Client{
			Name:                "trends-search/1.0",
			ReadTimeout:         config.Timeout,
			WriteTimeout:        config.Timeout,
			MaxConnsPerHost:     32,
			MaxIdleConnDuration: 90 * time.Second,
		},
		retry: NewRetry(config.MaxRetries, config.RetryDelay),
		log:   logger.NewSecurityLogger(logger.GetLogger().WithField("component", "trends_client")),
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "trends",
		MaxRequests: 1,
		Timeout:     config.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.BreakerFailures
		},
		IsSuccessful: breakerSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.SafeInfo("Circuit breaker state changed", map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	})

	return c
}

// breakerSuccess keeps caller mistakes from opening the breaker; only provider-side failures count.
func breakerSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code < 500 && statusErr.Code != fasthttp.StatusTooManyRequests
	}
	return false
}

// SearchVolumes implements volume.Searcher
func (c *Client) SearchVolumes(ctx context.Context, q volume.Query) ([]volume.Record, error) {
	if c.keys.Size() == 0 {
		return nil, ErrNoAPIKey
	}

	start := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		var records []volume.Record
		err := c.retry.Execute(ctx, func() error {
			var err error
			records, err = c.doQuery(ctx, q)
			return err
		})
		return records, err
	})

	if err != nil {
		c.failedRequests.Add(1)
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.UpstreamRequests.WithLabelValues(metrics.OutcomeBreakerOpen).Inc()
		}
		c.log.SafeError("Trends query failed", err, map[string]interface{}{
			"terms":       q.Terms,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil, err
	}

	records := result.([]volume.Record)
	c.log.SafeDebug("Trends query completed", map[string]interface{}{
		"terms":       q.Terms,
		"records":     len(records),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return records, nil
}

func (c *Client) doQuery(ctx context.Context, q volume.Query) ([]volume.Record, error) {
	c.totalRequests.Add(1)

	timeout := c.config.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	if err := c.buildRequest(req, q, c.keys.Next()); err != nil {
		return nil, err
	}

	start := time.Now()
	err := c.http.DoTimeout(req, resp, timeout)
	metrics.UpstreamDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("trends request failed: %w", err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		metrics.UpstreamRequests.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, &StatusError{Code: resp.StatusCode(), Body: string(resp.Body())}
	}

	records, err := ParseTimelines(resp.Body())
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}

	metrics.UpstreamRequests.WithLabelValues(metrics.OutcomeOK).Inc()
	return records, nil
}

// buildRequest maps the query onto timelinesForHealth parameters.
// Exactly one geoRestriction.* parameter is sent, chosen by the query's restriction kind.
func (c *Client) buildRequest(req *fasthttp.Request, q volume.Query, key string) error {
	var geoParam string
	switch q.GeoRestriction {
	case volume.GeoCountry:
		geoParam = "geoRestriction.country"
	case volume.GeoRegion:
		geoParam = "geoRestriction.region"
	case volume.GeoDMA:
		geoParam = "geoRestriction.dma"
	default:
		return fmt.Errorf("%w: unknown geo restriction %q", volume.ErrInvalidQuery, q.GeoRestriction)
	}

	req.SetRequestURI(c.config.Endpoint + "/timelinesForHealth")
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	args := req.URI().QueryArgs()
	for _, term := range q.Terms {
		args.Add("terms", term)
	}
	if q.StartDate != "" {
		args.Add("time.startDate", q.StartDate)
	}
	if q.EndDate != "" {
		args.Add("time.endDate", q.EndDate)
	}
	args.Add("timelineResolution", string(q.Frequency))
	args.Add(geoParam, q.GeoRestrictionOption)
	args.Add("key", key)
	return nil
}

// Stats returns request counters and the breaker state
func (c *Client) Stats() ClientStats {
	return ClientStats{
		TotalRequests:  c.totalRequests.Load(),
		FailedRequests: c.failedRequests.Load(),
		BreakerState:   c.breaker.State().String(),
		Keys:           c.keys.Size(),
	}
}
