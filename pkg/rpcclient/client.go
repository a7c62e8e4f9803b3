/*
Package rpcclient implements a JSON-RPC client for Halcyon nodes.

Every outbound call goes through the same pipeline: a bounded connection
pool, a token-bucket rate limiter, a per-endpoint circuit breaker and only
then the network. Retryable failures (timeouts, connection resets, 5xx) are
retried with jittered exponential backoff, re-entering the limiter and
breaker on every attempt. Idempotent reads can be answered from a TTL cache;
transaction submission is never cached and never retried silently.
*/
package rpcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/halcyon-chain/halcyon-go/pkg/metrics"
	"github.com/halcyon-chain/halcyon-go/pkg/rpc"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Client executes JSON-RPC calls against a remote node. It is safe for
// concurrent use by multiple goroutines.
type Client struct {
	cli      *http.Client
	endpoint *url.URL
	cfg      Config
	log      *zap.Logger
	mtr      metrics.Recorder

	pool    *connPool
	limiter *limiter
	breaker *breaker
	cache   *readCache

	latestReqID *atomic.Uint64
	// requestF performs a single wire exchange. Tests override it to run
	// against a local stub.
	requestF func(ctx context.Context, r *rpc.Request) (*rpc.Response, error)
}

// New returns a Client ready to use, bound to cfg.Endpoint.
func New(cfg Config) (*Client, error) {
	cfg.applyDefaults()
	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}

	c := &Client{
		cli: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: time.Duration(cfg.DialTimeout),
				}).DialContext,
				MaxConnsPerHost: cfg.MaxConnsPerHost,
			},
			Timeout: time.Duration(cfg.RequestTimeout),
		},
		endpoint:    u,
		cfg:         cfg,
		log:         cfg.Logger,
		mtr:         cfg.Recorder,
		pool:        newConnPool(cfg.PoolSize, time.Duration(cfg.PoolWaitTimeout)),
		limiter:     newLimiter(cfg.RateLimit, cfg.RateBurst, time.Duration(cfg.RateWaitTimeout)),
		breaker:     newBreaker(cfg.BreakerThreshold, time.Duration(cfg.BreakerCooldown), time.Duration(cfg.BreakerMaxCooldown), cfg.Recorder),
		cache:       newReadCache(cfg.CacheSize, time.Duration(cfg.CacheTTL)),
		latestReqID: atomic.NewUint64(0),
	}
	c.requestF = c.makeHTTPRequest
	return c, nil
}

// Close closes unused underlying network connections.
func (c *Client) Close() {
	c.cli.CloseIdleConnections()
}

func (c *Client) getNextRequestID() uint64 {
	return c.latestReqID.Inc()
}

// performRequest runs a call through the full pipeline and unmarshals the
// result into v.
func (c *Client) performRequest(ctx context.Context, method string, params []any, v any) error {
	raw, err := c.call(ctx, method, params)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

func (c *Client) call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	var key uint64
	cacheable := cacheableMethods[method]
	if cacheable {
		pdata, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("marshaling params: %w", err)
		}
		key = cacheKey(method, pdata)
		if raw, ok := c.cache.Get(key); ok {
			c.mtr.CacheHit(method)
			return raw, nil
		}
		c.mtr.CacheMiss(method)
	}

	var (
		mutating = method == "sendrawtransaction"
		lastErr  error
	)
	for attempt := 1; attempt <= c.cfg.RetryAttempts; attempt++ {
		if attempt > 1 {
			if err := sleepCtx(ctx, backoff(time.Duration(c.cfg.RetryBase), time.Duration(c.cfg.RetryCap), attempt-1)); err != nil {
				return nil, err
			}
		}
		raw, err := c.callOnce(ctx, method, params)
		if err == nil {
			if cacheable {
				c.cache.Add(key, raw)
			}
			return raw, nil
		}
		lastErr = err
		if !isRetryable(err) {
			return nil, err
		}
		if mutating && isIndeterminate(err) {
			// The node may have seen the transaction, resubmission
			// is the caller's call.
			return nil, &AmbiguousOutcomeError{Method: method, Cause: err}
		}
		c.log.Debug("retrying request",
			zap.String("method", method),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}
	return nil, &TransportError{
		Endpoint: c.endpoint.String(),
		Attempts: c.cfg.RetryAttempts,
		Cause:    lastErr,
	}
}

// callOnce performs a single attempt: pool, rate limiter, breaker, network.
// Acquired resources are released on every path out.
func (c *Client) callOnce(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	cn, err := c.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer c.pool.Release(cn)

	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	if err := c.breaker.Allow(); err != nil {
		return nil, err
	}

	r := rpc.NewRequest(c.getNextRequestID(), method, params)
	start := time.Now()
	resp, err := c.requestF(ctx, r)
	took := time.Since(start)

	if err != nil {
		c.breaker.Failure()
		c.mtr.RequestDone(method, took, false)
		c.log.Debug("request failed",
			zap.String("method", method),
			zap.Stringer("conn", cn.id),
			zap.Duration("took", took),
			zap.Error(err))
		return nil, err
	}
	// The endpoint answered, an application-level error doesn't count
	// against the breaker.
	c.breaker.Success()
	if resp.Error != nil {
		c.mtr.RequestDone(method, took, false)
		return nil, resp.Error
	}
	c.mtr.RequestDone(method, took, true)
	c.log.Debug("request done",
		zap.String("method", method),
		zap.Stringer("conn", cn.id),
		zap.Duration("took", took))
	if resp.Result == nil {
		return nil, errors.New("no result returned")
	}
	return resp.Result, nil
}

func (c *Client) makeHTTPRequest(ctx context.Context, r *rpc.Request) (*rpc.Response, error) {
	var (
		buf = new(bytes.Buffer)
		raw = new(rpc.Response)
	)

	if err := json.NewEncoder(buf).Encode(r); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.cli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// The node might send a proper JSON-RPC error anyway, and if it parses
	// it carries more than the status code does.
	if err := json.NewDecoder(resp.Body).Decode(raw); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, &httpStatusError{code: resp.StatusCode}
		}
		return nil, fmt.Errorf("JSON decoding: %w", err)
	}
	return raw, nil
}

// Ping attempts a TCP connection to the endpoint and returns an error if it
// can't be established.
func (c *Client) Ping() error {
	conn, err := net.DialTimeout("tcp", c.endpoint.Host, time.Duration(c.cfg.DialTimeout))
	if err != nil {
		return err
	}
	_ = conn.Close()
	return nil
}
