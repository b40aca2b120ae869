// Package api is the HTTP client of the Project30 booking server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"project30/internal/metrics"
)

const cachePrefix = "project30:"

// Client talks JSON to the booking server. The session cookie returned by
// Login is kept in the client's cookie jar.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	jar        *sessionJar

	// guards the settings below, which may change while requests run
	mu       sync.RWMutex
	redis    *redis.Client
	cacheTTL time.Duration
	limiter  *rate.Limiter
}

// NewClient constructs a client for baseURL, e.g. http://host:8080/Project30/.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	jar, err := newSessionJar()
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: u,
		jar:     jar,
		httpClient: &http.Client{
			Timeout:   timeout,
			Jar:       jar,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

// UseRedisCache enables caching of reference data (courses, professors, rosters).
// Bookings are never cached.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.redis = redisClient
	c.cacheTTL = ttl
}

func (c *Client) cache() (*redis.Client, time.Duration) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.redis, c.cacheTTL
}

func (c *Client) rateLimiter() *rate.Limiter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.limiter
}

// UseRateLimit throttles outgoing requests to rps with the given burst.
func (c *Client) UseRateLimit(rps float64, burst int) {
	var limiter *rate.Limiter
	if rps > 0 {
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	c.mu.Lock()
	c.limiter = limiter
	c.mu.Unlock()
}

// Ping checks that the server answers at all.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.String(), http.NoBody)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("health check failed: %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL.ResolveReference(&url.URL{Path: path})
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	rdb, ttl := c.cache()
	if rdb == nil || ttl <= 0 {
		return false
	}
	val, err := rdb.Get(ctx, cachePrefix+key).Bytes()
	if err != nil {
		metrics.IncCacheLookup(false)
		return false
	}
	if err := json.Unmarshal(val, out); err != nil {
		metrics.IncCacheLookup(false)
		return false
	}
	metrics.IncCacheLookup(true)
	return true
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	rdb, ttl := c.cache()
	if rdb == nil || ttl <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := rdb.Set(ctx, cachePrefix+key, data, ttl).Err(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func (c *Client) dropCache(ctx context.Context) {
	rdb, _ := c.cache()
	if rdb == nil {
		return
	}
	iter := rdb.Scan(ctx, 0, cachePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		_ = rdb.Del(ctx, iter.Val()).Err()
	}
}

func (c *Client) doGet(ctx context.Context, path string, query url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) doPost(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), payload)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, path, out)
}

func (c *Client) do(req *http.Request, path string, out any) (err error) {
	ctx := req.Context()
	label := req.Method + " " + path
	start := time.Now()
	defer func() {
		took := time.Since(start)
		metrics.ObserveAPIRequest(label, err, took)
		zerolog.Ctx(ctx).Debug().
			Str("endpoint", label).
			Dur("took", took).
			Err(err).
			Msg("api request")
	}()

	if limiter := c.rateLimiter(); limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return &StatusError{Method: req.Method, Endpoint: path, Code: resp.StatusCode}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", label, err)
	}
	return nil
}

// sessionJar is a cookie jar that can be dropped on logout.
type sessionJar struct {
	mu  sync.RWMutex
	jar *cookiejar.Jar
}

func newSessionJar() (*sessionJar, error) {
	j := &sessionJar{}
	if err := j.Reset(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *sessionJar) Reset() error {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return fmt.Errorf("cookie jar: %w", err)
	}
	j.mu.Lock()
	j.jar = jar
	j.mu.Unlock()
	return nil
}

func (j *sessionJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	j.jar.SetCookies(u, cookies)
}

func (j *sessionJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.jar.Cookies(u)
}
