// Package scrapeops implements the transport client that routes requests
// through the ScrapeOps proxy service.
package scrapeops

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"yttranscript/transport"
)

const (
	// DefaultEndpoint is the ScrapeOps proxy API.
	DefaultEndpoint = "https://proxy.scrapeops.io/v1/"

	// DefaultTimeout bounds a single proxied request. Proxied requests are
	// slow; the proxy may rotate IPs and retry internally.
	DefaultTimeout = 120 * time.Second

	defaultCountry = "us"

	defaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	defaultAcceptLanguage = "en-US,en;q=0.9"
)

type Config struct {
	// APIKey is the ScrapeOps API key. Required.
	APIKey string

	// Timeout for a single proxied request. Defaults to DefaultTimeout.
	Timeout time.Duration

	// Country selects the proxy exit country. Defaults to "us".
	Country string

	// Endpoint overrides the proxy API URL. Used by tests.
	Endpoint string

	// Headers seeds the client's mutable header map.
	Headers map[string]string

	// RateLimit allows at most RateLimit requests per RateLimitInterval.
	// Zero disables client-side rate limiting.
	RateLimit         int
	RateLimitInterval time.Duration
}

// Client performs GET requests through the ScrapeOps proxy. It satisfies the
// HTTPClient contract of the transcript facade.
type Client struct {
	// Headers is forwarded with every proxied request and may be customized
	// after construction. Not safe for concurrent mutation.
	Headers map[string]string

	apiKey     string
	endpoint   string
	country    string
	cookies    map[string]string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logrus.Entry
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("scrapeops: API key is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Timeout < 0 {
		return nil, errors.New("scrapeops: timeout must be positive")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Country == "" {
		cfg.Country = defaultCountry
	}

	headers := make(map[string]string, len(cfg.Headers))
	for key, value := range cfg.Headers {
		headers[key] = value
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		interval := cfg.RateLimitInterval
		if interval <= 0 {
			interval = time.Second
		}
		limiter = rate.NewLimiter(rate.Every(interval), cfg.RateLimit)
	}

	return &Client{
		Headers:  headers,
		apiKey:   cfg.APIKey,
		endpoint: cfg.Endpoint,
		country:  cfg.Country,
		cookies:  make(map[string]string),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: limiter,
		log:     logrus.WithField("component", "scrapeops"),
	}, nil
}

// Get requests the target URL through the ScrapeOps proxy. Params are merged
// into the target URL's query string before it is handed to the proxy.
func (c *Client) Get(ctx context.Context, rawurl string, params url.Values) (*transport.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "rate limiter wait")
		}
	}

	target, err := mergeParams(rawurl, params)
	if err != nil {
		return nil, err
	}

	proxyParams, err := c.buildProxyParams(target)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+proxyParams.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "create proxy request")
	}

	c.log.WithField("url", target).Debug("Requesting URL through ScrapeOps")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "scrapeops request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read scrapeops response")
	}

	if resp.StatusCode != http.StatusOK {
		c.log.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"url":    target,
		}).Error("ScrapeOps returned error status")
		return &transport.Response{StatusCode: resp.StatusCode, Body: body, URL: target}, nil
	}

	return &transport.Response{
		StatusCode: http.StatusOK,
		Body:       unwrapEnvelope(body),
		URL:        target,
	}, nil
}

// SetCookies stores cookies to be forwarded with proxied requests. The URL
// argument exists to satisfy the facade's transport contract; ScrapeOps takes
// cookies as a flat name/value mapping.
func (c *Client) SetCookies(_ *url.URL, cookies []*http.Cookie) {
	for _, cookie := range cookies {
		c.cookies[cookie.Name] = cookie.Value
	}
}

func (c *Client) buildProxyParams(target string) (url.Values, error) {
	isYouTube := strings.Contains(target, "youtube.com") || strings.Contains(target, "youtu.be")

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("url", target)
	params.Set("optimize_request", "true")
	params.Set("render_js", "false")
	params.Set("keep_headers", "true")
	params.Set("country", c.country)

	if isYouTube {
		params.Set("premium", "true")
		params.Set("browser_type", "chrome")
	}

	headers := c.requestHeaders(isYouTube)
	if len(headers) > 0 {
		encoded, err := json.Marshal(headers)
		if err != nil {
			return nil, errors.Wrap(err, "encode headers")
		}
		params.Set("headers", string(encoded))
	}

	if len(c.cookies) > 0 {
		encoded, err := json.Marshal(c.cookies)
		if err != nil {
			return nil, errors.Wrap(err, "encode cookies")
		}
		params.Set("cookies", string(encoded))
	}

	return params, nil
}

func (c *Client) requestHeaders(isYouTube bool) map[string]string {
	headers := make(map[string]string, len(c.Headers)+2)
	for key, value := range c.Headers {
		headers[key] = value
	}
	if isYouTube {
		if _, ok := headers["User-Agent"]; !ok {
			headers["User-Agent"] = defaultUserAgent
		}
		if _, ok := headers["Accept-Language"]; !ok {
			headers["Accept-Language"] = defaultAcceptLanguage
		}
	}
	return headers
}

// unwrapEnvelope extracts the page from the proxy's JSON envelope when
// present. Non-JSON bodies are passed through as raw HTML.
func unwrapEnvelope(body []byte) []byte {
	var envelope struct {
		HTML *string `json:"html"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.HTML == nil {
		return body
	}
	return []byte(*envelope.HTML)
}

func mergeParams(rawurl string, params url.Values) (string, error) {
	if len(params) == 0 {
		return rawurl, nil
	}
	parsed, err := url.Parse(rawurl)
	if err != nil {
		return "", errors.Wrap(err, "parse target url")
	}
	query := parsed.Query()
	for key, values := range params {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
