// Package transport provides the HTTP clients handed to the transcript
// facade: a direct client with optional proxy support, and the shared
// response type also produced by the ScrapeOps client.
package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	defaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	defaultAcceptLanguage = "en-US,en;q=0.9"

	// DefaultTimeout bounds a single outbound request.
	DefaultTimeout = 30 * time.Second
)

// Response is the result of an outbound GET, shared by all client
// implementations.
type Response struct {
	StatusCode int
	Body       []byte
	URL        string
}

type Config struct {
	Timeout time.Duration
	Proxy   ProxyConfig
}

// Client issues requests directly (optionally through a configured proxy) and
// keeps cookies in a jar across requests.
type Client struct {
	httpClient *http.Client
	jar        http.CookieJar
	log        *logrus.Entry
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Timeout < 0 {
		return nil, errors.New("timeout must be positive")
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "create cookie jar")
	}

	httpTransport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}
	if cfg.Proxy != nil {
		httpTransport.Proxy = cfg.Proxy.ProxyURL
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: httpTransport,
			Jar:       jar,
		},
		jar: jar,
		log: logrus.WithField("component", "transport"),
	}, nil
}

// Get performs a GET against rawurl with params merged into its query string.
func (c *Client) Get(ctx context.Context, rawurl string, params url.Values) (*Response, error) {
	target, err := mergeParams(rawurl, params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept-Language", defaultAcceptLanguage)

	c.log.WithField("url", target).Debug("Performing GET request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "perform request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		URL:        target,
	}, nil
}

// SetCookies installs cookies for the given URL into the client's jar.
func (c *Client) SetCookies(u *url.URL, cookies []*http.Cookie) {
	c.jar.SetCookies(u, cookies)
}

func mergeParams(rawurl string, params url.Values) (string, error) {
	if len(params) == 0 {
		return rawurl, nil
	}
	parsed, err := url.Parse(rawurl)
	if err != nil {
		return "", errors.Wrap(err, "parse url")
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
