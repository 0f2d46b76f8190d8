package transport

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// ProxyConfig supplies per-scheme proxy URLs for the direct client.
type ProxyConfig interface {
	// ProxyURL returns the proxy to use for the given request, or nil for a
	// direct connection.
	ProxyURL(req *http.Request) (*url.URL, error)
}

// GenericProxyConfig routes requests through user-supplied HTTP/HTTPS proxies.
type GenericProxyConfig struct {
	HTTPURL  string
	HTTPSURL string
}

func (g GenericProxyConfig) ProxyURL(req *http.Request) (*url.URL, error) {
	raw := g.HTTPURL
	if req.URL.Scheme == "https" && g.HTTPSURL != "" {
		raw = g.HTTPSURL
	}
	if raw == "" {
		return nil, nil
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(err, "parse proxy url")
	}
	return parsed, nil
}

const (
	webshareDomain = "p.webshare.io"
	websharePort   = 80
)

// WebshareProxyConfig routes requests through Webshare rotating residential
// proxies using the "-rotate" username suffix.
type WebshareProxyConfig struct {
	Username string
	Password string

	// Domain and Port override the default rotating endpoint when set.
	Domain string
	Port   int
}

func (w WebshareProxyConfig) endpoint() string {
	domain := w.Domain
	if domain == "" {
		domain = webshareDomain
	}
	port := w.Port
	if port == 0 {
		port = websharePort
	}
	return fmt.Sprintf("%s:%d", domain, port)
}

func (w WebshareProxyConfig) ProxyURL(req *http.Request) (*url.URL, error) {
	if w.Username == "" || w.Password == "" {
		return nil, errors.New("webshare proxy requires username and password")
	}
	return &url.URL{
		Scheme: "http",
		User:   url.UserPassword(w.Username+"-rotate", w.Password),
		Host:   w.endpoint(),
	}, nil
}
