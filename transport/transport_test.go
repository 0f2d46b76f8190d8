package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestClientGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("v") != "dQw4w9WgXcQ" {
			t.Errorf("expected query param v=dQw4w9WgXcQ, got %q", r.URL.Query().Get("v"))
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("expected a User-Agent header")
		}
		w.Write([]byte("hello"))
	}))
	defer server.Close()

	client, err := NewClient(Config{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	params := url.Values{}
	params.Set("v", "dQw4w9WgXcQ")

	resp, err := client.Get(context.Background(), server.URL, params)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
	if string(resp.Body) != "hello" {
		t.Errorf("expected body 'hello', got %q", resp.Body)
	}
}

func TestClientGetMergesExistingQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("a") != "1" || q.Get("b") != "2" {
			t.Errorf("expected merged query params, got %v", q)
		}
	}))
	defer server.Close()

	client, err := NewClient(Config{})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	params := url.Values{}
	params.Set("b", "2")

	if _, err := client.Get(context.Background(), server.URL+"?a=1", params); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
}

func TestClientSetCookies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("CONSENT")
		if err != nil {
			t.Error("expected CONSENT cookie on request")
			return
		}
		if cookie.Value != "YES+42" {
			t.Errorf("expected cookie value YES+42, got %q", cookie.Value)
		}
	}))
	defer server.Close()

	client, err := NewClient(Config{})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	serverURL, _ := url.Parse(server.URL)
	client.SetCookies(serverURL, []*http.Cookie{{Name: "CONSENT", Value: "YES+42"}})

	if _, err := client.Get(context.Background(), server.URL, nil); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
}

func TestNewClientNegativeTimeout(t *testing.T) {
	if _, err := NewClient(Config{Timeout: -1 * time.Second}); err == nil {
		t.Error("expected error for negative timeout")
	}
}

func TestGenericProxyConfig(t *testing.T) {
	cfg := GenericProxyConfig{
		HTTPURL:  "http://proxy.example.com:8080",
		HTTPSURL: "http://secure-proxy.example.com:8080",
	}

	httpReq, _ := http.NewRequest(http.MethodGet, "http://youtube.com/", nil)
	httpsReq, _ := http.NewRequest(http.MethodGet, "https://youtube.com/", nil)

	proxyURL, err := cfg.ProxyURL(httpReq)
	if err != nil {
		t.Fatalf("ProxyURL failed: %v", err)
	}
	if proxyURL.Host != "proxy.example.com:8080" {
		t.Errorf("expected http proxy host, got %q", proxyURL.Host)
	}

	proxyURL, err = cfg.ProxyURL(httpsReq)
	if err != nil {
		t.Fatalf("ProxyURL failed: %v", err)
	}
	if proxyURL.Host != "secure-proxy.example.com:8080" {
		t.Errorf("expected https proxy host, got %q", proxyURL.Host)
	}
}

func TestWebshareProxyConfig(t *testing.T) {
	cfg := WebshareProxyConfig{Username: "user", Password: "pass"}

	req, _ := http.NewRequest(http.MethodGet, "https://youtube.com/", nil)
	proxyURL, err := cfg.ProxyURL(req)
	if err != nil {
		t.Fatalf("ProxyURL failed: %v", err)
	}

	if proxyURL.Host != "p.webshare.io:80" {
		t.Errorf("expected default webshare endpoint, got %q", proxyURL.Host)
	}
	if proxyURL.User.Username() != "user-rotate" {
		t.Errorf("expected rotating username 'user-rotate', got %q", proxyURL.User.Username())
	}
	if password, _ := proxyURL.User.Password(); password != "pass" {
		t.Errorf("expected password 'pass', got %q", password)
	}
}

func TestWebshareProxyConfigMissingCredentials(t *testing.T) {
	cfg := WebshareProxyConfig{}
	req, _ := http.NewRequest(http.MethodGet, "https://youtube.com/", nil)
	if _, err := cfg.ProxyURL(req); err == nil {
		t.Error("expected error for missing credentials")
	}
}
