// Package youtube implements the transcript facade: listing a video's caption
// tracks and fetching them as ordered snippet sequences. It performs requests
// through any transport implementing HTTPClient, which lets callers swap the
// direct client for the ScrapeOps proxy client.
package youtube

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"yttranscript/errors"
	"yttranscript/models"
	"yttranscript/transport"
	"yttranscript/validation"
)

const (
	watchPageURL = "https://www.youtube.com/watch"
	youtubeHome  = "https://www.youtube.com"
)

// HTTPClient is the transport contract the facade depends on. Both
// transport.Client and scrapeops.Client satisfy it.
type HTTPClient interface {
	Get(ctx context.Context, rawurl string, params url.Values) (*transport.Response, error)
	SetCookies(u *url.URL, cookies []*http.Cookie)
}

type Config struct {
	// CookiePath points to a Netscape-format cookie file used for
	// age-restricted content. Optional.
	CookiePath string

	// Proxy configures the default transport when no HTTPClient is given.
	Proxy transport.ProxyConfig

	// Timeout for the default transport when no HTTPClient is given.
	Timeout time.Duration
}

// Client is the caller-facing transcript facade.
type Client struct {
	http HTTPClient
	log  *logrus.Entry
}

// NewClient builds a facade around the given transport. When httpClient is
// nil a direct transport is constructed from the config.
func NewClient(httpClient HTTPClient, cfg Config) (*Client, error) {
	if httpClient == nil {
		var err error
		httpClient, err = transport.NewClient(transport.Config{
			Timeout: cfg.Timeout,
			Proxy:   cfg.Proxy,
		})
		if err != nil {
			return nil, err
		}
	}

	if cfg.CookiePath != "" {
		cookies, err := LoadCookies(cfg.CookiePath)
		if err != nil {
			return nil, err
		}
		home, _ := url.Parse(youtubeHome)
		httpClient.SetCookies(home, cookies)
	}

	return &Client{
		http: httpClient,
		log:  logrus.WithField("component", "youtube"),
	}, nil
}

// Fetch retrieves the transcript for a video in the first matching language,
// in descending priority order. Defaults to English when no languages are
// given.
func (c *Client) Fetch(ctx context.Context, videoID string, languages ...string) (*models.Transcript, error) {
	list, err := c.List(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if len(languages) == 0 {
		languages = []string{"en"}
	}

	track, err := list.FindTranscript(languages...)
	if err != nil {
		return nil, err
	}

	return track.Fetch(ctx)
}

// List enumerates the caption tracks available for a video.
func (c *Client) List(ctx context.Context, videoID string) (*TranscriptList, error) {
	if err := validation.ValidateVideoID(videoID); err != nil {
		return nil, err
	}

	c.log.WithField("video_id", videoID).Debug("Listing transcripts")

	renderer, err := c.fetchCaptionsRenderer(ctx, videoID)
	if err != nil {
		return nil, err
	}

	return newTranscriptList(c, videoID, renderer), nil
}

func (c *Client) statusError(op, videoID string, resp *transport.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusTooManyRequests:
		return errors.RateLimited(op, nil,
			"YouTube is rate limiting requests from this IP; use a proxy or add delays between requests")
	case http.StatusForbidden:
		return errors.Unavailable(op, nil, "access to video "+videoID+" was denied")
	case http.StatusNotFound:
		return errors.Unavailable(op, nil, "video "+videoID+" could not be found")
	default:
		return errors.Internal(op, nil, "unexpected response status from YouTube")
	}
}
