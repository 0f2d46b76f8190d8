package youtube

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"yttranscript/errors"
)

// captionsRenderer mirrors the playerCaptionsTracklistRenderer blob embedded
// in the watch page.
type captionsRenderer struct {
	CaptionTracks        []captionTrack        `json:"captionTracks"`
	TranslationLanguages []translationLanguage `json:"translationLanguages"`
}

type captionTrack struct {
	BaseURL        string    `json:"baseUrl"`
	Name           labelText `json:"name"`
	LanguageCode   string    `json:"languageCode"`
	Kind           string    `json:"kind"`
	IsTranslatable bool      `json:"isTranslatable"`
}

type translationLanguage struct {
	LanguageCode string    `json:"languageCode"`
	LanguageName labelText `json:"languageName"`
}

type labelText struct {
	SimpleText string `json:"simpleText"`
}

// asr tracks are speech-recognition generated.
const kindASR = "asr"

var consentValuePattern = regexp.MustCompile(`name="v" value="(.*?)"`)

func (c *Client) fetchCaptionsRenderer(ctx context.Context, videoID string) (*captionsRenderer, error) {
	const op = "youtube.fetchCaptionsRenderer"

	html, err := c.fetchWatchPage(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if isConsentPage(html) {
		if err := c.createConsentCookie(html); err != nil {
			return nil, err
		}
		html, err = c.fetchWatchPage(ctx, videoID)
		if err != nil {
			return nil, err
		}
		if isConsentPage(html) {
			return nil, errors.Internal(op, nil, "failed to automatically give consent to saving cookies")
		}
	}

	return extractCaptionsRenderer(videoID, html)
}

func (c *Client) fetchWatchPage(ctx context.Context, videoID string) (string, error) {
	const op = "youtube.fetchWatchPage"

	params := url.Values{}
	params.Set("v", videoID)

	resp, err := c.http.Get(ctx, watchPageURL, params)
	if err != nil {
		return "", errors.Internal(op, err, "failed to fetch the video page")
	}
	if err := c.statusError(op, videoID, resp); err != nil {
		return "", err
	}
	return string(resp.Body), nil
}

func isConsentPage(html string) bool {
	return strings.Contains(html, `action="https://consent.youtube.com/s"`)
}

// createConsentCookie replays the consent form's v value as a CONSENT cookie
// so the next request reaches the watch page directly.
func (c *Client) createConsentCookie(html string) error {
	const op = "youtube.createConsentCookie"

	match := consentValuePattern.FindStringSubmatch(html)
	if match == nil {
		return errors.Internal(op, nil, "failed to automatically give consent to saving cookies")
	}

	c.log.Debug("Setting CONSENT cookie to bypass the consent page")

	home, _ := url.Parse(youtubeHome)
	c.http.SetCookies(home, []*http.Cookie{{
		Name:   "CONSENT",
		Value:  "YES+" + match[1],
		Domain: ".youtube.com",
		Path:   "/",
	}})
	return nil
}

func extractCaptionsRenderer(videoID, html string) (*captionsRenderer, error) {
	const op = "youtube.extractCaptionsRenderer"

	parts := strings.SplitN(html, `"captions":`, 2)
	if len(parts) < 2 {
		return nil, classifyMissingCaptions(op, videoID, html)
	}

	raw := strings.SplitN(parts[1], `,"videoDetails`, 2)[0]
	raw = strings.ReplaceAll(raw, "\n", "")

	var payload struct {
		Renderer *captionsRenderer `json:"playerCaptionsTracklistRenderer"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, errors.Internal(op, err, "failed to parse the captions data for video "+videoID)
	}

	if payload.Renderer == nil {
		return nil, errors.NotFound(op, nil, "transcripts are disabled for video "+videoID)
	}
	if len(payload.Renderer.CaptionTracks) == 0 {
		return nil, errors.NotFound(op, nil, "no transcripts are available for video "+videoID)
	}

	return payload.Renderer, nil
}

// classifyMissingCaptions maps a watch page without a captions blob to the
// reason captions could not be served.
func classifyMissingCaptions(op, videoID, html string) error {
	if strings.Contains(html, `class="g-recaptcha"`) {
		return errors.RateLimited(op, nil,
			"YouTube is receiving too many requests from this IP and now requires solving a captcha; "+
				"use a proxy or wait until the ban is lifted")
	}
	if !strings.Contains(html, `"playabilityStatus":`) {
		return errors.Unavailable(op, nil, "video "+videoID+" is no longer available")
	}
	if strings.Contains(html, `"status":"LOGIN_REQUIRED"`) &&
		strings.Contains(html, "confirm your age") {
		return errors.Unauthorized(op, nil,
			"video "+videoID+" is age restricted; provide a cookie file to authenticate")
	}
	return errors.NotFound(op, nil, "transcripts are disabled for video "+videoID)
}
