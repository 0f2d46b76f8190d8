package validation

import (
	"net/url"
	"regexp"
	"strings"

	"yttranscript/errors"
)

var videoIDPattern = regexp.MustCompile(`^[0-9A-Za-z_-]{11}$`)

// ValidateVideoID checks that the given string is a well-formed YouTube video
// id (11 characters of the id alphabet).
func ValidateVideoID(id string) error {
	const op = "validation.ValidateVideoID"

	if id == "" {
		return errors.InvalidInput(op, nil, "video ID is required")
	}
	if !videoIDPattern.MatchString(id) {
		return errors.InvalidInput(op, nil, "invalid video ID: "+id)
	}
	return nil
}

// ExtractVideoID accepts either a bare video id or a YouTube URL
// (watch, youtu.be, shorts, embed, live) and returns the video id.
func ExtractVideoID(input string) (string, error) {
	const op = "validation.ExtractVideoID"

	input = strings.TrimSpace(input)
	if input == "" {
		return "", errors.InvalidInput(op, nil, "video ID or URL is required")
	}

	// Bare video id
	if videoIDPattern.MatchString(input) {
		return input, nil
	}

	if !strings.Contains(input, "://") {
		input = "https://" + input
	}

	parsed, err := url.Parse(input)
	if err != nil {
		return "", errors.InvalidInput(op, err, "invalid URL format")
	}

	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	var id string
	switch {
	case host == "youtu.be":
		id = strings.Trim(parsed.Path, "/")
	case strings.HasSuffix(host, "youtube.com"):
		switch {
		case parsed.Path == "/watch":
			id = parsed.Query().Get("v")
		case strings.HasPrefix(parsed.Path, "/shorts/"),
			strings.HasPrefix(parsed.Path, "/embed/"),
			strings.HasPrefix(parsed.Path, "/live/"):
			parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
			if len(parts) >= 2 {
				id = parts[1]
			}
		default:
			return "", errors.InvalidInput(op, nil, "unsupported YouTube URL: "+input)
		}
	default:
		return "", errors.InvalidInput(op, nil, "only YouTube URLs are supported")
	}

	if err := ValidateVideoID(id); err != nil {
		return "", err
	}
	return id, nil
}
