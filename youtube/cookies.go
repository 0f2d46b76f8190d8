package youtube

import (
	"bufio"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"yttranscript/errors"
)

// LoadCookies reads a Netscape/Mozilla format cookie file, as produced by
// browser cookie export extensions. Expired cookies are dropped.
func LoadCookies(path string) ([]*http.Cookie, error) {
	const op = "youtube.LoadCookies"

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.InvalidInput(op, err, "can't load the provided cookie file: "+path)
	}
	defer file.Close()

	var cookies []*http.Cookie
	now := time.Now()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// curl writes HttpOnly cookies as commented lines with this prefix.
		line = strings.TrimPrefix(line, "#HttpOnly_")

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 7 {
			continue
		}

		cookie := &http.Cookie{
			Domain: fields[0],
			Path:   fields[2],
			Secure: strings.EqualFold(fields[3], "TRUE"),
			Name:   fields[5],
			Value:  fields[6],
		}

		if expires, err := strconv.ParseInt(fields[4], 10, 64); err == nil && expires > 0 {
			cookie.Expires = time.Unix(expires, 0)
			if cookie.Expires.Before(now) {
				continue
			}
		}

		cookies = append(cookies, cookie)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.InvalidInput(op, err, "can't read the provided cookie file: "+path)
	}

	if len(cookies) == 0 {
		return nil, errors.InvalidInput(op, nil,
			"the provided cookie file contains no valid cookies: "+path)
	}

	return cookies, nil
}
