package youtube

import (
	"encoding/xml"
	"html"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"yttranscript/models"
)

// Formatting tags like <i> and <b> are stripped from snippet text.
var formattingTagPattern = regexp.MustCompile(`<[^>]*>`)

type timedtextDocument struct {
	XMLName xml.Name       `xml:"transcript"`
	Cues    []timedtextCue `xml:"text"`
}

type timedtextCue struct {
	Start float64 `xml:"start,attr"`
	Dur   float64 `xml:"dur,attr"`
	Body  string  `xml:",innerxml"`
}

// parseTimedtext parses the timedtext XML served by a caption track's base
// URL into snippets. Empty cues are skipped.
func parseTimedtext(data []byte) ([]models.Snippet, error) {
	var doc timedtextDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "unmarshal timedtext XML")
	}

	snippets := make([]models.Snippet, 0, len(doc.Cues))
	for _, cue := range doc.Cues {
		text := cleanCueText(cue.Body)
		if text == "" {
			continue
		}
		snippets = append(snippets, models.Snippet{
			Text:     text,
			Start:    cue.Start,
			Duration: cue.Dur,
		})
	}
	return snippets, nil
}

// cleanCueText strips formatting tags and resolves the double HTML escaping
// the timedtext endpoint applies to cue text.
func cleanCueText(raw string) string {
	text := formattingTagPattern.ReplaceAllString(raw, "")
	text = html.UnescapeString(html.UnescapeString(text))
	return strings.TrimSpace(text)
}
