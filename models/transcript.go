package models

import "strings"

// Snippet is a single timed caption unit. Snippets are not mutated after
// creation.
type Snippet struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Transcript is an ordered sequence of snippets for one video, in temporal
// order of appearance.
type Transcript struct {
	VideoID      string    `json:"video_id"`
	Language     string    `json:"language"`
	LanguageCode string    `json:"language_code"`
	IsGenerated  bool      `json:"is_generated"`
	Snippets     []Snippet `json:"snippets"`
}

// Text returns the transcript as plain text, one snippet per line.
func (t *Transcript) Text() string {
	lines := make([]string, 0, len(t.Snippets))
	for _, s := range t.Snippets {
		lines = append(lines, s.Text)
	}
	return strings.Join(lines, "\n")
}

// Duration returns the end time of the last snippet in seconds.
func (t *Transcript) Duration() float64 {
	if len(t.Snippets) == 0 {
		return 0
	}
	last := t.Snippets[len(t.Snippets)-1]
	return last.Start + last.Duration
}
