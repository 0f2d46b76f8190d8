// Package formatters renders fetched transcripts into output formats for the
// CLI and library callers.
package formatters

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"yttranscript/errors"
	"yttranscript/models"
)

// Formatter renders one or more transcripts into a textual format.
type Formatter interface {
	FormatTranscript(t *models.Transcript) (string, error)
	FormatTranscripts(ts []*models.Transcript) (string, error)
}

var registry = map[string]func() Formatter{
	"text":   func() Formatter { return TextFormatter{} },
	"pretty": func() Formatter { return PrettyFormatter{} },
	"json":   func() Formatter { return JSONFormatter{} },
	"srt":    func() Formatter { return SRTFormatter{} },
	"webvtt": func() Formatter { return WebVTTFormatter{} },
}

// Load returns the formatter registered under the given name.
func Load(name string) (Formatter, error) {
	const op = "formatters.Load"

	if build, ok := registry[name]; ok {
		return build(), nil
	}
	return nil, errors.InvalidInput(op, nil, fmt.Sprintf(
		"the format %q is not supported, choose one of: %s", name, strings.Join(Names(), ", ")))
}

// Names lists the supported format names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TextFormatter renders the bare transcript text, one snippet per line.
type TextFormatter struct{}

func (TextFormatter) FormatTranscript(t *models.Transcript) (string, error) {
	return t.Text(), nil
}

func (TextFormatter) FormatTranscripts(ts []*models.Transcript) (string, error) {
	return joinFormatted(TextFormatter{}, ts)
}

// PrettyFormatter renders a header plus timestamped lines.
type PrettyFormatter struct{}

func (PrettyFormatter) FormatTranscript(t *models.Transcript) (string, error) {
	var b strings.Builder
	generated := "manually created"
	if t.IsGenerated {
		generated = "auto-generated"
	}
	fmt.Fprintf(&b, "Transcript for %s - %s (%s), %s, %d snippets\n",
		t.VideoID, t.Language, t.LanguageCode, generated, len(t.Snippets))
	for _, s := range t.Snippets {
		minutes := int(s.Start) / 60
		seconds := int(s.Start) % 60
		fmt.Fprintf(&b, "[%02d:%02d] %s\n", minutes, seconds, s.Text)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (PrettyFormatter) FormatTranscripts(ts []*models.Transcript) (string, error) {
	return joinFormatted(PrettyFormatter{}, ts)
}

// JSONFormatter renders the snippet sequence as JSON. Indent enables
// pretty-printing.
type JSONFormatter struct {
	Indent bool
}

func (f JSONFormatter) FormatTranscript(t *models.Transcript) (string, error) {
	return f.marshal(t.Snippets)
}

func (f JSONFormatter) FormatTranscripts(ts []*models.Transcript) (string, error) {
	all := make([][]models.Snippet, 0, len(ts))
	for _, t := range ts {
		all = append(all, t.Snippets)
	}
	return f.marshal(all)
}

func (f JSONFormatter) marshal(v interface{}) (string, error) {
	var (
		data []byte
		err  error
	)
	if f.Indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", errors.Internal("formatters.JSONFormatter", err, "failed to encode transcript as JSON")
	}
	return string(data), nil
}

// SRTFormatter renders SubRip subtitles.
type SRTFormatter struct{}

func (SRTFormatter) FormatTranscript(t *models.Transcript) (string, error) {
	var b strings.Builder
	for i, s := range t.Snippets {
		end := snippetEnd(t.Snippets, i)
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n", i+1, srtTimestamp(s.Start), srtTimestamp(end), s.Text)
		if i < len(t.Snippets)-1 {
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

func (SRTFormatter) FormatTranscripts(ts []*models.Transcript) (string, error) {
	return joinFormatted(SRTFormatter{}, ts)
}

// WebVTTFormatter renders WebVTT subtitles.
type WebVTTFormatter struct{}

func (WebVTTFormatter) FormatTranscript(t *models.Transcript) (string, error) {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for i, s := range t.Snippets {
		end := snippetEnd(t.Snippets, i)
		fmt.Fprintf(&b, "%s --> %s\n%s\n", vttTimestamp(s.Start), vttTimestamp(end), s.Text)
		if i < len(t.Snippets)-1 {
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

func (WebVTTFormatter) FormatTranscripts(ts []*models.Transcript) (string, error) {
	return joinFormatted(WebVTTFormatter{}, ts)
}

// snippetEnd caps a snippet's end time at the start of the next snippet so
// rendered subtitles never overlap.
func snippetEnd(snippets []models.Snippet, i int) float64 {
	end := snippets[i].Start + snippets[i].Duration
	if i < len(snippets)-1 && snippets[i+1].Start < end {
		end = snippets[i+1].Start
	}
	return end
}

func splitSeconds(seconds float64) (h, m, s, ms int) {
	total := int(seconds * 1000)
	ms = total % 1000
	total /= 1000
	s = total % 60
	total /= 60
	m = total % 60
	h = total / 60
	return
}

func srtTimestamp(seconds float64) string {
	h, m, s, ms := splitSeconds(seconds)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

func vttTimestamp(seconds float64) string {
	h, m, s, ms := splitSeconds(seconds)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

func joinFormatted(f Formatter, ts []*models.Transcript) (string, error) {
	parts := make([]string, 0, len(ts))
	for _, t := range ts {
		formatted, err := f.FormatTranscript(t)
		if err != nil {
			return "", err
		}
		parts = append(parts, formatted)
	}
	return strings.Join(parts, "\n\n\n"), nil
}
