package youtube

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"yttranscript/errors"
	"yttranscript/models"
)

// TranslationLanguage is a language a track can be machine-translated into.
type TranslationLanguage struct {
	Language     string
	LanguageCode string
}

// Track is one caption track of a video. Fetching it yields the transcript.
type Track struct {
	VideoID              string
	Language             string
	LanguageCode         string
	IsGenerated          bool
	TranslationLanguages []TranslationLanguage

	client  *Client
	baseURL string
}

func (t *Track) IsTranslatable() bool {
	return len(t.TranslationLanguages) > 0
}

// Translate derives a track that serves this transcript machine-translated
// into the given language.
func (t *Track) Translate(languageCode string) (*Track, error) {
	const op = "youtube.Track.Translate"

	if !t.IsTranslatable() {
		return nil, errors.InvalidInput(op, nil,
			"the "+t.LanguageCode+" transcript of video "+t.VideoID+" is not translatable")
	}

	for _, lang := range t.TranslationLanguages {
		if lang.LanguageCode == languageCode {
			return &Track{
				VideoID:      t.VideoID,
				Language:     lang.Language,
				LanguageCode: lang.LanguageCode,
				IsGenerated:  t.IsGenerated,
				client:       t.client,
				baseURL:      t.baseURL + "&tlang=" + languageCode,
			}, nil
		}
	}

	return nil, errors.NotFound(op, nil,
		"translation language "+languageCode+" is not available for video "+t.VideoID)
}

// Fetch downloads and parses the track into an ordered snippet sequence.
func (t *Track) Fetch(ctx context.Context) (*models.Transcript, error) {
	const op = "youtube.Track.Fetch"

	t.client.log.WithFields(logrus.Fields{
		"video_id": t.VideoID,
		"language": t.LanguageCode,
	}).Debug("Fetching transcript track")

	resp, err := t.client.http.Get(ctx, t.baseURL, nil)
	if err != nil {
		return nil, errors.Internal(op, err, "failed to fetch the transcript for video "+t.VideoID)
	}
	if err := t.client.statusError(op, t.VideoID, resp); err != nil {
		return nil, err
	}

	snippets, err := parseTimedtext(resp.Body)
	if err != nil {
		return nil, errors.Internal(op, err, "failed to parse the transcript for video "+t.VideoID)
	}

	return &models.Transcript{
		VideoID:      t.VideoID,
		Language:     t.Language,
		LanguageCode: t.LanguageCode,
		IsGenerated:  t.IsGenerated,
		Snippets:     snippets,
	}, nil
}

// TranscriptList holds the caption tracks available for one video, split into
// manually created and generated tracks.
type TranscriptList struct {
	VideoID string

	manual    []*Track
	generated []*Track
}

func newTranscriptList(client *Client, videoID string, renderer *captionsRenderer) *TranscriptList {
	translationLanguages := make([]TranslationLanguage, 0, len(renderer.TranslationLanguages))
	for _, lang := range renderer.TranslationLanguages {
		translationLanguages = append(translationLanguages, TranslationLanguage{
			Language:     lang.LanguageName.SimpleText,
			LanguageCode: lang.LanguageCode,
		})
	}

	list := &TranscriptList{VideoID: videoID}
	for _, track := range renderer.CaptionTracks {
		t := &Track{
			VideoID:      videoID,
			Language:     track.Name.SimpleText,
			LanguageCode: track.LanguageCode,
			IsGenerated:  track.Kind == kindASR,
			client:       client,
			baseURL:      track.BaseURL,
		}
		if track.IsTranslatable {
			t.TranslationLanguages = translationLanguages
		}
		if t.IsGenerated {
			list.generated = append(list.generated, t)
		} else {
			list.manual = append(list.manual, t)
		}
	}
	return list
}

// All returns every track, manually created tracks first.
func (l *TranscriptList) All() []*Track {
	all := make([]*Track, 0, len(l.manual)+len(l.generated))
	all = append(all, l.manual...)
	all = append(all, l.generated...)
	return all
}

// FindTranscript returns the track for the first matching language code, in
// descending priority order. Manually created tracks are preferred over
// generated ones. The code "*" matches any track.
func (l *TranscriptList) FindTranscript(languageCodes ...string) (*Track, error) {
	return l.find("youtube.TranscriptList.FindTranscript", languageCodes, l.manual, l.generated)
}

// FindManuallyCreatedTranscript only considers manually created tracks.
func (l *TranscriptList) FindManuallyCreatedTranscript(languageCodes ...string) (*Track, error) {
	return l.find("youtube.TranscriptList.FindManuallyCreatedTranscript", languageCodes, l.manual)
}

// FindGeneratedTranscript only considers generated tracks.
func (l *TranscriptList) FindGeneratedTranscript(languageCodes ...string) (*Track, error) {
	return l.find("youtube.TranscriptList.FindGeneratedTranscript", languageCodes, l.generated)
}

func (l *TranscriptList) find(op string, languageCodes []string, pools ...[]*Track) (*Track, error) {
	for _, code := range languageCodes {
		for _, pool := range pools {
			for _, track := range pool {
				if code == "*" || track.LanguageCode == code {
					return track, nil
				}
			}
		}
	}

	return nil, errors.NotFound(op, nil, fmt.Sprintf(
		"no transcripts were found for any of the requested language codes %v for video %s; available: %s",
		languageCodes, l.VideoID, l.describeAvailable()))
}

func (l *TranscriptList) describeAvailable() string {
	if len(l.manual) == 0 && len(l.generated) == 0 {
		return "none"
	}
	var codes []string
	for _, track := range l.All() {
		codes = append(codes, track.LanguageCode)
	}
	return strings.Join(codes, ", ")
}

// String renders the list the way the CLI prints it with --list-transcripts.
func (l *TranscriptList) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "For video %s transcripts are available in the following languages:\n", l.VideoID)

	b.WriteString("\n(MANUALLY CREATED)\n")
	writeTrackLines(&b, l.manual)

	b.WriteString("\n(GENERATED)\n")
	writeTrackLines(&b, l.generated)

	return b.String()
}

func writeTrackLines(b *strings.Builder, tracks []*Track) {
	if len(tracks) == 0 {
		b.WriteString("None\n")
		return
	}
	for _, track := range tracks {
		translatable := ""
		if track.IsTranslatable() {
			translatable = " [TRANSLATABLE]"
		}
		fmt.Fprintf(b, " - %s (%q)%s\n", track.LanguageCode, track.Language, translatable)
	}
}
