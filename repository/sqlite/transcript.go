// Package sqlite caches fetched transcripts so repeated runs don't burn
// proxy credits on videos that were already retrieved.
package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	apperrors "yttranscript/errors"
	"yttranscript/models"
)

type Repository struct {
	db  *sql.DB
	ttl time.Duration
	log *logrus.Entry
}

// NewRepository wraps the cache database. Entries older than ttl are treated
// as absent.
func NewRepository(db *sql.DB, ttl time.Duration) (*Repository, error) {
	if db == nil {
		return nil, errors.New("db is required")
	}
	if ttl <= 0 {
		return nil, errors.New("ttl must be positive")
	}
	return &Repository{
		db:  db,
		ttl: ttl,
		log: logrus.WithField("component", "cache"),
	}, nil
}

// Find returns the cached transcript for the first of the given language
// codes that has an unexpired entry.
func (r *Repository) Find(ctx context.Context, videoID string, languageCodes []string) (*models.Transcript, error) {
	const op = "sqlite.Repository.Find"

	cutoff := time.Now().Add(-r.ttl)

	for _, code := range languageCodes {
		var (
			language    string
			isGenerated bool
			blob        []byte
		)
		err := r.db.QueryRowContext(ctx,
			`SELECT language, is_generated, snippets FROM transcripts
			 WHERE video_id = ? AND language_code = ? AND fetched_at > ?`,
			videoID, code, cutoff,
		).Scan(&language, &isGenerated, &blob)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, apperrors.Internal(op, err, "failed to query the transcript cache")
		}

		var snippets []models.Snippet
		if err := msgpack.Unmarshal(blob, &snippets); err != nil {
			// A corrupt blob is treated as a miss; the entry gets
			// overwritten on the next save.
			r.log.WithError(err).WithField("video_id", videoID).Warn("Dropping corrupt cache entry")
			continue
		}

		r.log.WithFields(logrus.Fields{
			"video_id": videoID,
			"language": code,
		}).Debug("Transcript cache hit")

		return &models.Transcript{
			VideoID:      videoID,
			Language:     language,
			LanguageCode: code,
			IsGenerated:  isGenerated,
			Snippets:     snippets,
		}, nil
	}

	return nil, apperrors.NotFound(op, nil, "transcript not found in cache")
}

// Save stores a transcript, replacing any previous entry for the same video
// and language.
func (r *Repository) Save(ctx context.Context, transcript *models.Transcript) error {
	const op = "sqlite.Repository.Save"

	blob, err := msgpack.Marshal(transcript.Snippets)
	if err != nil {
		return apperrors.Internal(op, err, "failed to encode snippets")
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO transcripts (video_id, language_code, language, is_generated, snippets, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(video_id, language_code) DO UPDATE SET
			language = excluded.language,
			is_generated = excluded.is_generated,
			snippets = excluded.snippets,
			fetched_at = excluded.fetched_at`,
		transcript.VideoID, transcript.LanguageCode, transcript.Language,
		transcript.IsGenerated, blob, time.Now(),
	)
	if err != nil {
		return apperrors.Internal(op, err, "failed to save transcript to cache")
	}

	return nil
}

// Purge removes expired entries.
func (r *Repository) Purge(ctx context.Context) error {
	const op = "sqlite.Repository.Purge"

	cutoff := time.Now().Add(-r.ttl)
	result, err := r.db.ExecContext(ctx, "DELETE FROM transcripts WHERE fetched_at <= ?", cutoff)
	if err != nil {
		return apperrors.Internal(op, err, "failed to purge the transcript cache")
	}

	if removed, err := result.RowsAffected(); err == nil && removed > 0 {
		r.log.WithField("removed", removed).Debug("Purged expired cache entries")
	}
	return nil
}
