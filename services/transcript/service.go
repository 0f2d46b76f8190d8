// Package transcript orchestrates transcript retrieval: cache consult, rate
// limiting, and parallel fetching of multiple videos.
package transcript

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"yttranscript/models"
)

// Fetcher retrieves transcripts from the network. youtube.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, videoID string, languages ...string) (*models.Transcript, error)
}

// Cache stores fetched transcripts. sqlite.Repository satisfies it.
type Cache interface {
	Find(ctx context.Context, videoID string, languageCodes []string) (*models.Transcript, error)
	Save(ctx context.Context, transcript *models.Transcript) error
}

type Config struct {
	// Languages is the descending-priority language list used for every
	// fetch.
	Languages []string

	// Concurrency bounds parallel fetches in FetchAll.
	Concurrency int

	// RateLimit allows at most RateLimit fetches per RateLimitInterval
	// across all workers. Zero disables rate limiting.
	RateLimit         int
	RateLimitInterval time.Duration
}

type Service struct {
	fetcher Fetcher
	cache   Cache
	limiter *rate.Limiter
	config  Config
	log     *logrus.Entry
}

// NewService builds the orchestration service. cache may be nil to disable
// caching.
func NewService(fetcher Fetcher, cache Cache, cfg Config) (*Service, error) {
	if fetcher == nil {
		return nil, errors.New("fetcher is required")
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if len(cfg.Languages) == 0 {
		cfg.Languages = []string{"en"}
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		interval := cfg.RateLimitInterval
		if interval <= 0 {
			interval = time.Second
		}
		limiter = rate.NewLimiter(rate.Every(interval), cfg.RateLimit)
	}

	return &Service{
		fetcher: fetcher,
		cache:   cache,
		limiter: limiter,
		config:  cfg,
		log:     logrus.WithField("component", "transcript_service"),
	}, nil
}

// Fetch retrieves the transcript for one video, consulting the cache first.
func (s *Service) Fetch(ctx context.Context, videoID string) (*models.Transcript, error) {
	logger := s.log.WithField("video_id", videoID)

	if s.cache != nil {
		if cached, err := s.cache.Find(ctx, videoID, s.config.Languages); err == nil {
			logger.Info("Transcript found in cache")
			return cached, nil
		}
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	transcript, err := s.fetcher.Fetch(ctx, videoID, s.config.Languages...)
	if err != nil {
		logger.WithError(err).Error("Failed to fetch transcript")
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Save(ctx, transcript); err != nil {
			logger.WithError(err).Warn("Failed to cache transcript")
		}
	}

	logger.WithField("snippets", len(transcript.Snippets)).Info("Fetched transcript")
	return transcript, nil
}

// Result is the outcome of fetching one video in a batch.
type Result struct {
	VideoID    string
	Transcript *models.Transcript
	Err        error
}

// FetchAll retrieves transcripts for multiple videos using a bounded worker
// pool. Results are returned in input order; one video failing does not stop
// the others.
func (s *Service) FetchAll(ctx context.Context, videoIDs []string) []Result {
	results := make([]Result, len(videoIDs))
	if len(videoIDs) == 0 {
		return results
	}

	workers := s.config.Concurrency
	if workers > len(videoIDs) {
		workers = len(videoIDs)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				transcript, err := s.Fetch(ctx, videoIDs[i])
				results[i] = Result{
					VideoID:    videoIDs[i],
					Transcript: transcript,
					Err:        err,
				}
			}
		}()
	}

	for i := range videoIDs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			results[i] = Result{VideoID: videoIDs[i], Err: ctx.Err()}
		}
	}
	close(jobs)
	wg.Wait()

	return results
}
