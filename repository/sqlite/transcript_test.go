package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"yttranscript/errors"
	"yttranscript/models"
)

func newTestRepository(t *testing.T, ttl time.Duration) *Repository {
	t.Helper()

	db, err := InitDB(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo, err := NewRepository(db, ttl)
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	return repo
}

func sampleTranscript(videoID, code string) *models.Transcript {
	return &models.Transcript{
		VideoID:      videoID,
		Language:     "English",
		LanguageCode: code,
		IsGenerated:  true,
		Snippets: []models.Snippet{
			{Text: "hello", Start: 0.5, Duration: 1.25},
			{Text: "world", Start: 1.75, Duration: 2},
		},
	}
}

func TestSaveAndFind(t *testing.T) {
	repo := newTestRepository(t, time.Hour)
	ctx := context.Background()

	if err := repo.Save(ctx, sampleTranscript("dQw4w9WgXcQ", "en")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.Find(ctx, "dQw4w9WgXcQ", []string{"en"})
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}

	if got.Language != "English" || got.LanguageCode != "en" {
		t.Errorf("unexpected language metadata: %+v", got)
	}
	if !got.IsGenerated {
		t.Error("expected is_generated to round-trip")
	}
	if len(got.Snippets) != 2 {
		t.Fatalf("expected 2 snippets, got %d", len(got.Snippets))
	}
	if got.Snippets[0].Text != "hello" || got.Snippets[0].Start != 0.5 || got.Snippets[0].Duration != 1.25 {
		t.Errorf("unexpected first snippet: %+v", got.Snippets[0])
	}
}

func TestFindMiss(t *testing.T) {
	repo := newTestRepository(t, time.Hour)

	_, err := repo.Find(context.Background(), "dQw4w9WgXcQ", []string{"en"})
	if !errors.IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestFindLanguagePriority(t *testing.T) {
	repo := newTestRepository(t, time.Hour)
	ctx := context.Background()

	if err := repo.Save(ctx, sampleTranscript("dQw4w9WgXcQ", "en")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := repo.Save(ctx, sampleTranscript("dQw4w9WgXcQ", "de")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.Find(ctx, "dQw4w9WgXcQ", []string{"fr", "de", "en"})
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if got.LanguageCode != "de" {
		t.Errorf("expected first available language 'de', got %q", got.LanguageCode)
	}
}

func TestSaveOverwrites(t *testing.T) {
	repo := newTestRepository(t, time.Hour)
	ctx := context.Background()

	if err := repo.Save(ctx, sampleTranscript("dQw4w9WgXcQ", "en")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	updated := sampleTranscript("dQw4w9WgXcQ", "en")
	updated.Snippets = []models.Snippet{{Text: "replaced", Start: 0, Duration: 1}}
	if err := repo.Save(ctx, updated); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.Find(ctx, "dQw4w9WgXcQ", []string{"en"})
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(got.Snippets) != 1 || got.Snippets[0].Text != "replaced" {
		t.Errorf("expected overwritten snippets, got %+v", got.Snippets)
	}
}

func TestExpiredEntriesAreMisses(t *testing.T) {
	repo := newTestRepository(t, 10*time.Millisecond)
	ctx := context.Background()

	if err := repo.Save(ctx, sampleTranscript("dQw4w9WgXcQ", "en")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	if _, err := repo.Find(ctx, "dQw4w9WgXcQ", []string{"en"}); !errors.IsNotFound(err) {
		t.Errorf("expected expired entry to be a miss, got %v", err)
	}

	if err := repo.Purge(ctx); err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
}

func TestNewRepositoryValidation(t *testing.T) {
	if _, err := NewRepository(nil, time.Hour); err == nil {
		t.Error("expected error for nil db")
	}

	db, err := InitDB(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close()

	if _, err := NewRepository(db, 0); err == nil {
		t.Error("expected error for zero ttl")
	}
}
