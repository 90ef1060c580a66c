package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/content-distributor/internal/models"
	"github.com/rs/zerolog"
)

func TestHistoryFileRepo_CorruptedContentReadsAsEmpty(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "{{{ definitely not json"},
		{name: "object instead of array", content: `{"id": "x"}`},
		{name: "array of strings", content: `["https://example.com"]`},
		{name: "missing fields", content: `[{"articleUrl": "https://example.com"}]`},
		{name: "unknown status", content: `[{"id":"1","articleUrl":"https://example.com","timestamp":"2024-01-01T00:00:00Z","status":"completed"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "submissions.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("write fixture: %v", err)
			}

			repo := NewHistoryFileRepo(path, models.DefaultHistoryLimit, zerolog.Nop())
			items, err := repo.ReadAll(context.Background())
			if err != nil {
				t.Fatalf("ReadAll() error = %v, want nil", err)
			}
			if len(items) != 0 {
				t.Errorf("Expected empty history, got %d items", len(items))
			}
		})
	}
}

func TestHistoryFileRepo_AppendAfterCorruptionStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submissions.json")
	os.WriteFile(path, []byte("garbage"), 0o600)

	repo := NewHistoryFileRepo(path, models.DefaultHistoryLimit, zerolog.Nop())
	ctx := context.Background()

	err := repo.Append(ctx, &models.Submission{
		ID:         "abc",
		ArticleURL: "https://example.com/a",
		Timestamp:  time.Now().UTC(),
		Status:     models.StatusSuccess,
	})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	items, _ := repo.ReadAll(ctx)
	if len(items) != 1 || items[0].ID != "abc" {
		t.Fatalf("Expected single fresh entry, got %+v", items)
	}
}

func TestHistoryFileRepo_PendingStatusAccepted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submissions.json")
	content := `[{"id":"1","articleUrl":"https://example.com","timestamp":"2024-01-01T00:00:00Z","status":"pending"}]`
	os.WriteFile(path, []byte(content), 0o600)

	repo := NewHistoryFileRepo(path, models.DefaultHistoryLimit, zerolog.Nop())
	items, err := repo.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(items) != 1 || items[0].Status != models.StatusPending {
		t.Errorf("Expected one pending entry, got %+v", items)
	}
}

func TestHistoryFileRepo_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "submissions.json")
	repo := NewHistoryFileRepo(path, models.DefaultHistoryLimit, zerolog.Nop())

	err := repo.Append(context.Background(), &models.Submission{
		ID:         "abc",
		ArticleURL: "https://example.com/a",
		Timestamp:  time.Now().UTC(),
		Status:     models.StatusError,
		FailedStep: models.StepDistribute,
	})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected history file to exist: %v", err)
	}
}

func TestHistoryFileRepo_OversizedFileReadsCapped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submissions.json")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	stored := make([]models.Submission, 0, 15)
	for i := 15; i > 0; i-- {
		stored = append(stored, models.Submission{
			ID:         fmt.Sprintf("id-%02d", i),
			ArticleURL: fmt.Sprintf("https://example.com/%d", i),
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			Status:     models.StatusSuccess,
		})
	}
	data, err := json.Marshal(stored)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	repo := NewHistoryFileRepo(path, models.DefaultHistoryLimit, zerolog.Nop())
	ctx := context.Background()

	items, err := repo.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(items) != models.DefaultHistoryLimit {
		t.Fatalf("Expected %d items, got %d", models.DefaultHistoryLimit, len(items))
	}
	if items[0].ID != "id-15" || items[len(items)-1].ID != "id-06" {
		t.Errorf("Expected newest entries id-15..id-06, got %s..%s", items[0].ID, items[len(items)-1].ID)
	}

	// the next append rewrites the file within the cap
	if err := repo.Append(ctx, &models.Submission{
		ID:         "id-16",
		ArticleURL: "https://example.com/16",
		Timestamp:  base.Add(16 * time.Minute),
		Status:     models.StatusSuccess,
	}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	items, _ = repo.ReadAll(ctx)
	if len(items) != models.DefaultHistoryLimit || items[0].ID != "id-16" || items[len(items)-1].ID != "id-07" {
		t.Errorf("Unexpected history after append: len=%d first=%s last=%s", len(items), items[0].ID, items[len(items)-1].ID)
	}
}

func TestSettingsFileRepo_CorruptedReadsAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	os.WriteFile(path, []byte("[1,2,3]"), 0o600)

	repo := NewSettingsFileRepo(path, zerolog.Nop())
	value, err := repo.Get(context.Background(), models.SettingSummarizerAPIKey)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if value != "" {
		t.Errorf("Expected empty value, got %q", value)
	}
}

func TestPrependCapped(t *testing.T) {
	existing := []models.Submission{{ID: "b"}, {ID: "a"}}

	out := prependCapped(existing, models.Submission{ID: "c"}, 2)
	if len(out) != 2 || out[0].ID != "c" || out[1].ID != "b" {
		t.Errorf("Unexpected result: %+v", out)
	}
	// input is not modified
	if existing[0].ID != "b" || existing[1].ID != "a" {
		t.Errorf("Input slice was modified: %+v", existing)
	}
}
