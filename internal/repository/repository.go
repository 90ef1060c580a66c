package repository

import (
	"context"

	"github.com/content-distributor/internal/models"
)

// HistoryRepository is the persistence port for the capped submission history.
// The only mutation is append-with-truncate; Clear drops everything.
type HistoryRepository interface {
	// Append prepends the record and truncates the history to the limit
	Append(ctx context.Context, submission *models.Submission) error
	// ReadAll returns the history most-recent-first; unparseable state reads as empty
	ReadAll(ctx context.Context) ([]models.Submission, error)
	Clear(ctx context.Context) error
}

// SettingsRepository stores small plaintext values such as the summarizer API key
type SettingsRepository interface {
	// Get returns "" when the key is not set
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	History  HistoryRepository
	Settings SettingsRepository
}

// prependCapped returns record followed by existing, truncated to limit
func prependCapped(existing []models.Submission, record models.Submission, limit int) []models.Submission {
	if limit <= 0 {
		limit = models.DefaultHistoryLimit
	}
	n := len(existing) + 1
	if n > limit {
		n = limit
	}
	out := make([]models.Submission, 0, n)
	out = append(out, record)
	for _, s := range existing {
		if len(out) == n {
			break
		}
		out = append(out, s)
	}
	return out
}
