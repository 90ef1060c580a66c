package repository

import (
	"context"
	"sync"

	"github.com/content-distributor/internal/models"
)

// historyMemoryRepo keeps the history in process memory
type historyMemoryRepo struct {
	mu    sync.Mutex
	items []models.Submission
	limit int
}

// NewHistoryMemoryRepo creates an in-memory history repository
func NewHistoryMemoryRepo(limit int) HistoryRepository {
	return &historyMemoryRepo{limit: limit}
}

func (r *historyMemoryRepo) Append(ctx context.Context, submission *models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = prependCapped(r.items, *submission, r.limit)
	return nil
}

func (r *historyMemoryRepo) ReadAll(ctx context.Context) ([]models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Submission, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *historyMemoryRepo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = nil
	return nil
}

// settingsMemoryRepo keeps settings in process memory
type settingsMemoryRepo struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewSettingsMemoryRepo creates an in-memory settings repository
func NewSettingsMemoryRepo() SettingsRepository {
	return &settingsMemoryRepo{values: make(map[string]string)}
}

func (r *settingsMemoryRepo) Get(ctx context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.values[key], nil
}

func (r *settingsMemoryRepo) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

func (r *settingsMemoryRepo) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, key)
	return nil
}
