package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/content-distributor/internal/models"
	"github.com/rs/zerolog"
)

// historyFileRepo stores the history as a single JSON array file
type historyFileRepo struct {
	mu    sync.Mutex
	path  string
	limit int
	log   zerolog.Logger
}

// NewHistoryFileRepo creates a history repository backed by a JSON file
func NewHistoryFileRepo(path string, limit int, log zerolog.Logger) HistoryRepository {
	return &historyFileRepo{
		path:  path,
		limit: limit,
		log:   log.With().Str("component", "history_file").Str("path", path).Logger(),
	}
}

func (r *historyFileRepo) Append(ctx context.Context, submission *models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := r.read()
	if err != nil {
		return err
	}

	data, err := json.Marshal(prependCapped(existing, *submission, r.limit))
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	return writeFileAtomic(r.path, data)
}

func (r *historyFileRepo) ReadAll(ctx context.Context) ([]models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.read()
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Submission{}
	}
	return items, nil
}

func (r *historyFileRepo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// read loads the stored array, newest first and capped at the limit. Missing
// or malformed content yields an empty history; only I/O failures are
// returned as errors.
func (r *historyFileRepo) read() ([]models.Submission, error) {
	raw, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var items []models.Submission
	if err := json.Unmarshal(raw, &items); err != nil {
		r.log.Warn().Err(err).Msg("Stored history is not valid JSON, treating as empty")
		return nil, nil
	}
	for i := range items {
		if !items[i].IsWellFormed() {
			r.log.Warn().Int("index", i).Msg("Stored history has unexpected shape, treating as empty")
			return nil, nil
		}
	}
	if limit := r.effectiveLimit(); len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (r *historyFileRepo) effectiveLimit() int {
	if r.limit <= 0 {
		return models.DefaultHistoryLimit
	}
	return r.limit
}

// settingsFileRepo stores settings as a JSON object file
type settingsFileRepo struct {
	mu   sync.Mutex
	path string
	log  zerolog.Logger
}

// NewSettingsFileRepo creates a settings repository backed by a JSON file
func NewSettingsFileRepo(path string, log zerolog.Logger) SettingsRepository {
	return &settingsFileRepo{
		path: path,
		log:  log.With().Str("component", "settings_file").Str("path", path).Logger(),
	}
}

func (r *settingsFileRepo) Get(ctx context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	values, err := r.read()
	if err != nil {
		return "", err
	}
	return values[key], nil
}

func (r *settingsFileRepo) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	values, err := r.read()
	if err != nil {
		return err
	}
	values[key] = value
	return r.write(values)
}

func (r *settingsFileRepo) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	values, err := r.read()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return r.write(values)
}

func (r *settingsFileRepo) read() (map[string]string, error) {
	values := make(map[string]string)

	raw, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if len(raw) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(raw, &values); err != nil {
		r.log.Warn().Err(err).Msg("Stored settings are not valid JSON, treating as empty")
		return make(map[string]string), nil
	}
	return values, nil
}

func (r *settingsFileRepo) write(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	return writeFileAtomic(r.path, data)
}

// writeFileAtomic replaces path via a temp file in the same directory
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace file: %w", err)
	}
	return nil
}
