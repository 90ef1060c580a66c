package mocks

import (
	"context"
	"sync"

	"github.com/content-distributor/internal/models"
	"github.com/content-distributor/internal/repository"
)

// MockHistoryRepository is a mock implementation of HistoryRepository
type MockHistoryRepository struct {
	mu          sync.Mutex
	Items       []models.Submission
	Limit       int
	AppendError error
	ReadError   error
	ClearError  error
	AppendCalls int
}

// Verify interface compliance
var _ repository.HistoryRepository = (*MockHistoryRepository)(nil)

func NewMockHistoryRepository() *MockHistoryRepository {
	return &MockHistoryRepository{
		Items: make([]models.Submission, 0),
		Limit: models.DefaultHistoryLimit,
	}
}

func (m *MockHistoryRepository) Append(ctx context.Context, submission *models.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AppendCalls++
	if m.AppendError != nil {
		return m.AppendError
	}
	items := append([]models.Submission{*submission}, m.Items...)
	if len(items) > m.Limit {
		items = items[:m.Limit]
	}
	m.Items = items
	return nil
}

func (m *MockHistoryRepository) ReadAll(ctx context.Context) ([]models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ReadError != nil {
		return nil, m.ReadError
	}
	out := make([]models.Submission, len(m.Items))
	copy(out, m.Items)
	return out, nil
}

func (m *MockHistoryRepository) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ClearError != nil {
		return m.ClearError
	}
	m.Items = make([]models.Submission, 0)
	return nil
}

// MockSettingsRepository is a mock implementation of SettingsRepository
type MockSettingsRepository struct {
	mu       sync.Mutex
	Values   map[string]string
	GetError error
	SetError error
}

// Verify interface compliance
var _ repository.SettingsRepository = (*MockSettingsRepository)(nil)

func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{
		Values: make(map[string]string),
	}
}

func (m *MockSettingsRepository) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetError != nil {
		return "", m.GetError
	}
	return m.Values[key], nil
}

func (m *MockSettingsRepository) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SetError != nil {
		return m.SetError
	}
	m.Values[key] = value
	return nil
}

func (m *MockSettingsRepository) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SetError != nil {
		return m.SetError
	}
	delete(m.Values, key)
	return nil
}

// NewMockRepositories creates a complete set of mock repositories
func NewMockRepositories() (*repository.Repositories, *MockHistoryRepository, *MockSettingsRepository) {
	history := NewMockHistoryRepository()
	settings := NewMockSettingsRepository()
	return &repository.Repositories{
		History:  history,
		Settings: settings,
	}, history, settings
}
