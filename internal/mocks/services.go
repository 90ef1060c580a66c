package mocks

import (
	"context"
	"time"

	"github.com/content-distributor/internal/models"
	"github.com/content-distributor/internal/service"
)

// MockSubmissionService is a mock implementation of SubmissionService
type MockSubmissionService struct {
	SubmitFunc func(ctx context.Context, req *models.SubmitRequest) (*models.SubmitResult, error)
	Requests   []*models.SubmitRequest
	// ContextErrors records ctx.Err() observed at each call
	ContextErrors []error
}

// Verify interface compliance
var _ service.SubmissionService = (*MockSubmissionService)(nil)

func NewMockSubmissionService() *MockSubmissionService {
	return &MockSubmissionService{
		Requests: make([]*models.SubmitRequest, 0),
	}
}

func (m *MockSubmissionService) Submit(ctx context.Context, req *models.SubmitRequest) (*models.SubmitResult, error) {
	m.Requests = append(m.Requests, req)
	m.ContextErrors = append(m.ContextErrors, ctx.Err())
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, req)
	}
	return &models.SubmitResult{
		Submission: &models.Submission{
			ID:         "test-submission-id",
			ArticleURL: req.ArticleURL,
			Timestamp:  time.Now().UTC(),
			Status:     models.StatusSuccess,
			Source:     req.Source,
		},
		Toast: models.Toast{
			Title:       "Success!",
			Description: "Your URL has been submitted for processing.",
			Variant:     models.ToastDefault,
		},
		ClearInput: true,
	}, nil
}

// MockHistoryService is a mock implementation of HistoryService
type MockHistoryService struct {
	Items       []models.Submission
	ListError   error
	ClearError  error
	ClearCalls  int
	Interval    time.Duration
	Updates     chan []models.Submission
	Unsubscribe int
}

// Verify interface compliance
var _ service.HistoryService = (*MockHistoryService)(nil)

func NewMockHistoryService() *MockHistoryService {
	return &MockHistoryService{
		Items:    make([]models.Submission, 0),
		Interval: 5 * time.Second,
		Updates:  make(chan []models.Submission, 4),
	}
}

func (m *MockHistoryService) List(ctx context.Context) ([]models.Submission, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	return m.Items, nil
}

func (m *MockHistoryService) Clear(ctx context.Context) error {
	m.ClearCalls++
	if m.ClearError != nil {
		return m.ClearError
	}
	m.Items = make([]models.Submission, 0)
	return nil
}

func (m *MockHistoryService) Counts(ctx context.Context) (map[models.SubmissionStatus]int, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	counts := map[models.SubmissionStatus]int{
		models.StatusPending: 0,
		models.StatusSuccess: 0,
		models.StatusError:   0,
	}
	for _, s := range m.Items {
		counts[s.Status]++
	}
	return counts, nil
}

func (m *MockHistoryService) Subscribe() (<-chan []models.Submission, func()) {
	return m.Updates, func() { m.Unsubscribe++ }
}

func (m *MockHistoryService) Watch(ctx context.Context, interval time.Duration, fn func([]models.Submission)) error {
	fn(m.Items)
	<-ctx.Done()
	return ctx.Err()
}

func (m *MockHistoryService) PollInterval() time.Duration {
	return m.Interval
}

// MockSettingsService is a mock implementation of SettingsService
type MockSettingsService struct {
	Enabled    bool
	Key        string
	FromConfig bool
	SetError   error
}

// Verify interface compliance
var _ service.SettingsService = (*MockSettingsService)(nil)

func NewMockSettingsService() *MockSettingsService {
	return &MockSettingsService{}
}

func (m *MockSettingsService) Status(ctx context.Context) (*models.SettingsStatus, error) {
	return &models.SettingsStatus{
		EnrichmentEnabled: m.Enabled,
		APIKeyConfigured:  m.Key != "",
		APIKeyFromConfig:  m.FromConfig,
	}, nil
}

func (m *MockSettingsService) SetAPIKey(ctx context.Context, key string) error {
	if m.SetError != nil {
		return m.SetError
	}
	m.Key = key
	return nil
}

func (m *MockSettingsService) ClearAPIKey(ctx context.Context) error {
	m.Key = ""
	return nil
}

func (m *MockSettingsService) APIKey(ctx context.Context) (string, error) {
	if m.Key == "" {
		return "", service.ErrAPIKeyMissing
	}
	return m.Key, nil
}
