package service

import (
	"context"
	"errors"
	"time"

	"github.com/content-distributor/internal/config"
	"github.com/content-distributor/internal/events"
	"github.com/content-distributor/internal/models"
	"github.com/content-distributor/internal/repository"
	"github.com/rs/zerolog"
)

// ErrAPIKeyMissing is returned when enrichment is enabled but no key is available
var ErrAPIKeyMissing = errors.New("summarizer api key is not configured")

// SubmissionService defines the submission flow
type SubmissionService interface {
	Submit(ctx context.Context, req *models.SubmitRequest) (*models.SubmitResult, error)
}

// HistoryService defines read access to the submission history
type HistoryService interface {
	List(ctx context.Context) ([]models.Submission, error)
	Clear(ctx context.Context) error
	Counts(ctx context.Context) (map[models.SubmissionStatus]int, error)
	Subscribe() (<-chan []models.Submission, func())
	Watch(ctx context.Context, interval time.Duration, fn func([]models.Submission)) error
	PollInterval() time.Duration
}

// SettingsService defines management of the summarizer API key
type SettingsService interface {
	Status(ctx context.Context) (*models.SettingsStatus, error)
	SetAPIKey(ctx context.Context, key string) error
	ClearAPIKey(ctx context.Context) error
	APIKey(ctx context.Context) (string, error)
}

// Services holds all service interfaces
type Services struct {
	Submission SubmissionService
	History    HistoryService
	Settings   SettingsService
}

// Deps are the collaborators the services are built from.
// Summarizer and Publisher are optional.
type Deps struct {
	Repos       *repository.Repositories
	Distributor Distributor
	Summarizer  Summarizer
	Publisher   EventPublisher
	Broker      *events.Broker
}

// NewServices creates all services
func NewServices(deps Deps, cfg *config.Config, log zerolog.Logger) *Services {
	broker := deps.Broker
	if broker == nil {
		broker = events.NewBroker(log)
	}

	settingsSvc := newSettingsService(deps.Repos.Settings, cfg, deps.Summarizer != nil, log)
	historySvc := newHistoryService(deps.Repos.History, broker, cfg.History.PollInterval, log)
	submissionSvc := newSubmissionService(deps, settingsSvc, historySvc, log)

	return &Services{
		Submission: submissionSvc,
		History:    historySvc,
		Settings:   settingsSvc,
	}
}
