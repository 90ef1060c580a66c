package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/content-distributor/internal/models"
)

// Distributor forwards an article URL to the distribution automation
type Distributor interface {
	Distribute(ctx context.Context, articleURL string) error
}

// Summarizer sends an article URL to the enrichment API
type Summarizer interface {
	Summarize(ctx context.Context, articleURL, apiKey string) error
}

// EventPublisher mirrors recorded submissions to an external queue
type EventPublisher interface {
	PublishSubmission(ctx context.Context, submission *models.Submission) error
	Close() error
}
