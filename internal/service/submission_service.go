package service

import (
	"context"
	"fmt"
	"time"

	"github.com/content-distributor/internal/models"
	"github.com/content-distributor/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	toastSuccessTitle       = "Success!"
	toastSuccessDescription = "Your URL has been submitted for processing."
	toastErrorTitle         = "Error"
	toastErrorDescription   = "Failed to submit URL. Please try again."
)

type submissionService struct {
	distributor Distributor
	summarizer  Summarizer
	publisher   EventPublisher
	settings    SettingsService
	history     *historyService
	now         func() time.Time
	log         zerolog.Logger
}

func newSubmissionService(deps Deps, settings SettingsService, history *historyService, log zerolog.Logger) *submissionService {
	return &submissionService{
		distributor: deps.Distributor,
		summarizer:  deps.Summarizer,
		publisher:   deps.Publisher,
		settings:    settings,
		history:     history,
		now:         time.Now,
		log:         log.With().Str("service", "submission").Logger(),
	}
}

// Submit validates the URL, runs the outbound calls in order and records
// exactly one outcome. Network failures become an error record, not a Go error.
func (s *submissionService) Submit(ctx context.Context, req *models.SubmitRequest) (*models.SubmitResult, error) {
	articleURL, err := validation.ValidateArticleURL(req.ArticleURL)
	if err != nil {
		return nil, err
	}

	source := req.Source
	if source == "" {
		source = models.SourceWebApp
	}

	record := &models.Submission{
		ID:         uuid.New().String(),
		ArticleURL: articleURL,
		Timestamp:  s.now().UTC(),
		Status:     models.StatusSuccess,
		Source:     source,
	}

	if step, err := s.process(ctx, articleURL); err != nil {
		s.log.Warn().
			Err(err).
			Str("submission_id", record.ID).
			Str("step", string(step)).
			Str("article_url", articleURL).
			Msg("Submission failed")
		record.Status = models.StatusError
		record.FailedStep = step
	}

	if err := s.history.append(ctx, record); err != nil {
		return nil, fmt.Errorf("record submission: %w", err)
	}

	s.publish(ctx, record)

	s.log.Info().
		Str("submission_id", record.ID).
		Str("status", string(record.Status)).
		Str("source", source).
		Msg("Submission recorded")

	return resultFor(record), nil
}

// process runs distribution and then, when enabled, summarization.
// The step that failed is returned with the error.
func (s *submissionService) process(ctx context.Context, articleURL string) (models.FailedStep, error) {
	if err := s.distributor.Distribute(ctx, articleURL); err != nil {
		return models.StepDistribute, err
	}

	if s.summarizer == nil {
		return "", nil
	}

	apiKey, err := s.settings.APIKey(ctx)
	if err != nil {
		return models.StepSummarize, err
	}
	if err := s.summarizer.Summarize(ctx, articleURL, apiKey); err != nil {
		return models.StepSummarize, err
	}
	return "", nil
}

func (s *submissionService) publish(ctx context.Context, record *models.Submission) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSubmission(ctx, record); err != nil {
		s.log.Error().Err(err).Str("submission_id", record.ID).Msg("Failed to publish submission event")
	}
}

func resultFor(record *models.Submission) *models.SubmitResult {
	if record.Status == models.StatusSuccess {
		return &models.SubmitResult{
			Submission: record,
			Toast: models.Toast{
				Title:       toastSuccessTitle,
				Description: toastSuccessDescription,
				Variant:     models.ToastDefault,
			},
			ClearInput: true,
		}
	}
	return &models.SubmitResult{
		Submission: record,
		Toast: models.Toast{
			Title:       toastErrorTitle,
			Description: toastErrorDescription,
			Variant:     models.ToastDestructive,
		},
	}
}
