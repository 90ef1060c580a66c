package service

import (
	"context"
	"fmt"
	"time"

	"github.com/content-distributor/internal/events"
	"github.com/content-distributor/internal/models"
	"github.com/content-distributor/internal/repository"
	"github.com/rs/zerolog"
)

const defaultPollInterval = 5 * time.Second

type historyService struct {
	repo         repository.HistoryRepository
	broker       *events.Broker
	pollInterval time.Duration
	log          zerolog.Logger
}

func newHistoryService(repo repository.HistoryRepository, broker *events.Broker, pollInterval time.Duration, log zerolog.Logger) *historyService {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &historyService{
		repo:         repo,
		broker:       broker,
		pollInterval: pollInterval,
		log:          log.With().Str("service", "history").Logger(),
	}
}

func (s *historyService) List(ctx context.Context) ([]models.Submission, error) {
	list, err := s.repo.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return list, nil
}

func (s *historyService) Clear(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	s.log.Info().Msg("History cleared")
	s.broker.Publish([]models.Submission{})
	return nil
}

// Counts returns the number of stored submissions per status
func (s *historyService) Counts(ctx context.Context) (map[models.SubmissionStatus]int, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[models.SubmissionStatus]int, len(models.ValidStatuses))
	for status := range models.ValidStatuses {
		counts[status] = 0
	}
	for _, sub := range list {
		counts[sub.Status]++
	}
	return counts, nil
}

func (s *historyService) Subscribe() (<-chan []models.Submission, func()) {
	return s.broker.Subscribe()
}

func (s *historyService) PollInterval() time.Duration {
	return s.pollInterval
}

// Watch reads the history immediately and then on every tick, calling fn on
// the first read and whenever the list differs from the last one seen.
// It returns when ctx is cancelled.
func (s *historyService) Watch(ctx context.Context, interval time.Duration, fn func([]models.Submission)) error {
	if interval <= 0 {
		interval = s.pollInterval
	}

	var last []models.Submission
	first := true

	poll := func() {
		list, err := s.List(ctx)
		if err != nil {
			s.log.Error().Err(err).Msg("History poll failed")
			return
		}
		if first || !sameHistory(last, list) {
			first = false
			last = list
			fn(list)
		}
	}

	poll()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			poll()
		}
	}
}

// append stores the record and notifies subscribers with the new list
func (s *historyService) append(ctx context.Context, record *models.Submission) error {
	if err := s.repo.Append(ctx, record); err != nil {
		return err
	}

	list, err := s.repo.ReadAll(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to read history for subscribers")
		return nil
	}
	s.broker.Publish(list)
	return nil
}

// records are immutable, so id and status identify a list
func sameHistory(a, b []models.Submission) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Status != b[i].Status {
			return false
		}
	}
	return true
}
