package service

import (
	"context"
	"fmt"

	"github.com/content-distributor/internal/config"
	"github.com/content-distributor/internal/models"
	"github.com/content-distributor/internal/repository"
	"github.com/content-distributor/internal/validation"
	"github.com/rs/zerolog"
)

type settingsService struct {
	repo              repository.SettingsRepository
	configuredKey     string
	enrichmentEnabled bool
	log               zerolog.Logger
}

func newSettingsService(repo repository.SettingsRepository, cfg *config.Config, enrichmentEnabled bool, log zerolog.Logger) *settingsService {
	return &settingsService{
		repo:              repo,
		configuredKey:     cfg.Summarizer.APIKey,
		enrichmentEnabled: enrichmentEnabled,
		log:               log.With().Str("service", "settings").Logger(),
	}
}

func (s *settingsService) Status(ctx context.Context) (*models.SettingsStatus, error) {
	status := &models.SettingsStatus{
		EnrichmentEnabled: s.enrichmentEnabled,
		APIKeyFromConfig:  s.configuredKey != "",
	}
	if status.APIKeyFromConfig {
		status.APIKeyConfigured = true
		return status, nil
	}

	stored, err := s.repo.Get(ctx, models.SettingSummarizerAPIKey)
	if err != nil {
		return nil, fmt.Errorf("read api key: %w", err)
	}
	status.APIKeyConfigured = stored != ""
	return status, nil
}

// SetAPIKey stores the key in plaintext, replacing any previous one
func (s *settingsService) SetAPIKey(ctx context.Context, key string) error {
	value, err := validation.ValidateAPIKey(key)
	if err != nil {
		return err
	}
	if err := s.repo.Set(ctx, models.SettingSummarizerAPIKey, value); err != nil {
		return fmt.Errorf("store api key: %w", err)
	}
	s.log.Info().Bool("overridden_by_config", s.configuredKey != "").Msg("Summarizer API key stored")
	return nil
}

func (s *settingsService) ClearAPIKey(ctx context.Context) error {
	if err := s.repo.Delete(ctx, models.SettingSummarizerAPIKey); err != nil {
		return fmt.Errorf("delete api key: %w", err)
	}
	s.log.Info().Msg("Summarizer API key removed")
	return nil
}

// APIKey returns the configured key, else the stored one, else ErrAPIKeyMissing
func (s *settingsService) APIKey(ctx context.Context) (string, error) {
	if s.configuredKey != "" {
		return s.configuredKey, nil
	}
	stored, err := s.repo.Get(ctx, models.SettingSummarizerAPIKey)
	if err != nil {
		return "", fmt.Errorf("read api key: %w", err)
	}
	if stored == "" {
		return "", ErrAPIKeyMissing
	}
	return stored, nil
}
