package app

import (
	"errors"

	"github.com/content-distributor/internal/client"
	"github.com/content-distributor/internal/config"
	"github.com/content-distributor/internal/events"
	"github.com/content-distributor/internal/repository"
	"github.com/content-distributor/internal/service"
	"github.com/rs/zerolog"
)

// Application wires configuration to storage, outbound clients and services.
type Application struct {
	Config   *config.Config
	Services *service.Services
	Broker   *events.Broker

	closers []func() error
	log     zerolog.Logger
}

// New builds the application for the configured backend.
// Enrichment and event publishing are wired only when configured.
func New(cfg *config.Config, log zerolog.Logger) (*Application, error) {
	repos, closeRepos, err := repository.Open(cfg, log)
	if err != nil {
		return nil, err
	}

	a := &Application{
		Config:  cfg,
		Broker:  events.NewBroker(log),
		closers: []func() error{closeRepos},
		log:     log.With().Str("component", "app").Logger(),
	}

	deps := service.Deps{
		Repos:       repos,
		Distributor: client.NewWebhookClient(cfg.Webhook, log),
		Broker:      a.Broker,
	}

	if cfg.Summarizer.Enabled {
		deps.Summarizer = client.NewSummarizerClient(cfg.Summarizer, log)
	}

	if cfg.RabbitMQ.URL != "" {
		publisher, err := events.NewRabbitMQ(cfg.RabbitMQ, log)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		deps.Publisher = publisher
		a.closers = append(a.closers, publisher.Close)
	}

	a.Services = service.NewServices(deps, cfg, log)

	a.log.Info().
		Str("backend", cfg.History.Backend).
		Int("history_limit", cfg.History.Limit).
		Bool("enrichment", cfg.Summarizer.Enabled).
		Bool("events", cfg.RabbitMQ.URL != "").
		Msg("Application initialized")

	return a, nil
}

// Close disconnects subscribers and releases connections in reverse order
func (a *Application) Close() error {
	a.Broker.Close()

	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
