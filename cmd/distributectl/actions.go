package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/content-distributor/internal/app"
	"github.com/content-distributor/internal/config"
	"github.com/content-distributor/internal/database"
	"github.com/content-distributor/internal/models"
	"github.com/content-distributor/internal/validation"
	"github.com/content-distributor/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func loadConfig(c *cli.Context) (*config.Config, zerolog.Logger, error) {
	if path := c.String("config"); path != "" {
		os.Setenv("CONFIG_FILE", path)
	}
	if backend := c.String("backend"); backend != "" {
		os.Setenv("HISTORY_BACKEND", backend)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.NewWithWriter(os.Stderr, c.String("log-level"), "pretty")
	return cfg, log, nil
}

func openApp(c *cli.Context) (*app.Application, error) {
	cfg, log, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	application, err := app.New(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return application, nil
}

// SubmitAction runs the submission flow once
func SubmitAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: distributectl submit <url>", 2)
	}

	application, err := openApp(c)
	if err != nil {
		return err
	}
	defer application.Close()

	out := c.App.Writer
	fmt.Fprintln(c.App.ErrWriter, "submitting...")

	result, err := application.Services.Submission.Submit(c.Context, &models.SubmitRequest{
		ArticleURL: c.Args().First(),
		Source:     models.SourceCLI,
	})
	if err != nil {
		if vErr, ok := validation.AsValidationError(err); ok {
			return cli.Exit(vErr.Message, 1)
		}
		return err
	}

	if c.Bool("json") {
		if err := writeJSON(out, result); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "%s %s\n", result.Toast.Title, result.Toast.Description)
		printSubmissions(out, []models.Submission{*result.Submission})
	}

	if result.Submission.Status != models.StatusSuccess {
		return cli.Exit("", 1)
	}
	return nil
}

// HistoryAction prints the history, optionally polling for changes
func HistoryAction(c *cli.Context) error {
	application, err := openApp(c)
	if err != nil {
		return err
	}
	defer application.Close()

	out := c.App.Writer
	asJSON := c.Bool("json")

	show := func(list []models.Submission) {
		if asJSON {
			_ = writeJSON(out, list)
			return
		}
		printSubmissions(out, list)
	}

	if !c.Bool("watch") {
		list, err := application.Services.History.List(c.Context)
		if err != nil {
			return err
		}
		show(list)
		return nil
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = application.Services.History.Watch(ctx, c.Duration("interval"), func(list []models.Submission) {
		if !asJSON {
			fmt.Fprintln(out, strings.Repeat("-", 100))
		}
		show(list)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// HistoryClearAction removes every stored submission
func HistoryClearAction(c *cli.Context) error {
	application, err := openApp(c)
	if err != nil {
		return err
	}
	defer application.Close()

	if err := application.Services.History.Clear(c.Context); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "History cleared")
	return nil
}

// SetupKeyAction stores or removes the summarizer API key
func SetupKeyAction(c *cli.Context) error {
	application, err := openApp(c)
	if err != nil {
		return err
	}
	defer application.Close()

	settings := application.Services.Settings

	if c.Bool("clear") {
		if err := settings.ClearAPIKey(c.Context); err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, "API key removed")
		return nil
	}

	if c.NArg() != 1 {
		return cli.Exit("usage: distributectl setup-key <key> | --clear", 2)
	}
	if err := settings.SetAPIKey(c.Context, c.Args().First()); err != nil {
		if vErr, ok := validation.AsValidationError(err); ok {
			return cli.Exit(vErr.Message, 1)
		}
		return err
	}

	status, err := settings.Status(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "API key stored")
	if status.APIKeyFromConfig {
		fmt.Fprintln(c.App.Writer, "Note: SUMMARIZER_API_KEY is set and takes precedence over the stored key")
	}
	if !status.EnrichmentEnabled {
		fmt.Fprintln(c.App.Writer, "Note: enrichment is disabled; set SUMMARIZER_ENABLED=true to use it")
	}
	return nil
}

// MigrateAction applies or rolls back the postgres schema
func MigrateAction(c *cli.Context) error {
	cfg, log, err := loadConfig(c)
	if err != nil {
		return err
	}

	db, err := database.NewPostgres(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if c.Bool("down") {
		if err := db.MigrateDown(cfg.Database.MigrationsPath); err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, "Migrations rolled back")
		return nil
	}

	if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "Migrations applied")
	return nil
}

func printSubmissions(w io.Writer, list []models.Submission) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No submissions yet")
		return
	}

	fmt.Fprintf(w, "%-20s %-8s %-11s %s\n", "Time", "Status", "Failed step", "URL")
	for _, s := range list {
		step := "-"
		if s.FailedStep != "" {
			step = string(s.FailedStep)
		}
		fmt.Fprintf(w, "%-20s %-8s %-11s %s\n",
			s.Timestamp.Local().Format("2006-01-02 15:04:05"),
			s.Status,
			step,
			s.ArticleURL,
		)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
