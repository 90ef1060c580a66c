package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "distributectl",
		Usage: "submit article URLs for distribution and inspect recent submissions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to a YAML config file",
				EnvVars: []string{"CONFIG_FILE"},
			},
			&cli.StringFlag{
				Name:    "backend",
				Usage:   "history backend (memory, file, sqlite, postgres)",
				EnvVars: []string{"HISTORY_BACKEND"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "log level",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "submit",
				Usage:     "submit a URL for distribution",
				ArgsUsage: "<url>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "print the result as JSON"},
				},
				Action: SubmitAction,
			},
			{
				Name:  "history",
				Usage: "show recent submissions",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "watch", Aliases: []string{"w"}, Usage: "keep polling and reprint on change"},
					&cli.DurationFlag{Name: "interval", Usage: "poll interval for --watch (defaults to HISTORY_POLL_INTERVAL)"},
					&cli.BoolFlag{Name: "json", Usage: "print the history as JSON"},
				},
				Action: HistoryAction,
				Subcommands: []*cli.Command{
					{
						Name:   "clear",
						Usage:  "remove all submissions",
						Action: HistoryClearAction,
					},
				},
			},
			{
				Name:      "setup-key",
				Usage:     "store the summarizer API key",
				ArgsUsage: "<key>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "clear", Usage: "remove the stored key"},
				},
				Action: SetupKeyAction,
			},
			{
				Name:  "db",
				Usage: "database maintenance for the postgres backend",
				Subcommands: []*cli.Command{
					{
						Name:  "migrate",
						Usage: "apply schema migrations",
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "down", Usage: "roll back the last migration"},
						},
						Action: MigrateAction,
					},
				},
			},
		},
	}
}
