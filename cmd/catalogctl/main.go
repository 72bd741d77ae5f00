package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	runner := NewRunner(RunnerOpts{
		Config: loadRunnerConfig(logger),
		Logger: logger,
	})

	if err := newApp(runner).Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

// loadRunnerConfig resolves the service URL from defaults, then
// catalogctl.toml when present, then the CATALOG_URL environment variable.
func loadRunnerConfig(logger *log.Logger) *Config {
	config := DefaultConfig()
	if _, err := os.Stat("catalogctl.toml"); err == nil {
		if loadedConfig, err := LoadConfig("catalogctl.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warnf("ignoring invalid config: %v", err)
		}
	}
	if url := os.Getenv("CATALOG_URL"); url != "" {
		config.Server.URL = url
	}
	return config
}

// newApp builds the root command. The --server flag wins over every other
// source of the service URL.
func newApp(runner *Runner) *cli.Command {
	return &cli.Command{
		Name:    "catalogctl",
		Usage:   "Browse and edit the book review catalog",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "Catalog service URL, overrides the config file and CATALOG_URL",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.IsSet("server") {
				runner.SetServerURL(cmd.String("server"))
			}
			return ctx, nil
		},
		Commands: runner.register(),
	}
}
