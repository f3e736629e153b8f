// Package cmd implements the portfolio command-line interface.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/portfolio/internal/config"
	"github.com/jonesrussell/portfolio/internal/logger"
)

const defaultConfigFile = "config.yml"

// options holds the persistent flags shared by every subcommand.
type options struct {
	configPath string
	debug      bool
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// NewRootCommand builds the command tree. Running it without a subcommand
// starts the web server.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "portfolio",
		Short:         "Portfolio site backed by the Cosmic CMS",
		Long:          `Serves the portfolio home page and JSON API from content stored in a Cosmic bucket.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", config.Path(defaultConfigFile), "config file")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug mode")

	root.AddCommand(newServeCommand(opts))
	root.AddCommand(newContentCommand(opts))
	root.AddCommand(newVersionCommand(opts))

	return root
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.debug {
		cfg.Service.Debug = true
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// createLogger builds the service logger from configuration.
func createLogger(cfg *config.Config, outputPaths ...string) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
		OutputPaths: outputPaths,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}
