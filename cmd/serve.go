package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/portfolio/internal/api"
	"github.com/jonesrussell/portfolio/internal/cosmic"
	"github.com/jonesrussell/portfolio/internal/logger"
	"github.com/jonesrussell/portfolio/internal/profiling"
	"github.com/jonesrussell/portfolio/internal/telemetry"
)

func newServeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the portfolio web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	log, err := createLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	profiling.StartPprofServer(cfg.Profiling, log)

	profiler, err := profiling.StartPyroscope(cfg.Service.Name, cfg.Service.Version, cfg.Profiling, log)
	if err != nil {
		// Continuous profiling is optional; keep serving without it.
		log.Warn("Failed to start continuous profiling", logger.Error(err))
	}
	defer func() {
		if stopErr := profiler.Stop(); stopErr != nil {
			log.Warn("Failed to stop continuous profiling", logger.Error(stopErr))
		}
	}()

	tp := telemetry.NewProvider()
	client := cosmic.NewClient(cfg.Cosmic, log, cosmic.WithTelemetry(tp))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv, err := api.NewServer(ctx, api.Dependencies{
		Config:    cfg,
		Logger:    log,
		Store:     client,
		Telemetry: tp,
	})
	if err != nil {
		log.Error("Failed to create server", logger.Error(err))
		return fmt.Errorf("create server: %w", err)
	}

	log.Info("Portfolio service starting",
		logger.String("version", cfg.Service.Version),
		logger.String("bucket", cfg.Cosmic.BucketSlug),
		logger.Int("port", cfg.Service.Port),
	)

	if runErr := srv.RunWithGracefulShutdown(ctx); runErr != nil {
		log.Error("Server error", logger.Error(runErr))
		return runErr
	}
	return nil
}
