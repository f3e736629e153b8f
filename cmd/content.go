package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/portfolio/internal/cosmic"
	"github.com/jonesrussell/portfolio/internal/service"
)

var (
	errAboutNotFound   = errors.New("about information not found")
	errProjectNotFound = errors.New("project not found")
)

// newContentCommand prints CMS content after the same transforms the API
// applies.
func newContentCommand(opts *options) *cobra.Command {
	content := &cobra.Command{
		Use:   "content",
		Short: "Print portfolio content from the CMS as JSON",
	}

	content.AddCommand(
		contentSubcommand(opts, "projects", "List projects", cobra.NoArgs,
			func(ctx context.Context, svc *service.PortfolioService, _ []string) (any, error) {
				return svc.Projects(ctx), nil
			}),
		contentSubcommand(opts, "project <slug>", "Show one project", cobra.ExactArgs(1),
			func(ctx context.Context, svc *service.PortfolioService, args []string) (any, error) {
				project, ok := svc.Project(ctx, args[0])
				if !ok {
					return nil, fmt.Errorf("%w: %s", errProjectNotFound, args[0])
				}
				return project, nil
			}),
		contentSubcommand(opts, "skills", "List skills grouped by category", cobra.NoArgs,
			func(ctx context.Context, svc *service.PortfolioService, _ []string) (any, error) {
				return svc.SkillGroups(ctx), nil
			}),
		contentSubcommand(opts, "categories", "List projects grouped by category", cobra.NoArgs,
			func(ctx context.Context, svc *service.PortfolioService, _ []string) (any, error) {
				return svc.ProjectGroups(ctx), nil
			}),
		contentSubcommand(opts, "about", "Show the about record", cobra.NoArgs,
			func(ctx context.Context, svc *service.PortfolioService, _ []string) (any, error) {
				about, ok := svc.About(ctx)
				if !ok {
					return nil, errAboutNotFound
				}
				return about, nil
			}),
	)

	return content
}

type contentFunc func(ctx context.Context, svc *service.PortfolioService, args []string) (any, error)

func contentSubcommand(opts *options, use, short string, args cobra.PositionalArgs, fetch contentFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, posArgs []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			// Fetch failures are logged, so keep stdout for the JSON only.
			if !opts.debug {
				cfg.Logging.Level = "warn"
			}
			log, err := createLogger(cfg, "stderr")
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			svc := service.NewPortfolioService(cosmic.NewClient(cfg.Cosmic, log))
			payload, err := fetch(cmd.Context(), svc, posArgs)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), payload)
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
