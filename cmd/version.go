package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/portfolio/internal/config"
)

func newVersionCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Read(opts.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", cfg.Service.Name, cfg.Service.Version)
			return err
		},
	}
}
