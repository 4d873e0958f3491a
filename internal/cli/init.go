package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jeeves/internal/paths"
)

func newInitCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and the store",
		Long:  "Write a default config.yaml if missing, create the store, and ensure the registry table.",
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := paths.ResolveConfigDir(f.configDir)
			if err != nil {
				return fmt.Errorf("resolve config dir: %w", err)
			}
			dataDir, err := paths.ResolveDataDir(f.dataDir, "")
			if err != nil {
				return fmt.Errorf("resolve data dir: %w", err)
			}
			cfgPath, created, err := writeConfigIfMissing(configDir, dataDir)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", cfgPath)
			}
			return withSession(f, func(cmd *cobra.Command, s *session, _ []string) error {
				if _, err := s.registry(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "jeeves initialized at %s\n", s.cfg.Path)
				return nil
			})(cmd, args)
		},
	}
}

func newInfoCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Summarize the store",
		Args:  cobra.NoArgs,
		RunE: withSession(f, func(cmd *cobra.Command, s *session, _ []string) error {
			summary, err := s.store.Summary(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary)
			return nil
		}),
	}
}
