package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDumpCmd(f *rootFlags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "dump [table]",
		Short: "Write a replayable SQL dump of the store or one table",
		Args:  cobra.MaximumNArgs(1),
		RunE: withSession(f, func(cmd *cobra.Command, s *session, args []string) error {
			table := ""
			if len(args) == 1 {
				table = args[0]
			}
			if output == "" {
				return s.store.Dump(cmd.Context(), cmd.OutOrStdout(), table)
			}
			if err := s.store.DumpFile(cmd.Context(), output, table); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "dump written to %s\n", output)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func newRestoreCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file>",
		Short: "Replay a dump into the store in one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(f, func(cmd *cobra.Command, s *session, args []string) error {
			return s.store.RestoreFile(cmd.Context(), args[0])
		}),
	}
}
