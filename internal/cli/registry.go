package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jeeves/pkg/types"
)

func newRegistryCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Manage the key to file registry",
	}
	cmd.AddCommand(
		newRegistryAddCmd(f),
		newRegistryGetCmd(f),
		newRegistryExistsCmd(f),
		newRegistryRmCmd(f),
		newRegistryListCmd(f),
	)
	return cmd
}

func newRegistryAddCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "add <path> <key>...",
		Short: "Register a file under a composite key",
		Args:  cobra.MinimumNArgs(2),
		RunE: withSession(f, func(cmd *cobra.Command, s *session, args []string) error {
			reg, err := s.registry(cmd.Context())
			if err != nil {
				return err
			}
			return reg.Add(cmd.Context(), keyArgs(args[1:]), args[0])
		}),
	}
}

func newRegistryGetCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>...",
		Short: "Print the file registered under a key",
		Args:  cobra.MinimumNArgs(1),
		RunE: withSession(f, func(cmd *cobra.Command, s *session, args []string) error {
			reg, err := s.registry(cmd.Context())
			if err != nil {
				return err
			}
			path, err := reg.Retrieve(cmd.Context(), keyArgs(args))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		}),
	}
}

func newRegistryExistsCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "exists <key>...",
		Short: "Report whether a key is registered",
		Args:  cobra.MinimumNArgs(1),
		RunE: withSession(f, func(cmd *cobra.Command, s *session, args []string) error {
			reg, err := s.registry(cmd.Context())
			if err != nil {
				return err
			}
			ok, err := reg.Exists(cmd.Context(), keyArgs(args))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		}),
	}
}

func newRegistryRmCmd(f *rootFlags) *cobra.Command {
	var keep bool
	cmd := &cobra.Command{
		Use:   "rm <key>...",
		Short: "Remove a key and, unless --keep-file, its file",
		Args:  cobra.MinimumNArgs(1),
		RunE: withSession(f, func(cmd *cobra.Command, s *session, args []string) error {
			reg, err := s.registry(cmd.Context())
			if err != nil {
				return err
			}
			return reg.Delete(cmd.Context(), keyArgs(args), !keep)
		}),
	}
	cmd.Flags().BoolVar(&keep, "keep-file", false, "remove only the registry entry")
	return cmd
}

func newRegistryListCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered keys",
		Args:  cobra.NoArgs,
		RunE: withSession(f, func(cmd *cobra.Command, s *session, _ []string) error {
			reg, err := s.registry(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := reg.List(cmd.Context())
			if err != nil {
				return err
			}
			if f.jsonMode {
				return renderJSON(cmd.OutOrStdout(), entries)
			}
			return renderRows(cmd.OutOrStdout(), []string{"key", "filename"}, entryRows(entries), false)
		}),
	}
}

func entryRows(entries []types.RegistryEntry) [][]any {
	rows := make([][]any, len(entries))
	for i, e := range entries {
		rows[i] = []any{e.Key, e.Filename}
	}
	return rows
}
