package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jeeves/pkg/types"
)

func newTablesCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List tables with their column count and size",
		Args:  cobra.NoArgs,
		RunE: withSession(f, func(cmd *cobra.Command, s *session, _ []string) error {
			ctx := cmd.Context()
			tables, err := s.store.Tables(ctx)
			if err != nil {
				return err
			}
			rows := make([][]any, 0, len(tables))
			for _, t := range tables {
				cols, err := s.store.Columns(ctx, t)
				if err != nil {
					return err
				}
				size, ok, err := s.store.Size(ctx, t)
				if err != nil {
					return err
				}
				rows = append(rows, []any{t, len(cols), formatSize(size, ok)})
			}
			return renderRows(cmd.OutOrStdout(), []string{"table", "columns", "size"}, rows, f.jsonMode)
		}),
	}
}

func newColumnsCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "columns <table>",
		Short: "Show a table's declared columns",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(f, func(cmd *cobra.Command, s *session, args []string) error {
			schema, err := s.store.Schema(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if schema == nil {
				return types.Errorf("columns", args[0], types.ErrNotFound, "table does not exist")
			}
			rows := make([][]any, len(schema))
			for i, c := range schema {
				rows[i] = []any{c.Name, c.Type, string(c.Tag), c.Modifier}
			}
			return renderRows(cmd.OutOrStdout(), []string{"name", "type", "tag", "modifier"}, rows, f.jsonMode)
		}),
	}
}

func newSizeCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "size [name]",
		Short: "Report storage used by the store or one table or index",
		Args:  cobra.MaximumNArgs(1),
		RunE: withSession(f, func(cmd *cobra.Command, s *session, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			size, ok, err := s.store.Size(cmd.Context(), name)
			if err != nil {
				return err
			}
			if f.jsonMode {
				return renderJSON(cmd.OutOrStdout(), map[string]any{"name": name, "bytes": size, "known": ok})
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatSize(size, ok))
			return nil
		}),
	}
}

func newIndexCmd(f *rootFlags) *cobra.Command {
	var unique bool
	cmd := &cobra.Command{
		Use:   "index <table.column>",
		Short: "Create the canonical index on a column if it is missing",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(f, func(cmd *cobra.Command, s *session, args []string) error {
			return s.store.CreateIndex(cmd.Context(), args[0], unique)
		}),
	}
	cmd.Flags().BoolVar(&unique, "unique", false, "create a unique index")
	return cmd
}

func newAnalyzeCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <table>",
		Short: "Refresh planner statistics for a table",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(f, func(cmd *cobra.Command, s *session, args []string) error {
			return s.store.Analyze(cmd.Context(), args[0])
		}),
	}
}
