package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jeeves/pkg/types"
)

func newQueryCmd(f *rootFlags) *cobra.Command {
	var (
		columns []string
		where   string
		groupBy []string
		orderBy string
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "query <table | sql>",
		Short: "Query a table, or run a raw SQL statement",
		Long: "With a bare table name, select typed rows using the filter flags.\n" +
			"Anything else is run as a raw statement.",
		Args: cobra.ExactArgs(1),
		RunE: withSession(f, func(cmd *cobra.Command, s *session, args []string) error {
			ctx := cmd.Context()
			target := strings.TrimSpace(args[0])
			if strings.ContainsAny(target, " \t\n") {
				rows, err := s.store.QuerySQL(ctx, target)
				if err != nil {
					return err
				}
				return renderRows(cmd.OutOrStdout(), rawColumns(rows), rows, f.jsonMode)
			}

			rs, err := s.store.Query(ctx, types.QueryOptions{
				Table:   target,
				Columns: columns,
				Where:   where,
				GroupBy: groupBy,
				OrderBy: orderBy,
				Limit:   limit,
			})
			if err != nil {
				return err
			}
			rows := make([][]any, len(rs.Records))
			for i, r := range rs.Records {
				rows[i] = r
			}
			return renderRows(cmd.OutOrStdout(), rs.Layout.Names(), rows, f.jsonMode)
		}),
	}
	fl := cmd.Flags()
	fl.StringSliceVar(&columns, "columns", nil, "columns to select (default: all)")
	fl.StringVar(&where, "where", "", "filter predicate")
	fl.StringSliceVar(&groupBy, "group-by", nil, "grouping columns")
	fl.StringVar(&orderBy, "order-by", "", "ordering clause")
	fl.IntVar(&limit, "limit", 0, "maximum rows (0 for no limit)")
	return cmd
}

// rawColumns names raw result columns by position.
func rawColumns(rows [][]any) []string {
	if len(rows) == 0 {
		return nil
	}
	cols := make([]string, len(rows[0]))
	for i := range cols {
		cols[i] = "c" + strconv.Itoa(i)
	}
	return cols
}
