package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jeeves/internal/sqlite"
	"github.com/mesh-intelligence/jeeves/pkg/jeeves"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the jeeves version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "jeeves v%s\nmodule: %s\ndriver: %s (%s)\n",
				jeeves.Version, jeeves.ModulePath, sqlite.DriverName(), sqlite.DriverType())
			return nil
		},
	}
}
