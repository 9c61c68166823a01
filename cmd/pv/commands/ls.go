package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List cataloged photos for the given user scope",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if PV.Catalog == nil {
			return fmt.Errorf("catalog is disabled (set database.enabled to use 'ls')")
		}

		photos, err := PV.Catalog.ListByUser(cmd.Context(), scope())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tPROVIDER\tSIZE\tUPLOADED\tLOCATOR")
		for _, p := range photos {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
				p.Key, p.Provider, p.SizeBytes, p.CreatedAt.Format("2006-01-02 15:04"), p.Locator)
		}
		return w.Flush()
	},
}
