package commands

import (
	"fmt"

	"photovault/pkg/types"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <key>...",
	Short: "Delete objects from the configured storage backend",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		for _, arg := range args {
			key := types.Key(arg)
			if err := PV.Store.Delete(ctx, key, scope()); err != nil {
				return fmt.Errorf("delete %s: %w", key, err)
			}

			if PV.Catalog != nil {
				if err := PV.Catalog.Remove(ctx, key, scope()); err != nil {
					return fmt.Errorf("remove %s from catalog: %w", key, err)
				}
			}

			fmt.Println("deleted:", key)
		}
		return nil
	},
}
