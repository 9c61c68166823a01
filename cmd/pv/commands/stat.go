package commands

import (
	"errors"
	"fmt"

	"photovault/pkg/meta"
	"photovault/pkg/types"

	"github.com/spf13/cobra"
)

var statCmd = &cobra.Command{
	Use:   "stat <key>",
	Short: "Check whether an object exists, and show its catalog entry if any",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		key := types.Key(args[0])

		exists, err := PV.Store.Exists(ctx, key, scope())
		if err != nil {
			return fmt.Errorf("check %s: %w", key, err)
		}
		fmt.Printf("%s exists=%v\n", key, exists)

		if PV.Catalog == nil {
			return nil
		}

		rec, err := PV.Catalog.Get(ctx, key, scope())
		if errors.Is(err, meta.ErrPhotoNotFound) {
			fmt.Println("  (no catalog entry)")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("  provider=%s size=%d type=%s\n  locator=%s\n",
			rec.Provider, rec.SizeBytes, rec.ContentType, rec.Locator)
		return nil
	},
}
