package commands

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"photovault/pkg/meta"
	"photovault/pkg/storage"
	"photovault/pkg/types"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// 同时上传的文件数上限。太大会打满上行带宽，收益递减。
const putConcurrency = 4

var putCmd = &cobra.Command{
	Use:   "put <file>...",
	Short: "Upload one or more files to the configured storage backend",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(putConcurrency)

		for _, path := range args {
			g.Go(func() error {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("open %s: %w", path, err)
				}
				defer f.Close()

				info, err := f.Stat()
				if err != nil {
					return fmt.Errorf("stat %s: %w", path, err)
				}

				key := types.Key(filepath.Base(path))
				up := storage.Upload{
					Body:        f,
					ContentType: mime.TypeByExtension(filepath.Ext(path)),
				}

				loc, err := PV.Store.Save(ctx, up, key, scope())
				if err != nil {
					return fmt.Errorf("upload %s: %w", path, err)
				}

				// 目录开启时把定位符记下来
				if PV.Catalog != nil {
					rec := &meta.PhotoModel{
						UserID:      scope().String(),
						Key:         key.String(),
						Provider:    providerLabel(),
						Locator:     loc.String(),
						SizeBytes:   info.Size(),
						ContentType: up.ContentTypeOrDefault(),
					}
					if err := PV.Catalog.Record(ctx, rec); err != nil {
						return fmt.Errorf("record %s in catalog: %w", key, err)
					}
				}

				fmt.Printf("%s -> %s\n", path, loc)
				return nil
			})
		}

		return g.Wait()
	},
}
