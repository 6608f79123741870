package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/sealdrop/internal/client/models"
	"github.com/dmitrijs2005/sealdrop/internal/client/transfer"
	"github.com/dmitrijs2005/sealdrop/internal/filex"
)

func (a *App) newDownloadCommand() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "download BLOB_ID|LINK",
		Short: "Download and decrypt files by blob id or share link",
		Long: `Download fetches one blob, or every blob named in a share link.
Private files are decrypted with the connected wallet, which must be the
recipient. Files are saved under --output without overwriting existing ones.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ids, err := transfer.ParseShareLink(args[0])
			if err != nil {
				return err
			}
			svc, err := a.services(ctx)
			if err != nil {
				return err
			}

			view := newProgressView(a.errOut)
			if len(ids) == 1 {
				d, err := svc.Transfers.RequestDownload(ctx, transfer.DownloadRequest{BlobID: ids[0]}, view.update)
				view.done()
				if err != nil {
					return err
				}
				return a.save(outDir, d)
			}

			items, err := svc.Transfers.RequestBatchDownload(ctx, ids, view.update)
			view.done()
			if err != nil {
				return err
			}
			failed := 0
			for _, it := range items {
				if it.Err != nil {
					failed++
					fmt.Fprintf(a.errOut, "%s: %v\n", it.BlobID, it.Err)
					continue
				}
				if err := a.save(outDir, it.Download); err != nil {
					failed++
					fmt.Fprintf(a.errOut, "%s: %v\n", it.BlobID, err)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d downloads failed", failed, len(items))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "output", "o", ".", "directory to save files into")
	return cmd
}

// save writes a download under dir using a sanitized, non-clashing name.
func (a *App) save(dir string, d *transfer.Download) error {
	if err := filex.EnsureDir(dir); err != nil {
		return err
	}
	path := filex.UniquePath(dir, filex.SafeName(d.Record.DisplayName()))
	if err := filex.WriteFileAtomic(path, d.Data, os.FileMode(0o600)); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %s (%s)\n", path, models.FormatFileSize(uint64(len(d.Data))))
	return nil
}
