package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/sealdrop/internal/client/models"
)

func (a *App) newOrphansCommand() *cobra.Command {
	var retry bool

	cmd := &cobra.Command{
		Use:   "orphans",
		Short: "List stored blobs whose registration failed",
		Long: `Orphans are blobs that reached the blob store but were never registered.
They cannot be found through the registry until registered. Use --retry to
register them again with the connected wallet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := a.services(ctx)
			if err != nil {
				return err
			}
			items, err := svc.Orphans.List(ctx)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(a.out, "No unregistered uploads.")
				return nil
			}

			if !retry {
				return writeTable(a.out, []string{"BLOB ID", "NAME", "SIZE", "STORED", "REASON"}, func(row func(...string)) {
					for _, o := range items {
						row(o.BlobID, printable(o.FileName), models.FormatFileSize(o.FileSize),
							o.CreatedAt.Format("2006-01-02 15:04"), printable(o.Reason))
					}
				})
			}

			if svc.Wallet == nil {
				return fmt.Errorf("no wallet found at %s", a.cfg.KeystorePath)
			}
			res, err := svc.Transfers.RetryRegistration(ctx, items)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Registered %d file(s)\n", len(res.Records))
			for _, rec := range res.Records {
				fmt.Fprintf(a.out, "  %s  %s\n", rec.BlobID, printable(rec.DisplayName()))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&retry, "retry", false, "register the listed blobs now")
	return cmd
}
