package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/sealdrop/internal/client/models"
	"github.com/dmitrijs2005/sealdrop/internal/client/transfer"
)

func (a *App) newUploadCommand() *cobra.Command {
	var (
		public    bool
		recipient string
		epochs    uint64
		duration  string
	)

	cmd := &cobra.Command{
		Use:   "upload FILE...",
		Short: "Encrypt files for a recipient and upload them",
		Long: `Upload stores every file and registers them together in one transaction.
Private uploads are encrypted so that only --recipient can decrypt them.
With --public the files are stored in plain form and anyone can download them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			retention := a.cfg.DefaultEpochs
			switch {
			case duration != "":
				r, err := transfer.ParseRetention(duration)
				if err != nil {
					return err
				}
				retention = r
			case epochs > 0:
				retention = epochs
			}

			files := make([]transfer.File, 0, len(args))
			for _, p := range args {
				f, err := transfer.OpenFile(p)
				if err != nil {
					return err
				}
				files = append(files, f)
			}

			svc, err := a.walletServices(ctx)
			if err != nil {
				return err
			}

			mode := transfer.ModePrivate
			if public {
				mode = transfer.ModePublic
			}

			view := newProgressView(a.errOut)
			res, err := svc.Transfers.Upload(ctx, transfer.UploadRequest{
				Files:           files,
				Mode:            mode,
				Recipient:       recipient,
				RetentionEpochs: retention,
			}, view.update)
			view.done()
			if err != nil {
				return err
			}
			return a.printUpload(res)
		},
	}

	cmd.Flags().BoolVar(&public, "public", false, "store the files unencrypted so anyone can download them")
	cmd.Flags().StringVarP(&recipient, "recipient", "r", "", "recipient wallet address for private uploads")
	cmd.Flags().Uint64VarP(&epochs, "epochs", "e", 0, "retention in storage epochs (defaults to the configured value)")
	cmd.Flags().StringVarP(&duration, "duration", "d", "", "retention as a duration, e.g. 14d, 2w, 3 months, 1y")
	cmd.MarkFlagsMutuallyExclusive("epochs", "duration")
	cmd.MarkFlagsMutuallyExclusive("public", "recipient")
	return cmd
}

func (a *App) printUpload(res *transfer.UploadResult) error {
	fmt.Fprintf(a.out, "Uploaded %d file(s) in transaction %s\n", len(res.Records), res.Digest)
	for _, rec := range res.Records {
		fmt.Fprintf(a.out, "  %s  %s  %s\n", rec.BlobID, rec.DisplayName(), models.FormatFileSize(rec.FileSize))
	}
	link, err := transfer.ShareLink(a.cfg.ShareBaseURL, res.BlobIDs()...)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Share link:", link)
	return nil
}
