package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/sealdrop/internal/client/models"
	"github.com/dmitrijs2005/sealdrop/internal/common"
)

var errEpochUnavailable = errors.New("current epoch is unavailable")

func (a *App) newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info BLOB_ID",
		Short: "Show the registry record of a blob",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := a.services(ctx)
			if err != nil {
				return err
			}

			source := "registry"
			rec, found := svc.Registry.QueryByBlobID(ctx, args[0])
			if !found {
				cached, err := svc.Records.Get(ctx, args[0])
				if err != nil {
					a.logger.Warn(ctx, "record cache lookup failed", "error", err.Error())
				}
				if cached == nil {
					return fmt.Errorf("%w: no record for blob %s in recent registry history", common.ErrNotFound, args[0])
				}
				rec, source = cached, "local cache"
			}

			epoch, known := svc.Registry.CurrentEpoch(ctx)
			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Blob ID:\t%s\n", rec.BlobID)
			fmt.Fprintf(tw, "Name:\t%s\n", printable(rec.DisplayName()))
			fmt.Fprintf(tw, "Type:\t%s\n", printable(rec.FileType))
			fmt.Fprintf(tw, "Size:\t%s\n", models.FormatFileSize(rec.FileSize))
			fmt.Fprintf(tw, "Uploader:\t%s\n", rec.Uploader)
			if rec.IsPublic {
				fmt.Fprintf(tw, "Access:\tpublic\n")
			} else {
				fmt.Fprintf(tw, "Recipient:\t%s\n", rec.Recipient)
			}
			if rec.UploadedAt != 0 {
				fmt.Fprintf(tw, "Uploaded:\t%s\n", rec.UploadedTime().Format("2006-01-02 15:04:05"))
			}
			fmt.Fprintf(tw, "Retention:\t%s\n", expiration(rec.ExpiresAt, epoch, known))
			fmt.Fprintf(tw, "Source:\t%s\n", source)
			return tw.Flush()
		},
	}
}

func (a *App) newHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List recent uploads of the connected wallet",
		Long: `History lists the uploads of the connected wallet found among the most
recent registry events. When the registry returns nothing, uploads cached
locally by this client are shown instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := a.walletServices(ctx)
			if err != nil {
				return err
			}

			addr := svc.Wallet.Address()
			recs := svc.Registry.QueryByUploader(ctx, addr)
			if len(recs) == 0 {
				cached, err := svc.Records.ListByUploader(ctx, addr)
				if err != nil {
					return err
				}
				if len(cached) > 0 {
					fmt.Fprintln(a.errOut, "Registry returned no uploads, showing the local cache.")
				}
				recs = cached
			}
			return a.printRecords(ctx, svc, recs, "RECIPIENT", func(r models.FileRecord) string {
				if r.IsPublic {
					return "public"
				}
				return r.Recipient.String()
			})
		},
	}
}

func (a *App) newSharedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shared",
		Short: "List files shared with the connected wallet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := a.walletServices(ctx)
			if err != nil {
				return err
			}
			recs := svc.Registry.QueryByRecipient(ctx, svc.Wallet.Address())
			return a.printRecords(ctx, svc, recs, "FROM", func(r models.FileRecord) string {
				return r.Uploader.String()
			})
		},
	}
}

func (a *App) newEpochCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "epoch",
		Short: "Print the current storage epoch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := a.services(ctx)
			if err != nil {
				return err
			}
			epoch, ok := svc.Registry.CurrentEpoch(ctx)
			if !ok {
				return errEpochUnavailable
			}
			fmt.Fprintln(a.out, epoch)
			return nil
		},
	}
}

func (a *App) printRecords(ctx context.Context, svc *Services, recs []models.FileRecord, party string, partyOf func(models.FileRecord) string) error {
	if len(recs) == 0 {
		fmt.Fprintln(a.out, "No files found.")
		return nil
	}
	epoch, known := svc.Registry.CurrentEpoch(ctx)
	return writeTable(a.out, []string{"BLOB ID", "NAME", "SIZE", party, "RETENTION"}, func(row func(...string)) {
		for _, r := range recs {
			row(r.BlobID, printable(r.DisplayName()), models.FormatFileSize(r.FileSize), partyOf(r), expiration(r.ExpiresAt, epoch, known))
		}
	})
}

func writeTable(w io.Writer, header []string, rows func(row func(...string))) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	line := func(cols ...string) {
		for i, c := range cols {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, c)
		}
		fmt.Fprintln(tw)
	}
	line(header...)
	rows(line)
	return tw.Flush()
}

func expiration(expiresAt, epoch uint64, known bool) string {
	if !known && expiresAt != 0 {
		return fmt.Sprintf("until epoch %d", expiresAt)
	}
	return models.ExpirationText(expiresAt, epoch)
}

// printable drops control characters from uploader-supplied text.
func printable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
