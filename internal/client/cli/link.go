package cli

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/sealdrop/internal/client/transfer"
)

// writeClipboard is a test seam for clipboard.WriteAll.
var writeClipboard = clipboard.WriteAll

func (a *App) newLinkCommand() *cobra.Command {
	var copyLink bool

	cmd := &cobra.Command{
		Use:   "link BLOB_ID...",
		Short: "Print a share link for one or more blobs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			link, err := transfer.ShareLink(a.cfg.ShareBaseURL, args...)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, link)
			if copyLink {
				if err := writeClipboard(link); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				fmt.Fprintln(a.errOut, "Copied to clipboard.")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&copyLink, "copy", false, "also copy the link to the clipboard")
	return cmd
}
