package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/sealdrop/internal/client/config"
	"github.com/dmitrijs2005/sealdrop/internal/client/transfer"
	"github.com/dmitrijs2005/sealdrop/internal/logging"
)

// NewRootCommand assembles the sealdrop command tree around a.
func NewRootCommand(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "sealdrop",
		Short: "Encrypted file transfer over decentralized storage",
		Long: `sealdrop encrypts files for a single recipient wallet, stores them in a
blob store and records them in an on-chain registry, so that only the
recipient can fetch the decryption key. Public uploads skip encryption.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.configure(cmd)
		},
	}
	config.RegisterFlags(root.PersistentFlags())
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.AddCommand(
		a.newUploadCommand(),
		a.newDownloadCommand(),
		a.newInfoCommand(),
		a.newHistoryCommand(),
		a.newSharedCommand(),
		a.newEpochCommand(),
		a.newLinkCommand(),
		a.newOrphansCommand(),
		a.newWalletCommand(),
	)
	return root
}

func (a *App) configure(cmd *cobra.Command) error {
	if a.cfg == nil {
		cfg, err := config.LoadConfig(cmd.Flags())
		if err != nil {
			return err
		}
		a.cfg = cfg
		a.logger = logging.NewTextLogger(a.errOut, logging.ParseLevel(cfg.LogLevel))
	}
	return a.cfg.Validate()
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, out, errOut io.Writer) int {
	return run(ctx, NewApp(out, errOut), args)
}

func run(ctx context.Context, a *App, args []string) int {
	root := NewRootCommand(a)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if cerr := a.Close(); cerr != nil {
		a.logger.Warn(ctx, "shutdown", "error", cerr.Error())
	}
	if err != nil {
		fmt.Fprintln(a.errOut, "Error:", err)
		printHint(a.errOut, err)
		return 1
	}
	return 0
}

// printHint adds a follow-up action for errors the user can recover from.
func printHint(w io.Writer, err error) {
	var te *transfer.Error
	if !errors.As(err, &te) {
		return
	}
	if te.Unregistered() {
		fmt.Fprintln(w, `The stored blobs were kept locally. Run "sealdrop orphans --retry" to register them.`)
	}
}
