package cli

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/sealdrop/internal/client/wallet"
	"github.com/dmitrijs2005/sealdrop/internal/common"
	"github.com/dmitrijs2005/sealdrop/internal/filex"
)

func (a *App) newWalletCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Manage the local wallet",
	}
	cmd.AddCommand(a.newWalletNewCommand(), a.newWalletAddressCommand())
	return cmd
}

func (a *App) newWalletNewCommand() *cobra.Command {
	var seedHex string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a wallet keystore, or import one from a seed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.cfg.KeystorePath
			if _, err := wallet.LoadKeystore(path); err == nil {
				return fmt.Errorf("%w at %s", wallet.ErrKeystoreExists, path)
			}
			if err := filex.EnsureDir(filepath.Dir(path)); err != nil {
				return err
			}

			var seed []byte
			if seedHex != "" {
				b, err := hex.DecodeString(strings.TrimPrefix(seedHex, "0x"))
				if err != nil {
					return fmt.Errorf("seed must be hex: %w", err)
				}
				seed = b
				defer common.WipeByteArray(seed)
			}

			pass, err := GetNewPassword(a.errOut)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(pass)

			var ks *wallet.Keystore
			if seed != nil {
				ks, err = wallet.Import(path, seed, pass)
			} else {
				ks, err = wallet.Create(path, pass)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Wallet saved to %s\nAddress: %s\n", path, ks.Address)
			return nil
		},
	}
	cmd.Flags().StringVar(&seedHex, "import", "", "hex encoded 32-byte ed25519 seed to import")
	return cmd
}

func (a *App) newWalletAddressCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "address",
		Short: "Print the wallet address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ks, err := wallet.LoadKeystore(a.cfg.KeystorePath)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, ks.Address)
			return nil
		},
	}
}
