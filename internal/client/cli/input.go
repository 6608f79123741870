package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/dmitrijs2005/sealdrop/internal/common"
)

// PassphraseEnv, when set, is used instead of prompting for the wallet
// passphrase.
const PassphraseEnv = "SEALDROP_PASSPHRASE"

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

var errPassphraseMismatch = errors.New("passphrases do not match")

// GetPassword prints prompt to w and reads a password from the user's
// terminal without echo. A newline is printed after the read to keep the
// UI tidy.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(w io.Writer, prompt string) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetNewPassword asks for a passphrase twice and fails when the entries
// differ or are empty.
func GetNewPassword(w io.Writer) ([]byte, error) {
	first, err := GetPassword(w, "New wallet passphrase: ")
	if err != nil {
		return nil, err
	}
	if len(first) == 0 {
		return nil, errors.New("passphrase must not be empty")
	}
	second, err := GetPassword(w, "Repeat passphrase: ")
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(second)
	if !bytes.Equal(first, second) {
		common.WipeByteArray(first)
		return nil, errPassphraseMismatch
	}
	return first, nil
}

// passphrase returns the wallet passphrase from PassphraseEnv or the terminal.
func (a *App) passphrase() ([]byte, error) {
	if v, ok := os.LookupEnv(PassphraseEnv); ok {
		return []byte(v), nil
	}
	return GetPassword(a.errOut, "Wallet passphrase: ")
}
