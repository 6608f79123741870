package wallet

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/sealdrop/internal/ledger"
	"github.com/dmitrijs2005/sealdrop/internal/logging"
)

const DefaultGasBudget = 50_000_000

// ErrRejected is returned when the user declines to unlock the wallet.
var ErrRejected = errors.New("signing rejected")

// PassphraseFunc asks the user for the keystore passphrase.
type PassphraseFunc func() ([]byte, error)

// Submitter turns an intent into signed-ready bytes and executes them.
type Submitter interface {
	BuildTransaction(ctx context.Context, signer ledger.Address, intent ledger.TransactionIntent, gasBudget uint64) ([]byte, error)
	ExecuteTransaction(ctx context.Context, txBytes []byte, signatures []string) (*ledger.ExecutionResult, error)
}

// LocalWallet signs with a keystore-backed key. The keystore is unlocked on
// first use and the key stays in memory until Lock.
type LocalWallet struct {
	ks         *Keystore
	submitter  Submitter
	gasBudget  uint64
	passphrase PassphraseFunc
	logger     logging.Logger

	mu sync.Mutex
	kp *ledger.Keypair
}

func Open(path string, s Submitter, gasBudget uint64, passphrase PassphraseFunc, l logging.Logger) (*LocalWallet, error) {
	ks, err := LoadKeystore(path)
	if err != nil {
		return nil, err
	}
	if gasBudget == 0 {
		gasBudget = DefaultGasBudget
	}
	if l == nil {
		l = logging.NewDiscardLogger()
	}
	return &LocalWallet{
		ks:         ks,
		submitter:  s,
		gasBudget:  gasBudget,
		passphrase: passphrase,
		logger:     l.With("module", "wallet"),
	}, nil
}

func (w *LocalWallet) Address() ledger.Address { return w.ks.Address }

func (w *LocalWallet) keypair() (*ledger.Keypair, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.kp != nil {
		return w.kp, nil
	}
	if w.passphrase == nil {
		return nil, fmt.Errorf("%w: no passphrase source", ErrRejected)
	}
	pass, err := w.passphrase()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRejected, err)
	}
	defer wipe(pass)

	kp, err := w.ks.Unlock(pass)
	if err != nil {
		return nil, err
	}
	w.kp = kp
	return kp, nil
}

// SignPersonalMessage signs msg with intent scope PersonalMessage.
func (w *LocalWallet) SignPersonalMessage(_ context.Context, msg []byte) (string, error) {
	kp, err := w.keypair()
	if err != nil {
		return "", err
	}
	return kp.SignPersonalMessage(msg), nil
}

// SignAndExecute builds, signs and submits intent, waiting for local execution.
func (w *LocalWallet) SignAndExecute(ctx context.Context, intent ledger.TransactionIntent) (*ledger.ExecutionResult, error) {
	kp, err := w.keypair()
	if err != nil {
		return nil, err
	}

	txBytes, err := w.submitter.BuildTransaction(ctx, w.Address(), intent, w.gasBudget)
	if err != nil {
		return nil, fmt.Errorf("build transaction: %w", err)
	}
	res, err := w.submitter.ExecuteTransaction(ctx, txBytes, []string{kp.SignTransaction(txBytes)})
	if err != nil {
		return nil, fmt.Errorf("execute transaction: %w", err)
	}
	w.logger.Info(ctx, "transaction executed", "digest", res.Digest, "calls", len(intent.Calls))
	return res, nil
}

// Lock wipes the unlocked key.
func (w *LocalWallet) Lock() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.kp != nil {
		w.kp.Wipe()
		w.kp = nil
	}
}
