// Package wallet is a local Ed25519 wallet for the command line client.
//
// The seed is kept in a JSON keystore, sealed with a key derived from the
// user's passphrase. The address is stored in clear so it can be shown
// without unlocking.
package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/sealdrop/internal/cryptox"
	"github.com/dmitrijs2005/sealdrop/internal/filex"
	"github.com/dmitrijs2005/sealdrop/internal/ledger"
)

const keystoreVersion = 1

var (
	ErrKeystoreExists   = errors.New("keystore already exists")
	ErrKeystoreNotFound = errors.New("keystore not found")
	ErrWrongPassphrase  = errors.New("wrong passphrase")
)

// Keystore is the on-disk form of a wallet.
type Keystore struct {
	Version    int            `json:"version"`
	Address    ledger.Address `json:"address"`
	Salt       []byte         `json:"salt"`
	Nonce      []byte         `json:"nonce"`
	Ciphertext []byte         `json:"ciphertext"`
	CreatedAt  time.Time      `json:"created_at"`
}

type secret struct {
	Seed []byte `json:"seed"`
}

// Create generates a new keypair and writes it to path. An existing
// keystore is never overwritten.
func Create(path string, passphrase []byte) (*Keystore, error) {
	kp, err := ledger.GenerateKeypair()
	if err != nil {
		return nil, err
	}
	defer kp.Wipe()
	return write(path, kp, passphrase)
}

// Import stores an existing 32-byte seed under passphrase.
func Import(path string, seed, passphrase []byte) (*Keystore, error) {
	kp, err := ledger.KeypairFromSeed(seed)
	if err != nil {
		return nil, err
	}
	defer kp.Wipe()
	return write(path, kp, passphrase)
}

func write(path string, kp *ledger.Keypair, passphrase []byte) (*Keystore, error) {
	if len(passphrase) == 0 {
		return nil, errors.New("passphrase must not be empty")
	}
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrKeystoreExists, path)
	}

	salt, err := cryptox.NewSalt()
	if err != nil {
		return nil, err
	}
	key := cryptox.DeriveKey(passphrase, salt)
	defer wipe(key)

	ct, nonce, err := cryptox.SealJSON(secret{Seed: kp.Seed()}, key)
	if err != nil {
		return nil, fmt.Errorf("seal keystore: %w", err)
	}

	ks := &Keystore{
		Version:    keystoreVersion,
		Address:    kp.Address(),
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: ct,
		CreatedAt:  time.Now().UTC(),
	}
	data, err := json.MarshalIndent(ks, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := filex.WriteFileAtomic(path, data, 0o600); err != nil {
		return nil, err
	}
	return ks, nil
}

// LoadKeystore reads a keystore without unlocking it.
func LoadKeystore(path string) (*Keystore, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrKeystoreNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	var ks Keystore
	if err := json.Unmarshal(data, &ks); err != nil {
		return nil, fmt.Errorf("parse keystore: %w", err)
	}
	if ks.Version != keystoreVersion {
		return nil, fmt.Errorf("unsupported keystore version %d", ks.Version)
	}
	if ks.Address.IsZero() {
		return nil, errors.New("keystore has no address")
	}
	return &ks, nil
}

// Unlock decrypts the keypair. The caller owns it and should Wipe it.
func (ks *Keystore) Unlock(passphrase []byte) (*ledger.Keypair, error) {
	key := cryptox.DeriveKey(passphrase, ks.Salt)
	defer wipe(key)

	var s secret
	if err := cryptox.OpenJSON(ks.Ciphertext, ks.Nonce, key, &s); err != nil {
		if errors.Is(err, cryptox.ErrWrongKey) {
			return nil, ErrWrongPassphrase
		}
		return nil, err
	}
	defer wipe(s.Seed)

	kp, err := ledger.KeypairFromSeed(s.Seed)
	if err != nil {
		return nil, err
	}
	if kp.Address() != ks.Address {
		kp.Wipe()
		return nil, errors.New("keystore address does not match its key")
	}
	return kp, nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
