// Package cryptox holds the passphrase-based primitives used to protect data
// at rest on the client, most notably the wallet keystore.
//
// Keys are derived with Argon2id and payloads are sealed with AES-256-GCM.
// File contents in transit are encrypted elsewhere (see the seal package);
// cryptox only deals with small JSON documents.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	// SaltSize is the recommended salt length for DeriveKey.
	SaltSize = 16
	// KeySize is the length of keys returned by DeriveKey.
	KeySize = 32

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// ErrWrongKey is returned by OpenJSON when authentication fails, which in
// practice means the passphrase was wrong or the document was tampered with.
var ErrWrongKey = errors.New("wrong key or corrupted data")

// DeriveKey stretches a passphrase into a KeySize-byte key using Argon2id
// (t=1, m=64MiB, p=4). The same passphrase and salt always give the same key.
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, argonTime, argonMemory, argonThreads, KeySize)
}

// NewSalt returns SaltSize random bytes.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("read salt: %w", err)
	}
	return salt, nil
}

// SealJSON marshals v to JSON and encrypts it with AES-GCM under key.
// A fresh 12-byte nonce is generated for every call and returned alongside
// the ciphertext; both are needed by OpenJSON.
func SealJSON(v any, key []byte) (ciphertext, nonce []byte, err error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}
	defer wipe(plaintext)

	aead, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}

	return aead.Seal(nil, nonce, plaintext, nil), nonce, nil
}

// OpenJSON reverses SealJSON and unmarshals the plaintext into v.
func OpenJSON(ciphertext, nonce, key []byte, v any) error {
	aead, err := newGCM(key)
	if err != nil {
		return err
	}
	if len(nonce) != aead.NonceSize() {
		return fmt.Errorf("invalid nonce length %d", len(nonce))
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return ErrWrongKey
	}
	defer wipe(plaintext)

	return json.Unmarshal(plaintext, v)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
