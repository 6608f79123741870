package ledger

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// SignatureSchemeEd25519 is the scheme flag prefixed to serialized
// signatures and hashed into addresses.
const SignatureSchemeEd25519 byte = 0x00

// IntentScope separates the signing domains so a signature over a personal
// message can never be replayed as a transaction signature.
type IntentScope byte

const (
	IntentTransactionData IntentScope = 0
	IntentPersonalMessage IntentScope = 3
)

var ErrInvalidSignature = errors.New("invalid signature")

// IntentDigest is blake2b-256(scope || version 0 || app id 0 || msg).
func IntentDigest(scope IntentScope, msg []byte) []byte {
	h, _ := blake2b.New256(nil)
	h.Write([]byte{byte(scope), 0, 0})
	h.Write(msg)
	return h.Sum(nil)
}

func personalMessageBytes(msg []byte) []byte {
	var e bcsEncoder
	e.bytes(msg)
	return e.Bytes()
}

// Keypair is an Ed25519 signing key.
type Keypair struct {
	priv ed25519.PrivateKey
}

func GenerateKeypair() (*Keypair, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &Keypair{priv: priv}, nil
}

// KeypairFromSeed rebuilds a keypair from its 32-byte seed.
func KeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes", ed25519.SeedSize)
	}
	return &Keypair{priv: ed25519.NewKeyFromSeed(seed)}, nil
}

func (k *Keypair) PublicKey() ed25519.PublicKey {
	return k.priv.Public().(ed25519.PublicKey)
}

// PrivateKey exposes the raw key for signers that need it, such as JWT.
func (k *Keypair) PrivateKey() ed25519.PrivateKey { return k.priv }

func (k *Keypair) Seed() []byte { return k.priv.Seed() }

func (k *Keypair) Address() Address { return AddressFromPublicKey(k.PublicKey()) }

// SignTransaction signs transaction data bytes and returns the serialized
// base64 signature (flag || signature || public key).
func (k *Keypair) SignTransaction(txBytes []byte) string {
	return k.sign(IntentTransactionData, txBytes)
}

// SignPersonalMessage signs msg in the personal-message domain.
func (k *Keypair) SignPersonalMessage(msg []byte) string {
	return k.sign(IntentPersonalMessage, personalMessageBytes(msg))
}

func (k *Keypair) sign(scope IntentScope, msg []byte) string {
	sig := ed25519.Sign(k.priv, IntentDigest(scope, msg))
	return serializeSignature(sig, k.PublicKey())
}

// Wipe zeroes the private key.
func (k *Keypair) Wipe() {
	for i := range k.priv {
		k.priv[i] = 0
	}
}

func serializeSignature(sig []byte, pub ed25519.PublicKey) string {
	out := make([]byte, 0, 1+len(sig)+len(pub))
	out = append(out, SignatureSchemeEd25519)
	out = append(out, sig...)
	out = append(out, pub...)
	return base64.StdEncoding.EncodeToString(out)
}

// ParseSignature splits a serialized signature into its raw signature and
// public key.
func ParseSignature(serialized string) (sig []byte, pub ed25519.PublicKey, err error) {
	raw, err := base64.StdEncoding.DecodeString(serialized)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if len(raw) != 1+ed25519.SignatureSize+ed25519.PublicKeySize {
		return nil, nil, fmt.Errorf("%w: bad length %d", ErrInvalidSignature, len(raw))
	}
	if raw[0] != SignatureSchemeEd25519 {
		return nil, nil, fmt.Errorf("%w: unsupported scheme 0x%02x", ErrInvalidSignature, raw[0])
	}
	sig = raw[1 : 1+ed25519.SignatureSize]
	pub = ed25519.PublicKey(raw[1+ed25519.SignatureSize:])
	return sig, pub, nil
}

// VerifyPersonalMessage checks that serialized is a valid personal-message
// signature over msg made by the key behind signer.
func VerifyPersonalMessage(msg []byte, serialized string, signer Address) error {
	sig, pub, err := ParseSignature(serialized)
	if err != nil {
		return err
	}
	if AddressFromPublicKey(pub) != signer {
		return fmt.Errorf("%w: signer mismatch", ErrInvalidSignature)
	}
	if !ed25519.Verify(pub, IntentDigest(IntentPersonalMessage, personalMessageBytes(msg)), sig) {
		return fmt.Errorf("%w: verification failed", ErrInvalidSignature)
	}
	return nil
}
