package ledger

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// AddressLength is the size of a ledger address in bytes.
const AddressLength = 32

// ErrInvalidAddress is returned when a string cannot be normalized into an address.
var ErrInvalidAddress = errors.New("invalid address")

// Address is a 32-byte ledger address. Two addresses are equal exactly when
// their normalized string forms are equal.
type Address [AddressLength]byte

// NormalizeAddress canonicalizes s to "0x" followed by 64 lowercase hex
// characters, left-padding short forms with zeros (so "0x2" becomes
// "0x000…002"). Surrounding whitespace is ignored.
func NormalizeAddress(s string) (string, error) {
	a, err := ParseAddress(s)
	if err != nil {
		return "", err
	}
	return a.String(), nil
}

// ParseAddress parses any accepted textual form of an address.
func ParseAddress(s string) (Address, error) {
	var a Address

	h := strings.ToLower(strings.TrimSpace(s))
	h = strings.TrimPrefix(h, "0x")
	if h == "" || len(h) > 2*AddressLength {
		return a, fmt.Errorf("%w: bad length", ErrInvalidAddress)
	}
	if len(h)%2 == 1 {
		h = "0" + h
	}

	raw, err := hex.DecodeString(h)
	if err != nil {
		return a, fmt.Errorf("%w: not hex", ErrInvalidAddress)
	}
	copy(a[AddressLength-len(raw):], raw)
	return a, nil
}

// MustParseAddress is ParseAddress for constants; it panics on error.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// AddressFromBytes copies a raw 32-byte address.
func AddressFromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLength {
		return a, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidAddress, AddressLength, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// AddressFromPublicKey derives the address of an Ed25519 key:
// blake2b-256(flag || public key) with the Ed25519 scheme flag.
func AddressFromPublicKey(pub ed25519.PublicKey) Address {
	h, _ := blake2b.New256(nil)
	h.Write([]byte{SignatureSchemeEd25519})
	h.Write(pub)

	var a Address
	copy(a[:], h.Sum(nil))
	return a
}

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) IsZero() bool {
	return a == Address{}
}

// Bytes returns a copy of the raw address.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressLength)
	copy(b, a[:])
	return b
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
