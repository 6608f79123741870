package keyproto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sealdrop/internal/ledger"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/nacl/box"
)

// DataKeySize is the size of the symmetric key that encrypts file contents.
const DataKeySize = 32

// wrapped plaintext layout: package id || identity || data key
const wrappedPlainSize = 2*ledger.AddressLength + DataKeySize

// WrappedKeySize is the length of a key wrapped by WrapKey.
const WrappedKeySize = wrappedPlainSize + box.AnonymousOverhead

var ErrBadWrappedKey = errors.New("malformed wrapped key")

// Policy names the access policy a data key is bound to: the package that
// defines seal_approve and the identity bytes it is called with.
type Policy struct {
	PackageID ledger.Address
	Identity  ledger.Address
}

// WrapKey seals the data key together with its policy to a key server's
// X25519 public key. Only the holder of the server private key can open it,
// and the policy cannot be swapped without invalidating the box.
func WrapKey(serverPub *[32]byte, p Policy, dataKey []byte) ([]byte, error) {
	if len(dataKey) != DataKeySize {
		return nil, fmt.Errorf("data key must be %d bytes", DataKeySize)
	}
	plain := make([]byte, 0, wrappedPlainSize)
	plain = append(plain, p.PackageID[:]...)
	plain = append(plain, p.Identity[:]...)
	plain = append(plain, dataKey...)
	defer wipe(plain)

	return box.SealAnonymous(nil, plain, serverPub, rand.Reader)
}

// UnwrapKey opens a WrapKey result with the server keypair.
func UnwrapKey(pub, priv *[32]byte, wrapped []byte) (Policy, []byte, error) {
	var p Policy
	if len(wrapped) != WrappedKeySize {
		return p, nil, ErrBadWrappedKey
	}
	plain, ok := box.OpenAnonymous(nil, wrapped, pub, priv)
	if !ok {
		return p, nil, ErrBadWrappedKey
	}
	copy(p.PackageID[:], plain[:ledger.AddressLength])
	copy(p.Identity[:], plain[ledger.AddressLength:2*ledger.AddressLength])
	key := make([]byte, DataKeySize)
	copy(key, plain[2*ledger.AddressLength:])
	wipe(plain)
	return p, key, nil
}

// SealToRequester encrypts a released key to the requester's ephemeral key.
func SealToRequester(encKey []byte, dataKey []byte) ([]byte, error) {
	var pub [32]byte
	if len(encKey) != len(pub) {
		return nil, fmt.Errorf("enc key must be %d bytes", len(pub))
	}
	copy(pub[:], encKey)
	return box.SealAnonymous(nil, dataKey, &pub, rand.Reader)
}

// OpenFromServer reverses SealToRequester.
func OpenFromServer(pub, priv *[32]byte, sealed []byte) ([]byte, error) {
	key, ok := box.OpenAnonymous(nil, sealed, pub, priv)
	if !ok || len(key) != DataKeySize {
		return nil, ErrBadWrappedKey
	}
	return key, nil
}

// PersonalMessage is the text a wallet signs to authorize a session key.
func PersonalMessage(pkg ledger.Address, ttlMin int, creationMs int64, sessionPub []byte) []byte {
	created := time.UnixMilli(creationMs).UTC().Format("2006-01-02 15:04:05")
	return []byte(fmt.Sprintf("Accessing keys of package %s for %d mins from %s UTC, session key %s",
		pkg, ttlMin, created, base64.StdEncoding.EncodeToString(sessionPub)))
}

// RequestClaims are carried by the session-signed request token. Subject is
// the requester address and ExpiresAt the end of the session window.
type RequestClaims struct {
	jwt.RegisteredClaims
	TxDigest string `json:"txd"`
	EncKey   string `json:"enc"`
}

// TxDigest is the digest of approval transaction bytes bound into a token.
func TxDigest(txBytes []byte) string {
	sum := sha256.Sum256(txBytes)
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
