package seal

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/sealdrop/internal/common"
	"github.com/dmitrijs2005/sealdrop/internal/keyproto"
	"github.com/dmitrijs2005/sealdrop/internal/ledger"
	pb "github.com/dmitrijs2005/sealdrop/internal/proto"
	"github.com/golang-jwt/jwt/v5"
)

const DefaultSessionTTL = 5 * time.Minute

var ErrSessionNotSigned = errors.New("session key has no wallet signature")

// SessionKey is an ephemeral Ed25519 key authorized by one wallet signature
// to request keys for a single policy package during a short window. It is
// created per download attempt and must be destroyed after use.
type SessionKey struct {
	address   ledger.Address
	packageID ledger.Address
	pub       ed25519.PublicKey
	priv      ed25519.PrivateKey
	createdMs int64
	ttlMin    int
	signature string
	now       func() time.Time
}

func newSessionKey(address, packageID ledger.Address, ttl time.Duration, rand io.Reader, now func() time.Time) (*SessionKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand)
	if err != nil {
		return nil, fmt.Errorf("generate session key: %w", err)
	}
	ttlMin := int(ttl / time.Minute)
	if ttlMin < 1 {
		ttlMin = 1
	}
	return &SessionKey{
		address:   address,
		packageID: packageID,
		pub:       pub,
		priv:      priv,
		createdMs: now().UnixMilli(),
		ttlMin:    ttlMin,
		now:       now,
	}, nil
}

func (s *SessionKey) Address() ledger.Address { return s.address }

func (s *SessionKey) expiresAt() time.Time {
	return time.UnixMilli(s.createdMs).Add(time.Duration(s.ttlMin) * time.Minute)
}

func (s *SessionKey) IsExpired() bool {
	return !s.now().Before(s.expiresAt())
}

// PersonalMessage is what the wallet must sign to authorize this session.
func (s *SessionKey) PersonalMessage() []byte {
	return keyproto.PersonalMessage(s.packageID, s.ttlMin, s.createdMs, s.pub)
}

// SetPersonalMessageSignature stores the wallet's signature after checking
// that it was produced by the session's address.
func (s *SessionKey) SetPersonalMessageSignature(sig string) error {
	if err := ledger.VerifyPersonalMessage(s.PersonalMessage(), sig, s.address); err != nil {
		return fmt.Errorf("%w: %w", common.ErrAccessDenied, err)
	}
	s.signature = sig
	return nil
}

func (s *SessionKey) Certificate() (*pb.Certificate, error) {
	if s.signature == "" {
		return nil, ErrSessionNotSigned
	}
	return &pb.Certificate{
		Address:          s.address.String(),
		PackageId:        s.packageID.String(),
		SessionPublicKey: append([]byte(nil), s.pub...),
		CreationTimeMs:   s.createdMs,
		TtlMin:           int32(s.ttlMin),
		Signature:        s.signature,
	}, nil
}

// RequestToken signs the approval transaction and the response key with the
// session key. The token never outlives the session.
func (s *SessionKey) RequestToken(txBytes, encKey []byte) (string, error) {
	if s.priv == nil {
		return "", errors.New("session key destroyed")
	}
	claims := keyproto.RequestClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.address.String(),
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(s.expiresAt()),
		},
		TxDigest: keyproto.TxDigest(txBytes),
		EncKey:   base64.StdEncoding.EncodeToString(encKey),
	}
	return jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(s.priv)
}

// Destroy wipes the private key. The session is unusable afterwards.
func (s *SessionKey) Destroy() {
	for i := range s.priv {
		s.priv[i] = 0
	}
	s.priv = nil
	s.signature = ""
}
