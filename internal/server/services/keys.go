package services

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sealdrop/internal/keyproto"
	"github.com/dmitrijs2005/sealdrop/internal/ledger"
	"github.com/dmitrijs2005/sealdrop/internal/logging"
	pb "github.com/dmitrijs2005/sealdrop/internal/proto"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/curve25519"
)

// ApproveFunction is the policy entry point the approval transaction must call.
const ApproveFunction = "seal_approve"

// maxClockSkew tolerates session certificates created slightly in the future.
const maxClockSkew = 30 * time.Second

var (
	ErrInvalidRequest     = errors.New("invalid key request")
	ErrInvalidCertificate = errors.New("invalid session certificate")
	ErrSessionExpired     = errors.New("session expired")
	ErrPolicyDenied       = errors.New("policy denied key release")
)

// KeyService releases data keys under the simple_recipient policy: a key
// bound to identity X is released only to a session certified by the wallet
// whose address is X, for an approval transaction that calls
// {package}::{module}::seal_approve(X).
type KeyService struct {
	objectID  string
	pub       [32]byte
	priv      [32]byte
	packageID ledger.Address
	module    string
	maxTTL    time.Duration
	now       func() time.Time
	logger    logging.Logger
}

func NewKeyService(objectID string, masterKey []byte, packageID ledger.Address, module string, maxTTL time.Duration, l logging.Logger) (*KeyService, error) {
	if len(masterKey) != curve25519.ScalarSize {
		return nil, fmt.Errorf("master key must be %d bytes, got %d", curve25519.ScalarSize, len(masterKey))
	}
	pub, err := curve25519.X25519(masterKey, curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}

	s := &KeyService{
		objectID:  objectID,
		packageID: packageID,
		module:    module,
		maxTTL:    maxTTL,
		now:       time.Now,
		logger:    l.With("module", "key_service"),
	}
	copy(s.priv[:], masterKey)
	copy(s.pub[:], pub)
	return s, nil
}

func (s *KeyService) ObjectID() string { return s.objectID }

// PublicKey is the X25519 key clients wrap data keys to.
func (s *KeyService) PublicKey() [32]byte { return s.pub }

// FetchKey validates a request and returns the data key sealed to the
// requester's ephemeral key.
func (s *KeyService) FetchKey(ctx context.Context, req *pb.FetchKeyRequest) ([]byte, error) {
	requester, err := s.verifyCertificate(req.GetCertificate())
	if err != nil {
		return nil, err
	}
	if err := s.verifyRequestToken(req, requester); err != nil {
		return nil, err
	}

	id, err := s.approvedIdentity(req.TxBytes)
	if err != nil {
		return nil, err
	}
	if id != requester {
		s.logger.Warn(ctx, "identity mismatch in approval transaction")
		return nil, fmt.Errorf("%w: requester is not the bound identity", ErrPolicyDenied)
	}

	policy, dataKey, err := keyproto.UnwrapKey(&s.pub, &s.priv, req.WrappedKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	defer wipe(dataKey)

	if policy.PackageID != s.packageID || policy.Identity != id {
		s.logger.Warn(ctx, "wrapped key policy does not match approval")
		return nil, fmt.Errorf("%w: key is bound to a different policy", ErrPolicyDenied)
	}

	sealed, err := keyproto.SealToRequester(req.EncKey, dataKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	s.logger.Info(ctx, "key released")
	return sealed, nil
}

func (s *KeyService) verifyCertificate(c *pb.Certificate) (ledger.Address, error) {
	addr, err := ledger.ParseAddress(c.GetAddress())
	if err != nil {
		return addr, fmt.Errorf("%w: address", ErrInvalidCertificate)
	}
	pkg, err := ledger.ParseAddress(c.GetPackageId())
	if err != nil || pkg != s.packageID {
		return addr, fmt.Errorf("%w: unknown package", ErrPolicyDenied)
	}
	if len(c.GetSessionPublicKey()) != ed25519.PublicKeySize {
		return addr, fmt.Errorf("%w: session key", ErrInvalidCertificate)
	}

	ttlMin := int(c.GetTtlMin())
	ttl := time.Duration(ttlMin) * time.Minute
	if ttlMin <= 0 || ttl > s.maxTTL {
		return addr, fmt.Errorf("%w: ttl out of range", ErrInvalidCertificate)
	}

	created := time.UnixMilli(c.GetCreationTimeMs())
	now := s.now()
	if created.After(now.Add(maxClockSkew)) {
		return addr, fmt.Errorf("%w: created in the future", ErrInvalidCertificate)
	}
	if !now.Before(created.Add(ttl)) {
		return addr, ErrSessionExpired
	}

	msg := keyproto.PersonalMessage(pkg, ttlMin, c.GetCreationTimeMs(), c.GetSessionPublicKey())
	if err := ledger.VerifyPersonalMessage(msg, c.GetSignature(), addr); err != nil {
		return addr, fmt.Errorf("%w: %v", ErrInvalidCertificate, err)
	}
	return addr, nil
}

func (s *KeyService) verifyRequestToken(req *pb.FetchKeyRequest, requester ledger.Address) error {
	sessionPub := ed25519.PublicKey(req.GetCertificate().GetSessionPublicKey())
	claims := &keyproto.RequestClaims{}

	_, err := jwt.ParseWithClaims(req.RequestToken, claims,
		func(*jwt.Token) (any, error) { return sessionPub, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithSubject(requester.String()),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrSessionExpired
		}
		return fmt.Errorf("%w: request token: %v", ErrInvalidCertificate, err)
	}

	cert := req.GetCertificate()
	sessionEnd := time.UnixMilli(cert.GetCreationTimeMs()).Add(time.Duration(cert.GetTtlMin()) * time.Minute)
	if claims.ExpiresAt.After(sessionEnd) {
		return fmt.Errorf("%w: token outlives session", ErrInvalidCertificate)
	}
	if claims.TxDigest != keyproto.TxDigest(req.TxBytes) {
		return fmt.Errorf("%w: token does not cover transaction", ErrInvalidRequest)
	}
	if claims.EncKey != base64.StdEncoding.EncodeToString(req.EncKey) {
		return fmt.Errorf("%w: token does not cover enc key", ErrInvalidRequest)
	}
	return nil
}

// approvedIdentity finds the seal_approve call and returns its id argument.
func (s *KeyService) approvedIdentity(txBytes []byte) (ledger.Address, error) {
	var id ledger.Address

	tx, err := ledger.ParseTransactionKind(txBytes)
	if err != nil {
		return id, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	for _, call := range tx.Calls {
		if call.Package != s.packageID || call.Module != s.module || call.Function != ApproveFunction {
			continue
		}
		if len(call.Arguments) == 0 {
			return id, fmt.Errorf("%w: seal_approve without id", ErrInvalidRequest)
		}
		in, err := tx.Input(call.Arguments[0])
		if err != nil {
			return id, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		raw, err := ledger.DecodePureBytes(in)
		if err != nil {
			return id, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		if id, err = ledger.AddressFromBytes(raw); err != nil {
			return id, fmt.Errorf("%w: id is not an identity", ErrPolicyDenied)
		}
		return id, nil
	}
	return id, fmt.Errorf("%w: no %s::%s call", ErrPolicyDenied, s.module, ApproveFunction)
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
