// Package seal encrypts payloads so that only one identity can recover them.
//
// A random data key encrypts the content in secretbox blocks. The key itself
// is wrapped, together with its policy (package id and identity), to every
// configured key server. Decryption asks a key server to release the key,
// proving with a wallet-signed session certificate and a seal_approve
// transaction that the requester is the bound identity.
package seal

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/dmitrijs2005/sealdrop/internal/common"
	"github.com/dmitrijs2005/sealdrop/internal/keyproto"
	"github.com/dmitrijs2005/sealdrop/internal/ledger"
	"github.com/dmitrijs2005/sealdrop/internal/logging"
	pb "github.com/dmitrijs2005/sealdrop/internal/proto"
	"golang.org/x/crypto/nacl/box"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	DefaultModule   = "simple_recipient"
	approveFunction = "seal_approve"
)

// ProgressFunc receives the percentage of input bytes processed.
type ProgressFunc func(percent int)

type Engine struct {
	servers    []KeyServer
	packageID  ledger.Address
	module     string
	sessionTTL time.Duration
	logger     logging.Logger
	rand       io.Reader
	now        func() time.Time
}

type Option func(*Engine)

func WithSessionTTL(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.sessionTTL = d
		}
	}
}

func WithModule(m string) Option {
	return func(e *Engine) {
		if m != "" {
			e.module = m
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func NewEngine(servers []KeyServer, packageID ledger.Address, opts ...Option) (*Engine, error) {
	if len(servers) == 0 {
		return nil, errors.New("at least one key server is required")
	}
	if len(servers) > maxShares {
		return nil, fmt.Errorf("at most %d key servers are supported", maxShares)
	}
	e := &Engine{
		servers:    servers,
		packageID:  packageID,
		module:     DefaultModule,
		sessionTTL: DefaultSessionTTL,
		logger:     logging.NewDiscardLogger(),
		rand:       rand.Reader,
		now:        time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	e.logger = e.logger.With("module", "seal")
	return e, nil
}

func (e *Engine) PackageID() ledger.Address { return e.packageID }

// Encrypt binds data to recipient. See EncryptStreaming.
func (e *Engine) Encrypt(ctx context.Context, data []byte, recipient ledger.Address) ([]byte, error) {
	return e.EncryptStreaming(ctx, bytes.NewReader(data), int64(len(data)), recipient, nil)
}

// EncryptStreaming reads r in BlockSize chunks and reports progress after
// each one. size is used for progress only; pass a value <= 0 when unknown.
// Every call draws a fresh data key and nonce prefix.
func (e *Engine) EncryptStreaming(ctx context.Context, r io.Reader, size int64, recipient ledger.Address, onProgress ProgressFunc) ([]byte, error) {
	if recipient.IsZero() {
		return nil, fmt.Errorf("%w: recipient identity is empty", common.ErrValidation)
	}

	var dataKey [keyproto.DataKeySize]byte
	if _, err := io.ReadFull(e.rand, dataKey[:]); err != nil {
		return nil, fmt.Errorf("generate data key: %w", err)
	}
	defer common.WipeByteArray(dataKey[:])

	h := &header{packageID: e.packageID, identity: recipient}
	policy := keyproto.Policy{PackageID: e.packageID, Identity: recipient}
	for _, srv := range e.servers {
		info, err := srv.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("key server info: %w", err)
		}
		wrapped, err := keyproto.WrapKey(&info.PublicKey, policy, dataKey[:])
		if err != nil {
			return nil, fmt.Errorf("wrap data key: %w", err)
		}
		h.shares = append(h.shares, share{serverID: info.ObjectID, wrapped: wrapped})
	}
	if _, err := io.ReadFull(e.rand, h.noncePrefix[:]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	hdr, err := h.marshal()
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if size > 0 {
		out.Grow(len(hdr) + int(size) + int(size/BlockSize+1)*secretbox.Overhead)
	}
	out.Write(hdr)

	last := -1
	checkpoint := func(consumed int64) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if onProgress == nil || size <= 0 {
			return nil
		}
		p := int(math.Round(float64(min(consumed, size)) / float64(size) * 100))
		if p > last {
			last = p
			onProgress(p)
		}
		return nil
	}
	if err := sealBlocks(&out, r, &dataKey, h.noncePrefix, checkpoint); err != nil {
		return nil, fmt.Errorf("encrypt: %w", err)
	}
	if onProgress != nil && last < 100 {
		onProgress(100)
	}

	e.logger.Debug(ctx, "payload sealed", "bytes", out.Len(), "servers", len(h.shares))
	return out.Bytes(), nil
}

// NewSessionKey starts a decryption session for address. The caller has the
// wallet sign PersonalMessage and hands the signature back before Decrypt.
func (e *Engine) NewSessionKey(address ledger.Address) (*SessionKey, error) {
	return newSessionKey(address, e.packageID, e.sessionTTL, e.rand, e.now)
}

// ApprovalTx builds the kind bytes of {package}::{module}::seal_approve(id).
func (e *Engine) ApprovalTx(id ledger.Address) ([]byte, error) {
	return ledger.TransactionIntent{Calls: []ledger.MoveCall{{
		Package:  e.packageID,
		Module:   e.module,
		Function: approveFunction,
		Args:     []ledger.Arg{ledger.PureBytes(id.Bytes())},
	}}}.KindBytes()
}

// Decrypt recovers the plaintext of payload for requester.
//
// The payload's bound identity and the session's address are compared with
// requester before any key server is contacted; a mismatch is ErrAccessDenied.
// A rejected proof, an expired session and corrupt ciphertext are all
// ErrDecryptionFailed.
func (e *Engine) Decrypt(ctx context.Context, payload []byte, requester ledger.Address, session *SessionKey, approvalTx []byte) ([]byte, error) {
	h, offset, err := parseHeader(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDecryptionFailed, err)
	}
	if h.identity != requester || session == nil || session.Address() != requester {
		return nil, fmt.Errorf("%w: requester is not authorized for this file", common.ErrAccessDenied)
	}
	if h.packageID != e.packageID {
		return nil, fmt.Errorf("%w: payload was sealed under another policy package", common.ErrDecryptionFailed)
	}
	if session.IsExpired() {
		return nil, fmt.Errorf("%w: %w", common.ErrDecryptionFailed, common.ErrSessionExpired)
	}

	cert, err := session.Certificate()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDecryptionFailed, err)
	}

	dataKey, err := e.fetchKey(ctx, h, cert, session, approvalTx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDecryptionFailed, err)
	}
	defer common.WipeByteArray(dataKey[:])

	plain, err := openBlocks(payload[offset:], dataKey, h.noncePrefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDecryptionFailed, err)
	}
	return plain, nil
}

// fetchKey tries every key server holding a share, in configuration order,
// and returns the first key released.
func (e *Engine) fetchKey(ctx context.Context, h *header, cert *pb.Certificate, session *SessionKey, approvalTx []byte) (*[32]byte, error) {
	byID := make(map[string][]byte, len(h.shares))
	for _, s := range h.shares {
		byID[s.serverID] = s.wrapped
	}

	var errs []error
	for _, srv := range e.servers {
		info, err := srv.Info(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		wrapped, ok := byID[info.ObjectID]
		if !ok {
			continue
		}

		key, err := e.fetchFrom(ctx, srv, wrapped, cert, session, approvalTx)
		if err != nil {
			e.logger.Warn(ctx, "key server refused", "server", info.ObjectID, "error", err.Error())
			errs = append(errs, err)
			continue
		}
		return key, nil
	}

	if len(errs) == 0 {
		return nil, errors.New("no configured key server holds a share of this payload")
	}
	return nil, errors.Join(errs...)
}

func (e *Engine) fetchFrom(ctx context.Context, srv KeyServer, wrapped []byte, cert *pb.Certificate, session *SessionKey, approvalTx []byte) (*[32]byte, error) {
	encPub, encPriv, err := box.GenerateKey(e.rand)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(encPriv[:])

	token, err := session.RequestToken(approvalTx, encPub[:])
	if err != nil {
		return nil, err
	}

	sealed, err := srv.FetchKey(ctx, &pb.FetchKeyRequest{
		WrappedKey:   wrapped,
		TxBytes:      approvalTx,
		Certificate:  cert,
		RequestToken: token,
		EncKey:       encPub[:],
	})
	if err != nil {
		return nil, err
	}

	raw, err := keyproto.OpenFromServer(encPub, encPriv, sealed)
	if err != nil {
		return nil, err
	}
	var key [32]byte
	copy(key[:], raw)
	common.WipeByteArray(raw)
	return &key, nil
}

// SignFunc has the wallet sign a personal message.
type SignFunc func(ctx context.Context, msg []byte) (string, error)

// DecryptWithSigner runs a whole decryption session: it creates a session
// key, has sign authorize it, decrypts and destroys the session. The bound
// identity is compared with requester before the wallet is asked anything.
func (e *Engine) DecryptWithSigner(ctx context.Context, payload []byte, requester ledger.Address, sign SignFunc) ([]byte, error) {
	id, err := PayloadIdentity(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDecryptionFailed, err)
	}
	if id != requester {
		return nil, fmt.Errorf("%w: requester is not authorized for this file", common.ErrAccessDenied)
	}

	session, err := e.NewSessionKey(requester)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDecryptionFailed, err)
	}
	defer session.Destroy()

	sig, err := sign(ctx, session.PersonalMessage())
	if err != nil {
		return nil, fmt.Errorf("%w: session not authorized: %w", common.ErrDecryptionFailed, err)
	}
	if err := session.SetPersonalMessageSignature(sig); err != nil {
		return nil, err
	}

	tx, err := e.ApprovalTx(requester)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDecryptionFailed, err)
	}
	return e.Decrypt(ctx, payload, requester, session, tx)
}
