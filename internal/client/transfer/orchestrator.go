// Package transfer drives uploads and downloads end to end: it owns the
// session state machine and sequences the blob store, the encryption engine,
// the registry and the wallet. Collaborators are injected; the package holds
// no global state.
package transfer

import (
	"context"
	"io"
	"time"

	"github.com/dmitrijs2005/sealdrop/internal/client/blobstore"
	"github.com/dmitrijs2005/sealdrop/internal/client/models"
	"github.com/dmitrijs2005/sealdrop/internal/client/registry"
	"github.com/dmitrijs2005/sealdrop/internal/client/repositories/orphans"
	"github.com/dmitrijs2005/sealdrop/internal/client/repositories/records"
	"github.com/dmitrijs2005/sealdrop/internal/client/seal"
	"github.com/dmitrijs2005/sealdrop/internal/ledger"
	"github.com/dmitrijs2005/sealdrop/internal/logging"
)

// Encryptor is the part of the seal engine the orchestrator uses.
type Encryptor interface {
	EncryptStreaming(ctx context.Context, r io.Reader, size int64, recipient ledger.Address, onProgress seal.ProgressFunc) ([]byte, error)
	DecryptWithSigner(ctx context.Context, payload []byte, requester ledger.Address, sign seal.SignFunc) ([]byte, error)
}

// Registry is the part of the registry client the orchestrator uses.
type Registry interface {
	RegisterFiles(entries []registry.FileEntry, recipient ledger.Address, retentionEpochs uint64, isPublic bool) (ledger.TransactionIntent, error)
	QueryByBlobID(ctx context.Context, blobID string) (*models.FileRecord, bool)
	CurrentEpoch(ctx context.Context) (uint64, bool)
}

// Wallet signs on behalf of the connected account.
type Wallet interface {
	Address() ledger.Address
	SignPersonalMessage(ctx context.Context, msg []byte) (string, error)
	SignAndExecute(ctx context.Context, intent ledger.TransactionIntent) (*ledger.ExecutionResult, error)
}

// Deps are the orchestrator's collaborators. Wallet may be nil for public
// downloads; Records and Orphans may be nil to run without a local database.
type Deps struct {
	Store    blobstore.Store
	Engine   Encryptor
	Registry Registry
	Wallet   Wallet
	Records  records.Repository
	Orphans  orphans.Repository
	Logger   logging.Logger
}

type Orchestrator struct {
	store    blobstore.Store
	engine   Encryptor
	registry Registry
	wallet   Wallet
	records  records.Repository
	orphans  orphans.Repository
	logger   logging.Logger
	now      func() time.Time
}

func New(d Deps) *Orchestrator {
	l := d.Logger
	if l == nil {
		l = logging.NewDiscardLogger()
	}
	return &Orchestrator{
		store:    d.Store,
		engine:   d.Engine,
		registry: d.Registry,
		wallet:   d.Wallet,
		records:  d.Records,
		orphans:  d.Orphans,
		logger:   l.With("module", "transfer"),
		now:      time.Now,
	}
}

// fail moves s to Errored and returns err.
func (o *Orchestrator) fail(ctx context.Context, s *Session, err *Error) error {
	s.transition(StateErrored)
	o.logger.Warn(ctx, "transfer failed", "session", s.ID(), "stage", string(err.Stage), "error", err.Error())
	return err
}
