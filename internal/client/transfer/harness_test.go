package transfer

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/sealdrop/internal/client/blobstore"
	"github.com/dmitrijs2005/sealdrop/internal/client/models"
	"github.com/dmitrijs2005/sealdrop/internal/client/registry"
	"github.com/dmitrijs2005/sealdrop/internal/client/repositories"
	"github.com/dmitrijs2005/sealdrop/internal/client/seal"
	"github.com/dmitrijs2005/sealdrop/internal/common"
	"github.com/dmitrijs2005/sealdrop/internal/ledger"
	"github.com/dmitrijs2005/sealdrop/internal/logging"
	pb "github.com/dmitrijs2005/sealdrop/internal/proto"
	"github.com/dmitrijs2005/sealdrop/internal/server/services"
	"github.com/stretchr/testify/require"
)

var (
	sealPackage     = ledger.MustParseAddress("0xd1d471dd362206f61194c711d9dfcd1f8fd2d3e44df102efc15fa07332996247")
	registryPackage = ledger.MustParseAddress("0x5ea1d409")
)

const mb = 1 << 20

// fakeStore is an in-memory content-addressed store.
type fakeStore struct {
	mu        sync.Mutex
	blobs     map[string][]byte
	uploads   int
	downloads int
	failOn    map[int]error // upload call number (1-based) -> error
	step      int           // progress granularity in bytes, 0 for four steps
}

func newFakeStore() *fakeStore {
	return &fakeStore{blobs: map[string][]byte{}, failOn: map[int]error{}}
}

func (f *fakeStore) Upload(ctx context.Context, data []byte, epochs uint64, onProgress blobstore.UploadProgressFunc) (string, error) {
	f.mu.Lock()
	f.uploads++
	n := f.uploads
	f.mu.Unlock()

	if err := f.failOn[n]; err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrUpload, err)
	}

	step := f.step
	if step == 0 {
		step = max(len(data)/4, 1)
	}
	for sent := step; sent < len(data); sent += step {
		if onProgress != nil {
			onProgress(sent*100/len(data), 1)
		}
	}
	if onProgress != nil {
		onProgress(100, 0)
	}

	sum := sha256.Sum256(data)
	id := hex.EncodeToString(sum[:16])
	f.mu.Lock()
	f.blobs[id] = append([]byte(nil), data...)
	f.mu.Unlock()
	return id, nil
}

func (f *fakeStore) Download(ctx context.Context, blobID string, onProgress blobstore.DownloadProgressFunc) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloads++
	b, ok := f.blobs[blobID]
	if !ok {
		return nil, fmt.Errorf("%w: blob %s", common.ErrNotFound, blobID)
	}
	if onProgress != nil {
		onProgress(50)
		onProgress(100)
	}
	return append([]byte(nil), b...), nil
}

// keyServer runs the real release policy in process.
type keyServer struct{ svc *services.KeyService }

func (k keyServer) Info(context.Context) (seal.ServerInfo, error) {
	return seal.ServerInfo{ObjectID: k.svc.ObjectID(), PublicKey: k.svc.PublicKey()}, nil
}

func (k keyServer) FetchKey(ctx context.Context, req *pb.FetchKeyRequest) ([]byte, error) {
	return k.svc.FetchKey(ctx, req)
}

// countingEngine wraps the real engine to count calls.
type countingEngine struct {
	inner    *seal.Engine
	encrypts int
	decrypts int
}

func newEngine(t *testing.T) *countingEngine {
	t.Helper()
	master := make([]byte, 32)
	_, err := rand.Read(master)
	require.NoError(t, err)
	svc, err := services.NewKeyService("0xkey1", master, sealPackage, seal.DefaultModule, 30*time.Minute, logging.NewDiscardLogger())
	require.NoError(t, err)
	e, err := seal.NewEngine([]seal.KeyServer{keyServer{svc}}, sealPackage)
	require.NoError(t, err)
	return &countingEngine{inner: e}
}

func (c *countingEngine) EncryptStreaming(ctx context.Context, r io.Reader, size int64, recipient ledger.Address, onProgress seal.ProgressFunc) ([]byte, error) {
	c.encrypts++
	return c.inner.EncryptStreaming(ctx, r, size, recipient, onProgress)
}

func (c *countingEngine) DecryptWithSigner(ctx context.Context, payload []byte, requester ledger.Address, sign seal.SignFunc) ([]byte, error) {
	c.decrypts++
	return c.inner.DecryptWithSigner(ctx, payload, requester, sign)
}

// fakeChain is the registry as seen through the ledger: intents are built by
// the real registry client and committed when a wallet executes them.
type fakeChain struct {
	builder    *registry.Client
	records    map[string]models.FileRecord
	pending    []pendingBatch
	epoch      uint64
	epochKnown bool
	builds     int
	queries    int
}

type pendingBatch struct {
	entries   []registry.FileEntry
	recipient ledger.Address
	retention uint64
	isPublic  bool
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		builder:    registry.NewClient(nil, registryPackage),
		records:    map[string]models.FileRecord{},
		epoch:      100,
		epochKnown: true,
	}
}

func (c *fakeChain) RegisterFiles(entries []registry.FileEntry, recipient ledger.Address, retention uint64, isPublic bool) (ledger.TransactionIntent, error) {
	c.builds++
	intent, err := c.builder.RegisterFiles(entries, recipient, retention, isPublic)
	if err != nil {
		return intent, err
	}
	c.pending = append(c.pending, pendingBatch{entries: entries, recipient: recipient, retention: retention, isPublic: isPublic})
	return intent, nil
}

func (c *fakeChain) QueryByBlobID(_ context.Context, blobID string) (*models.FileRecord, bool) {
	c.queries++
	rec, ok := c.records[blobID]
	if !ok {
		return nil, false
	}
	return &rec, true
}

func (c *fakeChain) CurrentEpoch(context.Context) (uint64, bool) {
	return c.epoch, c.epochKnown
}

func (c *fakeChain) commit(uploader ledger.Address) {
	for _, b := range c.pending {
		for _, e := range b.entries {
			c.records[e.BlobID] = models.FileRecord{
				BlobID:     e.BlobID,
				Uploader:   uploader,
				Recipient:  b.recipient,
				FileName:   e.FileName,
				FileType:   e.FileType,
				FileSize:   e.FileSize,
				UploadedAt: 1,
				ExpiresAt:  c.epoch + b.retention,
				IsPublic:   b.isPublic,
			}
		}
	}
	c.pending = nil
}

// fakeWallet signs with a real key and commits through chain.
type fakeWallet struct {
	kp       *ledger.Keypair
	chain    *fakeChain
	execErr  error
	signs    int
	executed int
}

func newWallet(t *testing.T, chain *fakeChain) *fakeWallet {
	t.Helper()
	kp, err := ledger.GenerateKeypair()
	require.NoError(t, err)
	return &fakeWallet{kp: kp, chain: chain}
}

func (w *fakeWallet) Address() ledger.Address { return w.kp.Address() }

func (w *fakeWallet) SignPersonalMessage(_ context.Context, msg []byte) (string, error) {
	w.signs++
	return w.kp.SignPersonalMessage(msg), nil
}

func (w *fakeWallet) SignAndExecute(_ context.Context, intent ledger.TransactionIntent) (*ledger.ExecutionResult, error) {
	if w.execErr != nil {
		w.chain.pending = nil
		return nil, w.execErr
	}
	if len(intent.Calls) == 0 {
		return nil, errors.New("empty transaction")
	}
	w.executed++
	w.chain.commit(w.Address())
	return &ledger.ExecutionResult{Digest: fmt.Sprintf("digest-%d", w.executed)}, nil
}

type harness struct {
	store  *fakeStore
	engine *countingEngine
	chain  *fakeChain
	db     *repositories.Repositories
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db, err := repositories.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &harness{store: newFakeStore(), engine: newEngine(t), chain: newFakeChain(), db: db}
}

// as returns an orchestrator acting for w, which may be nil.
func (h *harness) as(w *fakeWallet) *Orchestrator {
	d := Deps{
		Store:    h.store,
		Engine:   h.engine,
		Registry: h.chain,
		Records:  h.db.Records,
		Orphans:  h.db.Orphans,
		Logger:   logging.NewDiscardLogger(),
	}
	if w != nil {
		d.Wallet = w
	}
	return New(d)
}

// recorder collects progress snapshots.
type recorder struct {
	mu     sync.Mutex
	events []Progress
}

func (r *recorder) fn(p Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, p)
}

func (r *recorder) states() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []State
	for _, e := range r.events {
		if len(out) == 0 || out[len(out)-1] != e.State {
			out = append(out, e.State)
		}
	}
	return out
}

func (r *recorder) batch() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.events))
	for i, e := range r.events {
		out[i] = e.BatchPercent
	}
	return out
}

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return b
}
