package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/dmitrijs2005/sealdrop/internal/client/blobstore"
	"github.com/dmitrijs2005/sealdrop/internal/client/config"
	"github.com/dmitrijs2005/sealdrop/internal/client/models"
	"github.com/dmitrijs2005/sealdrop/internal/client/registry"
	"github.com/dmitrijs2005/sealdrop/internal/client/repositories"
	"github.com/dmitrijs2005/sealdrop/internal/client/repositories/orphans"
	"github.com/dmitrijs2005/sealdrop/internal/client/repositories/records"
	"github.com/dmitrijs2005/sealdrop/internal/client/seal"
	"github.com/dmitrijs2005/sealdrop/internal/client/transfer"
	"github.com/dmitrijs2005/sealdrop/internal/client/wallet"
	"github.com/dmitrijs2005/sealdrop/internal/filex"
	"github.com/dmitrijs2005/sealdrop/internal/ledger"
	"github.com/dmitrijs2005/sealdrop/internal/logging"
)

// Transfers is the orchestrator surface the commands drive.
type Transfers interface {
	Upload(ctx context.Context, req transfer.UploadRequest, onProgress transfer.ProgressFunc) (*transfer.UploadResult, error)
	RequestDownload(ctx context.Context, req transfer.DownloadRequest, onProgress transfer.ProgressFunc) (*transfer.Download, error)
	RequestBatchDownload(ctx context.Context, blobIDs []string, onProgress transfer.ProgressFunc) ([]transfer.BatchItem, error)
	RetryRegistration(ctx context.Context, items []models.Orphan) (*transfer.UploadResult, error)
}

// Registry is the read side of the file registry used by the listing commands.
type Registry interface {
	QueryByBlobID(ctx context.Context, blobID string) (*models.FileRecord, bool)
	QueryByUploader(ctx context.Context, uploader ledger.Address) []models.FileRecord
	QueryByRecipient(ctx context.Context, recipient ledger.Address) []models.FileRecord
	CurrentEpoch(ctx context.Context) (uint64, bool)
}

// Services bundles everything the commands need once configuration is known.
// Wallet is nil when no keystore exists yet.
type Services struct {
	Transfers Transfers
	Registry  Registry
	Records   records.Repository
	Orphans   orphans.Repository
	Wallet    transfer.Wallet

	closers []func() error
}

func (s *Services) close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// BuildFunc creates the services for a loaded configuration.
type BuildFunc func(ctx context.Context, a *App) (*Services, error)

// App carries the state shared by all commands of one invocation.
type App struct {
	out    io.Writer
	errOut io.Writer

	cfg    *config.Config
	logger logging.Logger

	build BuildFunc
	svc   *Services
}

// NewApp returns an App writing results to out and prompts, progress and
// diagnostics to errOut.
func NewApp(out, errOut io.Writer) *App {
	return &App{
		out:    out,
		errOut: errOut,
		logger: logging.NewDiscardLogger(),
		build:  buildServices,
	}
}

// WithServices replaces the service builder, mostly for tests.
func (a *App) WithServices(build BuildFunc) *App {
	a.build = build
	return a
}

// WithConfig fixes the configuration and skips loading it from the
// environment, files and flags.
func (a *App) WithConfig(cfg *config.Config) *App {
	a.cfg = cfg
	return a
}

func (a *App) services(ctx context.Context) (*Services, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	svc, err := a.build(ctx, a)
	if err != nil {
		return nil, err
	}
	a.svc = svc
	return svc, nil
}

// walletServices is services plus the requirement that a wallet is configured.
func (a *App) walletServices(ctx context.Context) (*Services, error) {
	svc, err := a.services(ctx)
	if err != nil {
		return nil, err
	}
	if svc.Wallet == nil {
		return nil, fmt.Errorf("no wallet found at %s, run \"sealdrop wallet new\" first", a.cfg.KeystorePath)
	}
	return svc, nil
}

// Close releases connections, the database and the unlocked key.
func (a *App) Close() error {
	if a.svc == nil {
		return nil
	}
	err := a.svc.close()
	a.svc = nil
	return err
}

func buildServices(ctx context.Context, a *App) (*Services, error) {
	cfg := a.cfg
	svc := &Services{}
	ok := false
	defer func() {
		if !ok {
			_ = svc.close()
		}
	}()

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	chain := ledger.NewClient(cfg.RPCURL, ledger.WithHTTPClient(httpClient), ledger.WithLogger(a.logger))

	store, err := newStore(ctx, cfg, httpClient, a.logger)
	if err != nil {
		return nil, err
	}

	servers := make([]seal.KeyServer, 0, len(cfg.KeyServers))
	for _, target := range cfg.KeyServers {
		ks, err := seal.Dial(target)
		if err != nil {
			return nil, fmt.Errorf("key server %s: %w", target, err)
		}
		svc.closers = append(svc.closers, ks.Close)
		servers = append(servers, ks)
	}

	sealPkg, err := ledger.ParseAddress(cfg.SealPackageID)
	if err != nil {
		return nil, fmt.Errorf("seal package: %w", err)
	}
	engine, err := seal.NewEngine(servers, sealPkg,
		seal.WithModule(cfg.SealModule),
		seal.WithSessionTTL(cfg.SessionTTL),
		seal.WithLogger(a.logger),
	)
	if err != nil {
		return nil, err
	}

	regPkg, err := ledger.ParseAddress(cfg.RegistryPackageID)
	if err != nil {
		return nil, fmt.Errorf("registry package: %w", err)
	}
	reg := registry.NewClient(chain, regPkg, registry.WithModule(cfg.RegistryModule), registry.WithLogger(a.logger))

	if err := filex.EnsureDir(filepath.Dir(cfg.DBPath)); err != nil {
		return nil, err
	}
	repos, err := repositories.InitDatabase(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open local database: %w", err)
	}
	svc.closers = append(svc.closers, repos.Close)

	lw, err := wallet.Open(cfg.KeystorePath, chain, cfg.GasBudget, a.passphrase, a.logger)
	switch {
	case err == nil:
		svc.Wallet = lw
		svc.closers = append(svc.closers, func() error { lw.Lock(); return nil })
	case errors.Is(err, wallet.ErrKeystoreNotFound):
		a.logger.Info(ctx, "no wallet keystore", "path", cfg.KeystorePath)
	default:
		return nil, err
	}

	svc.Registry = reg
	svc.Records = repos.Records
	svc.Orphans = repos.Orphans
	svc.Transfers = transfer.New(transfer.Deps{
		Store:    store,
		Engine:   engine,
		Registry: reg,
		Wallet:   svc.Wallet,
		Records:  repos.Records,
		Orphans:  repos.Orphans,
		Logger:   a.logger,
	})

	ok = true
	return svc, nil
}

func newStore(ctx context.Context, cfg *config.Config, hc *http.Client, l logging.Logger) (blobstore.Store, error) {
	switch cfg.Backend {
	case config.BackendS3:
		return blobstore.NewS3Store(ctx, blobstore.S3Options{
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			AccessKey:    cfg.S3.AccessKey,
			SecretKey:    cfg.S3.SecretKey,
			Bucket:       cfg.S3.Bucket,
			Prefix:       cfg.S3.Prefix,
			UsePathStyle: cfg.S3.UsePathStyle,
		}, l)
	default:
		return blobstore.NewWalrusStore(cfg.PublisherURL, cfg.AggregatorURL,
			blobstore.WithHTTPClient(hc), blobstore.WithLogger(l)), nil
	}
}
