// Package server wires and runs the key-release service: it loads the master
// key, builds the policy service, serves it over gRPC and shuts down on
// SIGINT, SIGTERM or SIGQUIT.
package server

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/sealdrop/internal/common"
	"github.com/dmitrijs2005/sealdrop/internal/ledger"
	"github.com/dmitrijs2005/sealdrop/internal/logging"
	"github.com/dmitrijs2005/sealdrop/internal/server/config"
	"github.com/dmitrijs2005/sealdrop/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/sealdrop/internal/server/grpc"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	keyService *services.KeyService
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(c.LogLevel))

	masterKey, generated, err := loadMasterKey(c.MasterKeyHex)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(masterKey)

	pkg, err := ledger.ParseAddress(c.SealPackageID)
	if err != nil {
		return nil, fmt.Errorf("seal package id: %w", err)
	}

	ks, err := services.NewKeyService(c.ObjectID, masterKey, pkg, c.SealModule, c.MaxSessionTTL, logger)
	if err != nil {
		return nil, fmt.Errorf("key service init error: %w", err)
	}

	if generated {
		pub := ks.PublicKey()
		logger.Warn(context.Background(), "no master key configured, using an ephemeral one",
			"public_key", hex.EncodeToString(pub[:]))
	}

	return &App{config: c, logger: logger, keyService: ks}, nil
}

const masterKeySize = 32

func loadMasterKey(h string) (key []byte, generated bool, err error) {
	if h == "" {
		return common.GenerateRandByteArray(masterKeySize), true, nil
	}
	key, err = hex.DecodeString(h)
	if err != nil {
		return nil, false, fmt.Errorf("master key is not hex: %w", err)
	}
	return key, false, nil
}

func (app *App) initSignalHandler(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
}

// Run serves until a signal arrives or the server fails.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := app.initSignalHandler(ctx)
	defer stop()

	app.logger.Info(ctx, "Starting app...", "object_id", app.keyService.ObjectID())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.keyService)
		return s.Run(ctx)
	})

	if err := g.Wait(); err != nil {
		app.logger.Error(ctx, "server stopped", "error", err.Error())
		return err
	}
	app.logger.Info(ctx, "Stopped")
	return nil
}
