package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/sealdrop/internal/common"
	"github.com/dmitrijs2005/sealdrop/internal/ledger"
)

const (
	BackendWalrus = "walrus"
	BackendS3     = "s3"
)

// S3Config configures the S3-compatible blob backend.
type S3Config struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	Prefix       string
	UsePathStyle bool
}

// Config holds runtime settings for the sealdrop CLI.
//
// Fields:
//   - PublisherURL / AggregatorURL: Walrus HTTP endpoints.
//   - RPCURL: ledger JSON-RPC endpoint.
//   - RegistryPackageID / RegistryModule: the file registry contract.
//   - SealPackageID / SealModule: the access policy contract.
//   - KeyServers: gRPC addresses of key servers, tried in order.
//   - SessionTTL: lifetime of a decryption session.
//   - DefaultEpochs: retention used when an upload names none.
//   - Backend: "walrus" or "s3"; S3 holds the bucket settings.
//   - DBPath / KeystorePath: local files.
//   - HTTPTimeout: applied to blob store and RPC requests.
//   - GasBudget: budget for registration transactions.
//   - ShareBaseURL: prefix of generated share links.
type Config struct {
	PublisherURL      string
	AggregatorURL     string
	RPCURL            string
	RegistryPackageID string
	RegistryModule    string
	SealPackageID     string
	SealModule        string
	KeyServers        []string
	SessionTTL        time.Duration
	DefaultEpochs     uint64
	Backend           string
	S3                S3Config
	DBPath            string
	KeystorePath      string
	HTTPTimeout       time.Duration
	GasBudget         uint64
	LogLevel          string
	ShareBaseURL      string
}

// LoadDefaults populates c with testnet defaults.
func (c *Config) LoadDefaults() {
	dir := defaultDir()

	c.PublisherURL = "https://publisher.walrus-testnet.walrus.space"
	c.AggregatorURL = "https://aggregator.walrus-testnet.walrus.space"
	c.RPCURL = "https://fullnode.testnet.sui.io:443"
	c.RegistryPackageID = "0x8064b110b86088b9daf3677a8574276d8820cdf2480e19a104f56219626a9301"
	c.RegistryModule = "file_registry"
	c.SealPackageID = "0xd1d471dd362206f61194c711d9dfcd1f8fd2d3e44df102efc15fa07332996247"
	c.SealModule = "simple_recipient"
	c.KeyServers = []string{"127.0.0.1:50052"}
	c.SessionTTL = 5 * time.Minute
	c.DefaultEpochs = 1
	c.Backend = BackendWalrus
	c.S3 = S3Config{Region: "auto"}
	c.DBPath = filepath.Join(dir, "sealdrop.db")
	c.KeystorePath = filepath.Join(dir, "wallet.json")
	c.HTTPTimeout = 5 * time.Minute
	c.GasBudget = 50_000_000
	c.LogLevel = "warn"
	c.ShareBaseURL = "https://detransfer.vercel.app"
}

func defaultDir() string {
	if d, err := os.UserConfigDir(); err == nil {
		return filepath.Join(d, "sealdrop")
	}
	return ".sealdrop"
}

// Validate checks settings that would otherwise fail deep inside a transfer.
func (c *Config) Validate() error {
	var errs []error
	if _, err := ledger.ParseAddress(c.RegistryPackageID); err != nil {
		errs = append(errs, fmt.Errorf("registry package: %w", err))
	}
	if _, err := ledger.ParseAddress(c.SealPackageID); err != nil {
		errs = append(errs, fmt.Errorf("seal package: %w", err))
	}
	if len(c.KeyServers) == 0 {
		errs = append(errs, errors.New("at least one key server is required"))
	}
	if c.SessionTTL < time.Minute {
		errs = append(errs, errors.New("session ttl must be at least one minute"))
	}
	if c.DefaultEpochs == 0 {
		errs = append(errs, errors.New("default epochs must be at least 1"))
	}
	switch c.Backend {
	case BackendWalrus:
		if c.PublisherURL == "" || c.AggregatorURL == "" {
			errs = append(errs, errors.New("walrus backend needs publisher and aggregator urls"))
		}
	case BackendS3:
		if c.S3.Bucket == "" {
			errs = append(errs, errors.New("s3 backend needs a bucket"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", common.ErrValidation, errors.Join(errs...))
	}
	return nil
}
