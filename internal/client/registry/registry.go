// Package registry builds registration intents for the file_registry Move
// package and reads file records back from the ledger.
//
// Lookups by blob id and by uploader scan the most recent FileUploaded
// events only, so older records can be missed. Query failures never escape
// this package: they are logged and reported as an empty result.
package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/sealdrop/internal/client/models"
	"github.com/dmitrijs2005/sealdrop/internal/common"
	"github.com/dmitrijs2005/sealdrop/internal/ledger"
	"github.com/dmitrijs2005/sealdrop/internal/logging"
)

const (
	DefaultModule = "file_registry"

	registerFunction = "register_file"
	eventName        = "FileUploaded"
	recordStruct     = "FileRecord"

	// BlobScanLimit and UploaderScanLimit bound the event scans.
	BlobScanLimit     = 100
	UploaderScanLimit = 50
)

// Ledger is the read side of the ledger the registry needs.
type Ledger interface {
	QueryEvents(ctx context.Context, eventType string, limit int, descending bool) ([]ledger.Event, error)
	GetOwnedObjects(ctx context.Context, owner ledger.Address, structType string) ([]ledger.Object, error)
	GetObject(ctx context.Context, id string) (*ledger.Object, error)
	GetObjectChanges(ctx context.Context, digest string) ([]ledger.ObjectChange, error)
	LatestEpoch(ctx context.Context) (uint64, error)
}

// FileEntry describes one stored blob to register.
type FileEntry struct {
	BlobID   string
	FileName string
	FileType string
	FileSize uint64
}

type Client struct {
	ledger    Ledger
	packageID ledger.Address
	module    string
	logger    logging.Logger
}

type Option func(*Client)

func WithModule(m string) Option {
	return func(c *Client) {
		if m != "" {
			c.module = m
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func NewClient(l Ledger, packageID ledger.Address, opts ...Option) *Client {
	c := &Client{
		ledger:    l,
		packageID: packageID,
		module:    DefaultModule,
		logger:    logging.NewDiscardLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	c.logger = c.logger.With("module", "registry")
	return c
}

func (c *Client) eventType() string {
	return fmt.Sprintf("%s::%s::%s", c.packageID, c.module, eventName)
}

func (c *Client) recordType() string {
	return fmt.Sprintf("%s::%s::%s", c.packageID, c.module, recordStruct)
}

// RegisterFile builds an unsigned intent registering a single file.
func (c *Client) RegisterFile(blobID string, recipient ledger.Address, fileName, fileType string, fileSize, retentionEpochs uint64, isPublic bool) (ledger.TransactionIntent, error) {
	return c.RegisterFiles([]FileEntry{{BlobID: blobID, FileName: fileName, FileType: fileType, FileSize: fileSize}},
		recipient, retentionEpochs, isPublic)
}

// RegisterFiles builds one intent with a register_file call per entry, so
// the batch commits all together or not at all.
func (c *Client) RegisterFiles(entries []FileEntry, recipient ledger.Address, retentionEpochs uint64, isPublic bool) (ledger.TransactionIntent, error) {
	var intent ledger.TransactionIntent
	if len(entries) == 0 {
		return intent, fmt.Errorf("%w: nothing to register", common.ErrValidation)
	}
	if recipient.IsZero() {
		return intent, fmt.Errorf("%w: recipient is empty", common.ErrValidation)
	}
	if retentionEpochs == 0 {
		return intent, fmt.Errorf("%w: retention must be at least one epoch", common.ErrValidation)
	}

	for _, e := range entries {
		if e.BlobID == "" {
			return ledger.TransactionIntent{}, fmt.Errorf("%w: empty blob id", common.ErrValidation)
		}
		intent.Calls = append(intent.Calls, ledger.MoveCall{
			Package:  c.packageID,
			Module:   c.module,
			Function: registerFunction,
			Args: []ledger.Arg{
				ledger.PureBytes([]byte(e.BlobID)),
				ledger.PureAddress(recipient),
				ledger.PureString(e.FileName),
				ledger.PureString(e.FileType),
				ledger.PureU64(e.FileSize),
				ledger.PureU64(retentionEpochs),
				ledger.PureBool(isPublic),
			},
		})
	}
	return intent, nil
}

// QueryByBlobID returns the newest record for blobID found among the most
// recent BlobScanLimit events. false means "not in recent history".
func (c *Client) QueryByBlobID(ctx context.Context, blobID string) (*models.FileRecord, bool) {
	events, err := c.ledger.QueryEvents(ctx, c.eventType(), BlobScanLimit, true)
	if err != nil {
		c.logger.Warn(ctx, "event query failed", "error", common.SanitizeAddresses(err.Error()))
		return nil, false
	}

	for _, ev := range events {
		rec, err := recordFromEvent(ev)
		if err != nil {
			c.logger.Debug(ctx, "skipping malformed event", "tx", ev.ID.TxDigest, "error", err.Error())
			continue
		}
		if rec.BlobID != blobID {
			continue
		}
		c.enrich(ctx, &rec, ev.ID.TxDigest)
		return &rec, true
	}
	return nil, false
}

// enrich fills the fields FileUploaded does not carry from the FileRecord
// object created by the same transaction. It is best effort.
func (c *Client) enrich(ctx context.Context, rec *models.FileRecord, digest string) {
	if digest == "" {
		return
	}
	changes, err := c.ledger.GetObjectChanges(ctx, digest)
	if err != nil {
		c.logger.Warn(ctx, "object changes lookup failed", "error", common.SanitizeAddresses(err.Error()))
		return
	}

	want := c.recordType()
	for _, ch := range changes {
		if ch.Type != "created" || ch.ObjectType != want {
			continue
		}
		obj, err := c.ledger.GetObject(ctx, ch.ObjectID)
		if err != nil {
			c.logger.Warn(ctx, "record object lookup failed", "error", common.SanitizeAddresses(err.Error()))
			continue
		}
		full, err := recordFromObject(*obj)
		if err != nil || full.BlobID != rec.BlobID {
			continue
		}
		rec.FileType = full.FileType
		rec.FileSize = full.FileSize
		rec.ExpiresAt = full.ExpiresAt
		rec.ObjectID = full.ObjectID
		rec.ObjectVersion = full.ObjectVersion
		return
	}
}

// QueryByUploader filters the most recent UploaderScanLimit events by
// uploader. Duplicated events are returned as they are.
func (c *Client) QueryByUploader(ctx context.Context, uploader ledger.Address) []models.FileRecord {
	events, err := c.ledger.QueryEvents(ctx, c.eventType(), UploaderScanLimit, true)
	if err != nil {
		c.logger.Warn(ctx, "event query failed", "error", common.SanitizeAddresses(err.Error()))
		return nil
	}

	var out []models.FileRecord
	for _, ev := range events {
		rec, err := recordFromEvent(ev)
		if err != nil {
			continue
		}
		if rec.Uploader == uploader {
			out = append(out, rec)
		}
	}
	return out
}

// QueryByRecipient lists the FileRecord objects owned by recipient, the
// highest object version first.
func (c *Client) QueryByRecipient(ctx context.Context, recipient ledger.Address) []models.FileRecord {
	objs, err := c.ledger.GetOwnedObjects(ctx, recipient, c.recordType())
	if err != nil {
		c.logger.Warn(ctx, "owned objects query failed", "error", common.SanitizeAddresses(err.Error()))
		return nil
	}

	out := make([]models.FileRecord, 0, len(objs))
	for _, o := range objs {
		rec, err := recordFromObject(o)
		if err != nil {
			c.logger.Debug(ctx, "skipping malformed record object", "object", o.ObjectID, "error", err.Error())
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ObjectVersion > out[j].ObjectVersion })
	return out
}

// CurrentEpoch returns the ledger's epoch; false when it could not be read.
func (c *Client) CurrentEpoch(ctx context.Context) (uint64, bool) {
	epoch, err := c.ledger.LatestEpoch(ctx)
	if err != nil {
		c.logger.Warn(ctx, "epoch query failed", "error", common.SanitizeAddresses(err.Error()))
		return 0, false
	}
	return epoch, true
}
