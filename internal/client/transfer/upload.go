package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/sealdrop/internal/client/models"
	"github.com/dmitrijs2005/sealdrop/internal/client/registry"
	"github.com/dmitrijs2005/sealdrop/internal/common"
	"github.com/dmitrijs2005/sealdrop/internal/ledger"
)

// UploadRequest describes one upload session. Recipient is the raw address
// text and is ignored in public mode, where the uploader is recorded instead.
type UploadRequest struct {
	Files           []File
	Mode            Mode
	Recipient       string
	RetentionEpochs uint64
}

type UploadResult struct {
	SessionID string
	Digest    string
	Records   []models.FileRecord
}

// BlobIDs lists the stored blobs in file order.
func (r *UploadResult) BlobIDs() []string {
	ids := make([]string, len(r.Records))
	for i, rec := range r.Records {
		ids[i] = rec.BlobID
	}
	return ids
}

// Upload stores every file and registers them all in a single transaction.
//
// Files are processed one after another. If a file fails, the remaining
// files are skipped and the error names the blobs already stored. The
// registration is built only once every file is stored; if it fails the
// stored blobs are kept as orphans for RetryRegistration.
func (o *Orchestrator) Upload(ctx context.Context, req UploadRequest, onProgress ProgressFunc) (*UploadResult, error) {
	recipient, verr := o.validateUpload(req)
	s := newSession(req.Files, req.Mode, recipient, onProgress)
	if verr != nil {
		return nil, o.fail(ctx, s, newError(StageValidate, common.ErrValidation, verr, nil))
	}
	uploader := o.wallet.Address()
	if req.Mode == ModePublic {
		recipient = uploader
		s.recipient = uploader
	}

	o.logger.Info(ctx, "upload started", "session", s.ID(), "files", len(req.Files), "mode", req.Mode.String())

	entries := make([]registry.FileEntry, 0, len(req.Files))

	for i, f := range req.Files {
		s.selectFile(i)

		data, size, err := o.prepare(ctx, s, f, recipient)
		if err != nil {
			return nil, o.fail(ctx, s, err.withBlobs(entryIDs(entries)))
		}

		s.transition(StateUploading)
		base, span := 0, 100
		if req.Mode == ModePrivate {
			base, span = 50, 50
		}
		blobID, uerr := o.store.Upload(ctx, data, req.RetentionEpochs, func(percent, secs int) {
			s.advance(base+percent*span/100, secs)
		})
		if uerr != nil {
			return nil, o.fail(ctx, s, classify(StageUpload, common.ErrUpload, uerr, entryIDs(entries)))
		}
		s.advance(100, 0)

		entries = append(entries, registry.FileEntry{
			BlobID:   blobID,
			FileName: f.Name,
			FileType: fileType(f),
			FileSize: size,
		})
		o.logger.Info(ctx, "file stored", "session", s.ID(), "index", i, "blob_id", blobID)
	}

	s.transition(StateRegistering)
	digest, rerr := o.register(ctx, entries, recipient, req.RetentionEpochs, req.Mode == ModePublic)
	if rerr != nil {
		o.keepOrphans(ctx, s.ID(), uploader, recipient, entries, req, rerr)
		return nil, o.fail(ctx, s, newError(StageRegister, common.ErrRegistration, rerr, entryIDs(entries)))
	}

	recs := o.recordsFor(ctx, entries, uploader, recipient, req.RetentionEpochs, req.Mode == ModePublic)
	o.cache(ctx, recs)

	s.transition(StateComplete)
	o.logger.Info(ctx, "upload complete", "session", s.ID(), "digest", digest)
	return &UploadResult{SessionID: s.ID(), Digest: digest, Records: recs}, nil
}

func (o *Orchestrator) validateUpload(req UploadRequest) (ledger.Address, error) {
	var recipient ledger.Address
	if len(req.Files) == 0 {
		return recipient, errors.New("no files selected")
	}
	for i, f := range req.Files {
		if f.Open == nil {
			return recipient, fmt.Errorf("file %d has no content", i+1)
		}
	}
	if o.wallet == nil {
		return recipient, errors.New("no wallet connected")
	}
	if req.RetentionEpochs == 0 {
		return recipient, errors.New("retention must be at least one epoch")
	}
	if req.Mode == ModePublic {
		return recipient, nil
	}
	if req.Recipient == "" {
		return recipient, errors.New("recipient address is required for private uploads")
	}
	recipient, err := ledger.ParseAddress(req.Recipient)
	if err != nil {
		return recipient, fmt.Errorf("recipient: %w", err)
	}
	if recipient.IsZero() {
		return recipient, errors.New("recipient address is required for private uploads")
	}
	return recipient, nil
}

// prepare returns the bytes to store for f and its plaintext size.
func (o *Orchestrator) prepare(ctx context.Context, s *Session, f File, recipient ledger.Address) ([]byte, uint64, *Error) {
	rc, err := f.Open()
	if err != nil {
		return nil, 0, newError(StageValidate, common.ErrValidation, fmt.Errorf("open %s: %w", f.Name, err), nil)
	}
	defer rc.Close()

	cr := &countingReader{r: rc}

	if s.Mode() == ModePublic {
		data, err := io.ReadAll(cr)
		if err != nil {
			return nil, 0, newError(StageValidate, common.ErrValidation, fmt.Errorf("read %s: %w", f.Name, err), nil)
		}
		return data, uint64(len(data)), nil
	}

	s.transition(StateEncrypting)
	payload, err := o.engine.EncryptStreaming(ctx, cr, f.Size, recipient, func(percent int) {
		s.advance(percent/2, 0)
	})
	if err != nil {
		return nil, 0, classify(StageEncrypt, common.ErrUpload, err, nil)
	}
	return payload, uint64(cr.n), nil
}

func (e *Error) withBlobs(ids []string) *Error {
	if len(ids) > 0 {
		e.BlobIDs = append([]string(nil), ids...)
	}
	return e
}

func (o *Orchestrator) register(ctx context.Context, entries []registry.FileEntry, recipient ledger.Address, retention uint64, isPublic bool) (string, error) {
	intent, err := o.registry.RegisterFiles(entries, recipient, retention, isPublic)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrRegistration, err)
	}
	res, err := o.wallet.SignAndExecute(ctx, intent)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrRegistration, err)
	}
	return res.Digest, nil
}

func (o *Orchestrator) recordsFor(ctx context.Context, entries []registry.FileEntry, uploader, recipient ledger.Address, retention uint64, isPublic bool) []models.FileRecord {
	var expires uint64
	if epoch, ok := o.registry.CurrentEpoch(ctx); ok {
		expires = epoch + retention
	}
	now := uint64(o.now().UnixMilli())

	recs := make([]models.FileRecord, len(entries))
	for i, e := range entries {
		recs[i] = models.FileRecord{
			BlobID:     e.BlobID,
			Uploader:   uploader,
			Recipient:  recipient,
			FileName:   e.FileName,
			FileType:   e.FileType,
			FileSize:   e.FileSize,
			UploadedAt: now,
			ExpiresAt:  expires,
			IsPublic:   isPublic,
		}
	}
	return recs
}

func (o *Orchestrator) cache(ctx context.Context, recs []models.FileRecord) {
	if o.records == nil || len(recs) == 0 {
		return
	}
	if err := o.records.SaveAll(ctx, recs); err != nil {
		o.logger.Warn(ctx, "could not cache file records", "error", err.Error())
	}
}

func (o *Orchestrator) keepOrphans(ctx context.Context, sessionID string, uploader, recipient ledger.Address, entries []registry.FileEntry, req UploadRequest, cause error) {
	if o.orphans == nil || len(entries) == 0 {
		return
	}
	now := o.now()
	items := make([]models.Orphan, len(entries))
	for i, e := range entries {
		items[i] = models.Orphan{
			BlobID:          e.BlobID,
			SessionID:       sessionID,
			Uploader:        uploader,
			Recipient:       recipient,
			FileName:        e.FileName,
			FileType:        e.FileType,
			FileSize:        e.FileSize,
			RetentionEpochs: req.RetentionEpochs,
			IsPublic:        req.Mode == ModePublic,
			Reason:          common.SanitizeAddresses(cause.Error()),
			CreatedAt:       now,
		}
	}
	if err := o.orphans.AddAll(ctx, items); err != nil {
		o.logger.Error(ctx, "could not record unregistered blobs", "error", err.Error())
	}
}

func fileType(f File) string {
	if f.Type == "" {
		return common.DefaultContentType
	}
	return f.Type
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
