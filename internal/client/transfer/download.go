package transfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sealdrop/internal/client/models"
	"github.com/dmitrijs2005/sealdrop/internal/common"
	"github.com/dmitrijs2005/sealdrop/internal/ledger"
)

// MetadataSource tells where a download's record came from.
type MetadataSource string

const (
	SourceRegistry MetadataSource = "registry"
	SourceKnown    MetadataSource = "known"
	SourceCache    MetadataSource = "cache"
)

// DownloadRequest names the blob to fetch. Known is metadata the caller
// already holds, for instance from a listing; it is used only when the
// registry has no record.
type DownloadRequest struct {
	BlobID string
	Known  *models.FileRecord
}

type Download struct {
	SessionID string
	Record    models.FileRecord
	Source    MetadataSource
	Data      []byte
}

// RequestDownload resolves a blob's metadata, checks expiry and access, and
// returns the plaintext. Expired and foreign private files fail before the
// blob store is contacted.
func (o *Orchestrator) RequestDownload(ctx context.Context, req DownloadRequest, onProgress ProgressFunc) (*Download, error) {
	s := newSession([]File{{Name: models.DefaultFileName(req.BlobID)}}, ModePrivate, ledger.Address{}, onProgress)
	if req.BlobID == "" {
		return nil, o.fail(ctx, s, newError(StageValidate, common.ErrValidation, errors.New("blob id is required"), nil))
	}

	s.transition(StateFetchingMetadata)
	rec, source, ok := o.resolveMetadata(ctx, req)
	if !ok {
		err := fmt.Errorf("no record for blob %s in recent registry history or local cache", req.BlobID)
		return nil, o.fail(ctx, s, newError(StageMetadata, common.ErrMetadataUnavailable, err, nil))
	}
	s.files[0].Name = rec.DisplayName()
	if rec.IsPublic {
		s.mode = ModePublic
	}
	s.recipient = rec.Recipient

	if rec.ExpiresAt != 0 {
		epoch, known := o.registry.CurrentEpoch(ctx)
		if !known {
			o.logger.Warn(ctx, "current epoch unknown, skipping expiry check", "blob_id", req.BlobID)
		} else if rec.IsExpired(epoch) {
			err := fmt.Errorf("%w: retention ended at epoch %d (current %d)", common.ErrExpired, rec.ExpiresAt, epoch)
			return nil, o.fail(ctx, s, newError(StageExpired, common.ErrExpired, err, nil))
		}
	}

	var requester ledger.Address
	if !rec.IsPublic {
		if o.wallet == nil {
			return nil, o.fail(ctx, s, newError(StageValidate, common.ErrValidation, errors.New("a wallet is required for private files"), nil))
		}
		requester = o.wallet.Address()
		if requester != rec.Recipient {
			err := fmt.Errorf("%w: the connected wallet is not the recipient of this file", common.ErrAccessDenied)
			return nil, o.fail(ctx, s, newError(StageAccess, common.ErrAccessDenied, err, nil))
		}
	}

	s.transition(StateFetchingBlob)
	span := 100
	if !rec.IsPublic {
		span = 90
	}
	data, err := o.store.Download(ctx, req.BlobID, func(percent int) {
		s.advance(percent*span/100, 0)
	})
	if err != nil {
		return nil, o.fail(ctx, s, classify(StageDownload, common.ErrDownload, err, nil))
	}

	if !rec.IsPublic {
		s.transition(StateDecrypting)
		plain, err := o.engine.DecryptWithSigner(ctx, data, requester, o.wallet.SignPersonalMessage)
		if err != nil {
			return nil, o.fail(ctx, s, classify(StageDecrypt, common.ErrDecryptionFailed, err, nil))
		}
		data = plain
	}

	s.transition(StateReady)
	o.logger.Info(ctx, "download ready", "session", s.ID(), "blob_id", req.BlobID, "source", string(source))
	return &Download{SessionID: s.ID(), Record: *rec, Source: source, Data: data}, nil
}

func (o *Orchestrator) resolveMetadata(ctx context.Context, req DownloadRequest) (*models.FileRecord, MetadataSource, bool) {
	if rec, ok := o.registry.QueryByBlobID(ctx, req.BlobID); ok {
		return rec, SourceRegistry, true
	}
	if req.Known != nil {
		rec := *req.Known
		rec.BlobID = req.BlobID
		// The uploader may be unknown; the access decision needs only
		// the visibility and recipient.
		if rec.IsPublic || !rec.Recipient.IsZero() {
			return &rec, SourceKnown, true
		}
	}
	if o.records != nil {
		rec, err := o.records.Get(ctx, req.BlobID)
		if err != nil {
			o.logger.Warn(ctx, "record cache lookup failed", "error", err.Error())
		} else if rec != nil {
			return rec, SourceCache, true
		}
	}
	return nil, "", false
}

// BatchItem is the outcome for one blob of a batch download.
type BatchItem struct {
	BlobID   string
	Download *Download
	Err      error
}

// RequestBatchDownload fetches each blob in turn. A failure affects only its
// own item.
func (o *Orchestrator) RequestBatchDownload(ctx context.Context, blobIDs []string, onProgress ProgressFunc) ([]BatchItem, error) {
	if len(blobIDs) == 0 {
		return nil, &Error{Stage: StageValidate, Kind: common.ErrValidation, Err: errors.New("no blob ids given")}
	}
	items := make([]BatchItem, 0, len(blobIDs))
	for _, id := range blobIDs {
		if err := ctx.Err(); err != nil {
			items = append(items, BatchItem{BlobID: id, Err: classify(StageDownload, common.ErrDownload, err, nil)})
			continue
		}
		d, err := o.RequestDownload(ctx, DownloadRequest{BlobID: id}, onProgress)
		items = append(items, BatchItem{BlobID: id, Download: d, Err: err})
	}
	return items, nil
}
