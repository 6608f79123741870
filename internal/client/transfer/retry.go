package transfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sealdrop/internal/client/models"
	"github.com/dmitrijs2005/sealdrop/internal/client/registry"
	"github.com/dmitrijs2005/sealdrop/internal/common"
	"github.com/dmitrijs2005/sealdrop/internal/ledger"
)

type orphanGroup struct {
	recipient ledger.Address
	retention uint64
	isPublic  bool
}

// RetryRegistration registers orphaned blobs again. Orphans sharing
// recipient, retention and visibility go into one transaction. It refuses
// to act when the registry already knows one of the blobs, since a second
// record for the same blob would be ambiguous.
func (o *Orchestrator) RetryRegistration(ctx context.Context, items []models.Orphan) (*UploadResult, error) {
	if len(items) == 0 {
		return nil, &Error{Stage: StageValidate, Kind: common.ErrValidation, Err: errors.New("nothing to register")}
	}
	if o.wallet == nil {
		return nil, &Error{Stage: StageValidate, Kind: common.ErrValidation, Err: errors.New("no wallet connected")}
	}
	uploader := o.wallet.Address()

	for _, it := range items {
		if it.Uploader != uploader {
			err := fmt.Errorf("blob %s was stored by another wallet", it.BlobID)
			return nil, newError(StageValidate, common.ErrValidation, err, nil)
		}
		if _, found := o.registry.QueryByBlobID(ctx, it.BlobID); found {
			err := fmt.Errorf("%w: blob %s already has a registry record", common.ErrRegistration, it.BlobID)
			return nil, newError(StageRegister, common.ErrRegistration, err, []string{it.BlobID})
		}
	}

	var order []orphanGroup
	groups := map[orphanGroup][]registry.FileEntry{}
	for _, it := range items {
		g := orphanGroup{recipient: it.Recipient, retention: it.RetentionEpochs, isPublic: it.IsPublic}
		if _, ok := groups[g]; !ok {
			order = append(order, g)
		}
		groups[g] = append(groups[g], registry.FileEntry{
			BlobID:   it.BlobID,
			FileName: it.FileName,
			FileType: it.FileType,
			FileSize: it.FileSize,
		})
	}

	res := &UploadResult{}
	for _, g := range order {
		entries := groups[g]
		digest, err := o.register(ctx, entries, g.recipient, g.retention, g.isPublic)
		if err != nil {
			return res, newError(StageRegister, common.ErrRegistration, err, entryIDs(entries))
		}
		recs := o.recordsFor(ctx, entries, uploader, g.recipient, g.retention, g.isPublic)
		o.cache(ctx, recs)
		if o.orphans != nil {
			if err := o.orphans.Delete(ctx, entryIDs(entries)...); err != nil {
				o.logger.Warn(ctx, "could not clear orphans", "error", err.Error())
			}
		}
		res.Digest = digest
		res.Records = append(res.Records, recs...)
		o.logger.Info(ctx, "orphans registered", "count", len(entries), "digest", digest)
	}
	return res, nil
}

func entryIDs(entries []registry.FileEntry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.BlobID
	}
	return ids
}
