// Package models defines the client-side data types of sealdrop: registry
// file records and the orphaned uploads kept for later re-registration.
package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sealdrop/internal/ledger"
)

// ErrInvalidRecord is returned by Validate for records that must be rejected.
var ErrInvalidRecord = errors.New("invalid file record")

// FileRecord is one immutable registry entry describing a stored blob.
//
// Recipient only carries meaning when IsPublic is false; public records name
// the uploader there. ExpiresAt is a ledger epoch, 0 meaning never.
// FileName and FileType are whatever the uploader wrote and must be treated
// as untrusted display data.
type FileRecord struct {
	BlobID     string
	Uploader   ledger.Address
	Recipient  ledger.Address
	FileName   string
	FileType   string
	FileSize   uint64
	UploadedAt uint64 // unix milliseconds
	ExpiresAt  uint64
	IsPublic   bool

	// Set when the record came from an object query.
	ObjectID      string
	ObjectVersion uint64
}

// Validate rejects records missing the fields every consumer relies on.
func (r FileRecord) Validate() error {
	if r.BlobID == "" {
		return fmt.Errorf("%w: empty blob id", ErrInvalidRecord)
	}
	if r.Uploader.IsZero() {
		return fmt.Errorf("%w: missing uploader", ErrInvalidRecord)
	}
	if !r.IsPublic && r.Recipient.IsZero() {
		return fmt.Errorf("%w: private record without recipient", ErrInvalidRecord)
	}
	return nil
}

// IsExpired reports whether the record's retention ended at or before currentEpoch.
func (r FileRecord) IsExpired(currentEpoch uint64) bool {
	return r.ExpiresAt != 0 && r.ExpiresAt <= currentEpoch
}

// UploadedTime converts UploadedAt to a time.Time.
func (r FileRecord) UploadedTime() time.Time {
	return time.UnixMilli(int64(r.UploadedAt))
}

// DisplayName falls back to a name derived from the blob id when the
// uploader recorded none.
func (r FileRecord) DisplayName() string {
	if r.FileName != "" {
		return r.FileName
	}
	return DefaultFileName(r.BlobID)
}

// DefaultFileName is the name used for blobs without a recorded name.
func DefaultFileName(blobID string) string {
	short := blobID
	if len(short) > 6 {
		short = short[:6]
	}
	return "walrus_file_" + short
}
