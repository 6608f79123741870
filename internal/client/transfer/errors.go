package transfer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/sealdrop/internal/common"
)

// Error is the failure of a transfer session. Kind is one of the common
// sentinels, so errors.Is(err, common.ErrUpload) and friends work on it.
//
// BlobIDs lists blobs that reached the store before the failure. When Stage
// is StageRegister those blobs exist but no registry record points at them.
type Error struct {
	Stage   Stage
	Kind    error
	BlobIDs []string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s failed", e.Stage)
	if e.Err != nil {
		msg := e.Err.Error()
		if errors.Is(e.Kind, common.ErrAccessDenied) {
			msg = common.SanitizeAddresses(msg)
		}
		b.WriteString(": ")
		b.WriteString(msg)
	}
	if len(e.BlobIDs) > 0 {
		fmt.Fprintf(&b, " (stored blob ids: %s)", strings.Join(e.BlobIDs, ", "))
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Unregistered reports whether blobs were stored but never registered.
func (e *Error) Unregistered() bool {
	return e.Stage == StageRegister && len(e.BlobIDs) > 0
}

// kinds is checked in order; the first sentinel found in the chain wins.
var kinds = []error{
	common.ErrAccessDenied,
	common.ErrExpired,
	common.ErrValidation,
	common.ErrMalformedResponse,
	common.ErrNotFound,
	common.ErrDecryptionFailed,
	common.ErrRegistration,
	common.ErrMetadataUnavailable,
	common.ErrUpload,
	common.ErrDownload,
}

func kindOf(err, fallback error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return fallback
}

// classify builds an Error whose Kind is taken from err's chain.
func classify(stage Stage, fallback error, err error, blobIDs []string) *Error {
	return newError(stage, kindOf(err, fallback), err, blobIDs)
}

func newError(stage Stage, kind error, err error, blobIDs []string) *Error {
	var ids []string
	if len(blobIDs) > 0 {
		ids = append(ids, blobIDs...)
	}
	return &Error{Stage: stage, Kind: kind, BlobIDs: ids, Err: err}
}
