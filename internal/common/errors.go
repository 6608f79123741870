// Package common defines shared constants, helpers and the sentinel errors
// of the sealdrop transfer pipeline. Components wrap these values with
// fmt.Errorf("...: %w", ...); callers should use errors.Is to match them.
package common

import "errors"

var (
	// Precondition errors, raised before any network call.
	ErrValidation = errors.New("validation error")

	// Blob store errors.
	ErrUpload            = errors.New("upload failed")
	ErrDownload          = errors.New("download failed")
	ErrNotFound          = errors.New("not found")
	ErrMalformedResponse = errors.New("malformed response")

	// Registry errors.
	ErrRegistration        = errors.New("registration failed")
	ErrMetadataUnavailable = errors.New("metadata unavailable")

	// Access and decryption errors.
	ErrAccessDenied     = errors.New("access denied")
	ErrDecryptionFailed = errors.New("decryption failed")
	ErrSessionExpired   = errors.New("session expired")

	// Retention errors.
	ErrExpired = errors.New("file has expired")
)
