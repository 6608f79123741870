// Package blobstore uploads and downloads opaque byte blobs on a
// content-addressed store and reports transfer progress.
//
// Two backends implement Store: WalrusStore speaks the Walrus
// publisher/aggregator HTTP API and S3Store keeps blobs in an S3-compatible
// bucket under their SHA-256 digest. Both are idempotent: storing the same
// bytes twice yields the same blob id.
//
// Failures wrap the sentinels of the common package (ErrUpload,
// ErrMalformedResponse, ErrNotFound, ErrDownload).
package blobstore

import "context"

// UploadProgressFunc receives the percentage of bytes sent and the estimated
// seconds remaining. It is a notification only and must return promptly.
type UploadProgressFunc func(percent int, secondsRemaining int)

// DownloadProgressFunc receives the percentage of bytes received.
type DownloadProgressFunc func(percent int)

// Store is a content-addressed blob store.
type Store interface {
	// Upload stores data for the given number of epochs and returns its blob id.
	Upload(ctx context.Context, data []byte, epochs uint64, onProgress UploadProgressFunc) (string, error)
	// Download fetches the blob's bytes.
	Download(ctx context.Context, blobID string, onProgress DownloadProgressFunc) ([]byte, error)
}
