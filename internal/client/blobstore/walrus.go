package blobstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/sealdrop/internal/common"
	"github.com/dmitrijs2005/sealdrop/internal/logging"
)

const (
	DefaultPublisherURL  = "https://publisher.walrus-testnet.walrus.space"
	DefaultAggregatorURL = "https://aggregator.walrus-testnet.walrus.space"

	maxErrorBody = 512
)

// WalrusStore talks to a Walrus publisher (writes) and aggregator (reads).
type WalrusStore struct {
	publisherURL  string
	aggregatorURL string
	httpClient    *http.Client
	logger        logging.Logger
	now           func() time.Time
}

type WalrusOption func(*WalrusStore)

func WithHTTPClient(c *http.Client) WalrusOption {
	return func(s *WalrusStore) { s.httpClient = c }
}

func WithLogger(l logging.Logger) WalrusOption {
	return func(s *WalrusStore) { s.logger = l }
}

func NewWalrusStore(publisherURL, aggregatorURL string, opts ...WalrusOption) *WalrusStore {
	s := &WalrusStore{
		publisherURL:  strings.TrimRight(publisherURL, "/"),
		aggregatorURL: strings.TrimRight(aggregatorURL, "/"),
		httpClient:    http.DefaultClient,
		logger:        logging.NewDiscardLogger(),
		now:           time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	s.logger = s.logger.With("module", "walrus")
	return s
}

// storeResponse covers both success shapes of PUT /v1/blobs.
type storeResponse struct {
	NewlyCreated *struct {
		BlobObject struct {
			BlobID string `json:"blobId"`
		} `json:"blobObject"`
	} `json:"newlyCreated"`
	AlreadyCertified *struct {
		BlobID string `json:"blobId"`
	} `json:"alreadyCertified"`
}

// blobID normalizes the two success shapes. The bool is true when the
// publisher already had the blob.
func (r storeResponse) blobID() (string, bool) {
	if r.NewlyCreated != nil && r.NewlyCreated.BlobObject.BlobID != "" {
		return r.NewlyCreated.BlobObject.BlobID, false
	}
	if r.AlreadyCertified != nil && r.AlreadyCertified.BlobID != "" {
		return r.AlreadyCertified.BlobID, true
	}
	return "", false
}

// Upload stores data with a single PUT {publisher}/v1/blobs?epochs=N.
func (s *WalrusStore) Upload(ctx context.Context, data []byte, epochs uint64, onProgress UploadProgressFunc) (string, error) {
	u := s.publisherURL + "/v1/blobs?epochs=" + strconv.FormatUint(epochs, 10)

	tracker := newUploadTracker(int64(len(data)), s.now, onProgress)
	body := &progressReader{r: bytes.NewReader(data), tracker: tracker}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUpload, err)
	}
	req.ContentLength = int64(len(data))
	req.Header.Set("Content-Type", common.DefaultContentType)

	s.logger.Debug(ctx, "uploading blob", "bytes", len(data), "epochs", epochs)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrUpload, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", common.ErrUpload, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s; body: %s", common.ErrUpload, resp.Status, snippet(raw))
	}

	var sr storeResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}
	id, dedup := sr.blobID()
	if id == "" {
		return "", fmt.Errorf("%w: no blob id in publisher response", common.ErrMalformedResponse)
	}

	tracker.finish()
	s.logger.Info(ctx, "blob stored", "blob_id", id, "already_certified", dedup)
	return id, nil
}

// Download fetches GET {aggregator}/v1/blobs/{id}.
func (s *WalrusStore) Download(ctx context.Context, blobID string, onProgress DownloadProgressFunc) ([]byte, error) {
	if blobID == "" {
		return nil, fmt.Errorf("%w: empty blob id", common.ErrDownload)
	}
	u := s.aggregatorURL + "/v1/blobs/" + url.PathEscape(blobID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDownload, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: blob %s", common.ErrNotFound, blobID)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: %s; body: %s", common.ErrDownload, resp.Status, snippet(raw))
	}

	data, err := readWithProgress(resp.Body, resp.ContentLength, onProgress)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", common.ErrDownload, err)
	}

	s.logger.Debug(ctx, "blob fetched", "blob_id", blobID, "bytes", len(data))
	return data, nil
}

func snippet(b []byte) string {
	if len(b) > maxErrorBody {
		b = b[:maxErrorBody]
	}
	return strings.TrimSpace(string(b))
}
