package blobstore

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/dmitrijs2005/sealdrop/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWalrus is a content-addressed in-memory publisher and aggregator.
type fakeWalrus struct {
	mu       sync.Mutex
	blobs    map[string][]byte
	epochs   []string
	putCount int
}

func newFakeWalrus(t *testing.T) (*fakeWalrus, *httptest.Server) {
	t.Helper()
	f := &fakeWalrus{blobs: map[string][]byte{}}
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /v1/blobs", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		f.putCount++
		f.epochs = append(f.epochs, r.URL.Query().Get("epochs"))
		sum := sha256.Sum256(body)
		id := base64.RawURLEncoding.EncodeToString(sum[:])
		if _, ok := f.blobs[id]; ok {
			_, _ = w.Write([]byte(`{"alreadyCertified":{"blobId":"` + id + `","endEpoch":10}}`))
			return
		}
		f.blobs[id] = body
		_, _ = w.Write([]byte(`{"newlyCreated":{"blobObject":{"blobId":"` + id + `","size":1}}}`))
	})
	mux.HandleFunc("GET /v1/blobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		b, ok := f.blobs[r.PathValue("id")]
		f.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(b)))
		_, _ = w.Write(b)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func TestWalrus_UploadDownloadRoundTrip(t *testing.T) {
	fake, srv := newFakeWalrus(t)
	s := NewWalrusStore(srv.URL+"/", srv.URL)
	data := make([]byte, 300*1024)
	for i := range data {
		data[i] = byte(i)
	}

	var (
		mu sync.Mutex
		up []int
	)
	id, err := s.Upload(context.Background(), data, 3, func(p, _ int) {
		mu.Lock()
		up = append(up, p)
		mu.Unlock()
	})
	require.NoError(t, err)
	require.NotEmpty(t, up)
	assert.Equal(t, 100, up[len(up)-1])
	assert.Equal(t, []string{"3"}, fake.epochs)

	var down []int
	got, err := s.Download(context.Background(), id, func(p int) { down = append(down, p) })
	require.NoError(t, err)
	assert.Equal(t, data, got)
	require.NotEmpty(t, down)
	assert.Equal(t, 100, down[len(down)-1])
}

func TestWalrus_UploadIsIdempotent(t *testing.T) {
	_, srv := newFakeWalrus(t)
	s := NewWalrusStore(srv.URL, srv.URL)

	id1, err := s.Upload(context.Background(), []byte("same bytes"), 1, nil)
	require.NoError(t, err)
	id2, err := s.Upload(context.Background(), []byte("same bytes"), 1, nil)
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
}

func TestWalrus_UploadErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, "oops", common.ErrUpload},
		{"bad request", http.StatusBadRequest, "bad epochs", common.ErrUpload},
		{"no id", http.StatusOK, `{"somethingElse":{}}`, common.ErrMalformedResponse},
		{"empty id", http.StatusOK, `{"newlyCreated":{"blobObject":{"blobId":""}}}`, common.ErrMalformedResponse},
		{"not json", http.StatusOK, `<html>`, common.ErrMalformedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewWalrusStore(srv.URL, srv.URL).Upload(context.Background(), []byte("x"), 1, nil)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestWalrus_UploadNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewWalrusStore(url, url).Upload(context.Background(), []byte("x"), 1, nil)
	require.ErrorIs(t, err, common.ErrUpload)
}

func TestWalrus_DownloadErrors(t *testing.T) {
	_, srv := newFakeWalrus(t)
	s := NewWalrusStore(srv.URL, srv.URL)

	_, err := s.Download(context.Background(), "missing", nil)
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = s.Download(context.Background(), "", nil)
	require.ErrorIs(t, err, common.ErrDownload)

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway", http.StatusBadGateway)
	}))
	defer broken.Close()
	_, err = NewWalrusStore(broken.URL, broken.URL).Download(context.Background(), "id", nil)
	require.ErrorIs(t, err, common.ErrDownload)
	assert.NotErrorIs(t, err, common.ErrNotFound)
}

func TestWalrus_DownloadWithoutContentLength(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Transfer-Encoding", "chunked")
		flusher := w.(http.Flusher)
		_, _ = w.Write([]byte("part1-"))
		flusher.Flush()
		_, _ = w.Write([]byte("part2"))
	}))
	defer srv.Close()

	called := false
	got, err := NewWalrusStore(srv.URL, srv.URL).Download(context.Background(), "id", func(int) { called = true })
	require.NoError(t, err)
	assert.Equal(t, "part1-part2", string(got))
	assert.False(t, called)
}

func TestWalrus_CancelledContext(t *testing.T) {
	_, srv := newFakeWalrus(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewWalrusStore(srv.URL, srv.URL).Upload(ctx, []byte("x"), 1, nil)
	require.ErrorIs(t, err, common.ErrUpload)
	require.ErrorIs(t, err, context.Canceled)
}
