package blobstore

import (
	"io"
	"math"
	"sync"
	"time"
)

// uploadTracker turns byte counts into percent and ETA notifications.
// rate = sent / elapsed, remaining = (total - sent) / rate. HTTP transports
// read the body on their own goroutine, so the state is guarded.
type uploadTracker struct {
	mu    sync.Mutex
	total int64
	sent  int64
	start time.Time
	now   func() time.Time
	last  int
	fn    UploadProgressFunc
}

func newUploadTracker(total int64, now func() time.Time, fn UploadProgressFunc) *uploadTracker {
	return &uploadTracker{total: total, start: now(), now: now, last: -1, fn: fn}
}

func (t *uploadTracker) advance(n int64) {
	if t.fn == nil || n <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent += n
	if t.sent > t.total {
		t.sent = t.total
	}

	percent := 100
	if t.total > 0 {
		percent = int(math.Round(float64(t.sent) / float64(t.total) * 100))
	}
	if percent < t.last {
		percent = t.last
	}

	remaining := 0
	elapsed := t.now().Sub(t.start).Seconds()
	if elapsed > 0 && t.sent > 0 {
		rate := float64(t.sent) / elapsed
		remaining = int(math.Ceil(float64(t.total-t.sent) / rate))
	}

	t.last = percent
	t.fn(percent, remaining)
}

// finish reports completion if the last notification fell short of it.
func (t *uploadTracker) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fn != nil && t.last < 100 {
		t.last = 100
		t.fn(100, 0)
	}
}

// rewind is used when a retrying transport re-reads the body from offset.
func (t *uploadTracker) rewind(offset int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = offset
}

// progressReader reports every Read to an uploadTracker. It forwards Seek
// so SDKs that need a seekable body can still use it.
type progressReader struct {
	r       io.ReadSeeker
	tracker *uploadTracker
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.tracker.advance(int64(n))
	return n, err
}

func (p *progressReader) Seek(offset int64, whence int) (int64, error) {
	pos, err := p.r.Seek(offset, whence)
	if err == nil {
		p.tracker.rewind(pos)
	}
	return pos, err
}

const downloadChunkSize = 64 * 1024

// maxPrealloc bounds the buffer reserved up front from a Content-Length.
const maxPrealloc = 64 << 20

// readWithProgress reads r to the end. With a known total it reports the
// received percentage after every chunk; otherwise it is a plain bulk read.
func readWithProgress(r io.Reader, total int64, fn DownloadProgressFunc) ([]byte, error) {
	if total <= 0 || fn == nil {
		return io.ReadAll(r)
	}

	buf := make([]byte, 0, min(total, maxPrealloc))
	chunk := make([]byte, downloadChunkSize)
	var received int64
	last := -1

	for {
		n, err := r.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			received += int64(n)
			percent := int(math.Round(float64(min(received, total)) / float64(total) * 100))
			if percent > last {
				last = percent
				fn(percent)
			}
		}
		if err == io.EOF {
			return buf, nil
		}
		if err != nil {
			return buf, err
		}
	}
}
