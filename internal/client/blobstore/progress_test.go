package blobstore

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

type progressEvent struct {
	percent   int
	remaining int
}

func TestUploadTracker_TenMegabytesInOneMegabyteSteps(t *testing.T) {
	const mb = 1 << 20
	clock := &fakeClock{t: time.Unix(0, 0)}
	var events []progressEvent

	tr := newUploadTracker(10*mb, clock.now, func(p, r int) {
		events = append(events, progressEvent{p, r})
	})
	for i := 0; i < 10; i++ {
		clock.t = clock.t.Add(time.Second)
		tr.advance(mb)
	}
	tr.finish()

	require.Len(t, events, 10)
	for i := 1; i < len(events); i++ {
		assert.GreaterOrEqual(t, events[i].percent, events[i-1].percent)
	}
	assert.Equal(t, 10, events[0].percent)
	assert.Equal(t, 9, events[0].remaining, "1MB/s with 9MB left")
	assert.Equal(t, progressEvent{100, 0}, events[9])
}

func TestUploadTracker_FinishReportsHundredOnce(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	var events []progressEvent
	tr := newUploadTracker(100, clock.now, func(p, r int) { events = append(events, progressEvent{p, r}) })

	tr.advance(50)
	tr.finish()
	tr.finish()

	require.Len(t, events, 2)
	assert.Equal(t, 100, events[1].percent)
}

func TestUploadTracker_RewindStaysMonotonic(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	var percents []int
	tr := newUploadTracker(100, clock.now, func(p, _ int) { percents = append(percents, p) })

	pr := &progressReader{r: bytes.NewReader(make([]byte, 100)), tracker: tr}
	_, err := io.Copy(io.Discard, pr)
	require.NoError(t, err)
	_, err = pr.Seek(0, io.SeekStart)
	require.NoError(t, err)
	_, err = io.CopyN(io.Discard, pr, 10)
	require.NoError(t, err)

	for i := 1; i < len(percents); i++ {
		assert.GreaterOrEqual(t, percents[i], percents[i-1])
	}
}

func TestUploadTracker_NilCallback(t *testing.T) {
	tr := newUploadTracker(10, time.Now, nil)
	tr.advance(5)
	tr.finish()
}

type chunkReader struct {
	data  []byte
	chunk int
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(c.data) == 0 {
		return 0, io.EOF
	}
	n := min(c.chunk, len(p), len(c.data))
	copy(p, c.data[:n])
	c.data = c.data[n:]
	return n, nil
}

func TestReadWithProgress_KnownLength(t *testing.T) {
	data := bytes.Repeat([]byte{7}, 200*1024)
	var percents []int

	got, err := readWithProgress(&chunkReader{data: data, chunk: 1000}, int64(len(data)), func(p int) {
		percents = append(percents, p)
	})
	require.NoError(t, err)
	assert.Equal(t, data, got)
	require.NotEmpty(t, percents)
	assert.Equal(t, 100, percents[len(percents)-1])
	for i := 1; i < len(percents); i++ {
		assert.Greater(t, percents[i], percents[i-1])
	}
}

func TestReadWithProgress_UnknownLengthIsBulk(t *testing.T) {
	called := false
	got, err := readWithProgress(bytes.NewReader([]byte("abc")), -1, func(int) { called = true })
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
	assert.False(t, called)
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("reset by peer") }

func TestReadWithProgress_PropagatesError(t *testing.T) {
	_, err := readWithProgress(errReader{}, 10, func(int) {})
	require.Error(t, err)
}
