package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/sealdrop/internal/common"
)

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	meta    map[string]map[string]string
	puts    int

	headErr error
	putErr  error
	getErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, meta: map[string]map[string]string{}}
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	f.objects[aws.ToString(in.Key)] = b
	f.meta[aws.ToString(in.Key)] = in.Metadata
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(b)),
		ContentLength: aws.Int64(int64(len(b))),
	}, nil
}

func TestS3Store_RoundTrip(t *testing.T) {
	fake := newFakeS3()
	s := newS3Store(fake, "bucket", "blobs", nil)
	data := bytes.Repeat([]byte("sealed"), 50_000)

	var percents []int
	id, err := s.Upload(context.Background(), data, 14, func(p, _ int) { percents = append(percents, p) })
	require.NoError(t, err)
	assert.Equal(t, ContentID(data), id)
	assert.Equal(t, 100, percents[len(percents)-1])
	assert.Equal(t, "14", fake.meta["blobs/"+id]["epochs"])

	got, err := s.Download(context.Background(), id, nil)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestS3Store_UploadDeduplicates(t *testing.T) {
	fake := newFakeS3()
	s := newS3Store(fake, "bucket", "", nil)

	id1, err := s.Upload(context.Background(), []byte("abc"), 1, nil)
	require.NoError(t, err)

	var last int
	id2, err := s.Upload(context.Background(), []byte("abc"), 1, func(p, _ int) { last = p })
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.Equal(t, 1, fake.puts)
	assert.Equal(t, 100, last)
}

func TestS3Store_EpochsAreMetadataOnly(t *testing.T) {
	fake := newFakeS3()
	s := newS3Store(fake, "bucket", "", nil)

	id, err := s.Upload(context.Background(), []byte("abc"), 3, nil)
	require.NoError(t, err)
	_, err = s.Upload(context.Background(), []byte("abc"), 50, nil)
	require.NoError(t, err)

	assert.Equal(t, "3", fake.meta[id]["epochs"], "dedup hit must not rewrite metadata")
	got, err := s.Download(context.Background(), id, nil)
	require.NoError(t, err, "the store never refuses a blob on its own")
	assert.Equal(t, []byte("abc"), got)
}

func TestS3Store_Errors(t *testing.T) {
	boom := errors.New("boom")

	t.Run("head failure", func(t *testing.T) {
		fake := newFakeS3()
		fake.headErr = boom
		_, err := newS3Store(fake, "b", "", nil).Upload(context.Background(), []byte("x"), 1, nil)
		require.ErrorIs(t, err, common.ErrUpload)
		require.ErrorIs(t, err, boom)
	})

	t.Run("put failure", func(t *testing.T) {
		fake := newFakeS3()
		fake.putErr = boom
		_, err := newS3Store(fake, "b", "", nil).Upload(context.Background(), []byte("x"), 1, nil)
		require.ErrorIs(t, err, common.ErrUpload)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := newS3Store(newFakeS3(), "b", "", nil).Download(context.Background(), "nope", nil)
		require.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("get failure", func(t *testing.T) {
		fake := newFakeS3()
		fake.getErr = boom
		_, err := newS3Store(fake, "b", "", nil).Download(context.Background(), "id", nil)
		require.ErrorIs(t, err, common.ErrDownload)
		assert.NotErrorIs(t, err, common.ErrNotFound)
	})
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Options{Region: "us-east-1"}, nil)
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestContentID_Stable(t *testing.T) {
	assert.Equal(t, ContentID([]byte("a")), ContentID([]byte("a")))
	assert.NotEqual(t, ContentID([]byte("a")), ContentID([]byte("b")))
	assert.Len(t, ContentID(nil), 43)
}
