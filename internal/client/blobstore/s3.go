package blobstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"path"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dmitrijs2005/sealdrop/internal/common"
	"github.com/dmitrijs2005/sealdrop/internal/logging"
)

// s3API is the subset of *s3.Client used by S3Store.
type s3API interface {
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type S3Options struct {
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	Bucket       string
	Prefix       string
	UsePathStyle bool
}

// S3Store keeps blobs in a bucket keyed by the unpadded base64url SHA-256 of
// their content. Objects are never deleted or expired by the store: the
// requested epochs are recorded as object metadata for reference, and the
// registry record's expiry epoch decides whether a download is allowed.
// A deduplicated upload keeps the metadata of the first write.
type S3Store struct {
	client s3API
	bucket string
	prefix string
	logger logging.Logger
	now    func() time.Time
}

func NewS3Store(ctx context.Context, o S3Options, logger logging.Logger) (*S3Store, error) {
	if o.Bucket == "" {
		return nil, fmt.Errorf("%w: s3 bucket is not set", common.ErrValidation)
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(o.Region)}
	if o.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(so *s3.Options) {
		if o.Endpoint != "" {
			so.BaseEndpoint = aws.String(o.Endpoint)
		}
		so.UsePathStyle = o.UsePathStyle
	})

	return newS3Store(client, o.Bucket, o.Prefix, logger), nil
}

func newS3Store(client s3API, bucket, prefix string, logger logging.Logger) *S3Store {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger.With("module", "s3"),
		now:    time.Now,
	}
}

// ContentID is the blob id S3Store assigns to data.
func ContentID(data []byte) string {
	sum := sha256.Sum256(data)
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func (s *S3Store) key(blobID string) string {
	if s.prefix == "" {
		return blobID
	}
	return path.Join(s.prefix, blobID)
}

func (s *S3Store) Upload(ctx context.Context, data []byte, epochs uint64, onProgress UploadProgressFunc) (string, error) {
	id := ContentID(data)
	key := s.key(id)
	tracker := newUploadTracker(int64(len(data)), s.now, onProgress)

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		tracker.finish()
		s.logger.Info(ctx, "blob already stored", "blob_id", id)
		return id, nil
	}
	var nf *types.NotFound
	if !errors.As(err, &nf) {
		return "", fmt.Errorf("%w: head object: %w", common.ErrUpload, err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          &progressReader{r: bytes.NewReader(data), tracker: tracker},
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(common.DefaultContentType),
		Metadata:      map[string]string{"epochs": strconv.FormatUint(epochs, 10)},
	})
	if err != nil {
		return "", fmt.Errorf("%w: put object: %w", common.ErrUpload, err)
	}

	tracker.finish()
	s.logger.Info(ctx, "blob stored", "blob_id", id, "bytes", len(data))
	return id, nil
}

func (s *S3Store) Download(ctx context.Context, blobID string, onProgress DownloadProgressFunc) ([]byte, error) {
	if blobID == "" {
		return nil, fmt.Errorf("%w: empty blob id", common.ErrDownload)
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(blobID)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: blob %s", common.ErrNotFound, blobID)
		}
		return nil, fmt.Errorf("%w: get object: %w", common.ErrDownload, err)
	}
	defer out.Body.Close()

	data, err := readWithProgress(out.Body, aws.ToInt64(out.ContentLength), onProgress)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", common.ErrDownload, err)
	}
	return data, nil
}
