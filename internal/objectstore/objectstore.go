// Package objectstore stores rendered exports in an S3-compatible bucket
// through minio-go.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/goliatone/go-richdoc/internal/logging"
	"github.com/goliatone/go-richdoc/pkg/interfaces"
)

var (
	ErrEndpointRequired = errors.New("objectstore: endpoint is required")
	ErrBucketRequired   = errors.New("objectstore: bucket is required")
	ErrKeyRequired      = errors.New("objectstore: object key is required")
	ErrClientRequired   = errors.New("objectstore: client is required")
)

// Config holds connection settings.
type Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
}

// BucketAPI is the subset of *minio.Client used by Store.
type BucketAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

var _ BucketAPI = (*minio.Client)(nil)

// NewMinioClient dials the endpoint with static credentials.
func NewMinioClient(cfg Config) (*minio.Client, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, ErrEndpointRequired
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("objectstore: connect %s: %w", endpoint, err)
	}
	return client, nil
}

// Store writes objects into a single bucket.
type Store struct {
	api      BucketAPI
	bucket   string
	region   string
	attempts int
	backoff  time.Duration
	logger   interfaces.Logger
}

var _ interfaces.ObjectStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRegion sets the region used when the bucket has to be created.
func WithRegion(region string) Option {
	return func(s *Store) {
		s.region = strings.TrimSpace(region)
	}
}

// WithRetry makes Put try up to attempts times, sleeping backoff between
// tries. Cancelling the context stops the loop.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(s *Store) {
		if attempts > 0 {
			s.attempts = attempts
		}
		if backoff >= 0 {
			s.backoff = backoff
		}
	}
}

// New wraps an existing client. It panics when api is nil.
func New(api BucketAPI, bucket string, opts ...Option) *Store {
	if api == nil {
		panic(ErrClientRequired)
	}
	s := &Store{
		api:      api,
		bucket:   strings.TrimSpace(bucket),
		attempts: 1,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// NewFromConfig dials minio and returns a Store for cfg.Bucket.
func NewFromConfig(cfg Config, opts ...Option) (*Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, ErrBucketRequired
	}
	client, err := NewMinioClient(cfg)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithRegion(cfg.Region)}, opts...)
	return New(client, cfg.Bucket, opts...), nil
}

// Bucket returns the target bucket name.
func (s *Store) Bucket() string {
	return s.bucket
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *Store) EnsureBucket(ctx context.Context) error {
	if s.bucket == "" {
		return ErrBucketRequired
	}
	exists, err := s.api.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("objectstore: check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}

	if err := s.api.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		if code := minio.ToErrorResponse(err).Code; code == "BucketAlreadyOwnedByYou" || code == "BucketAlreadyExists" {
			return nil
		}
		return fmt.Errorf("objectstore: create bucket %s: %w", s.bucket, err)
	}
	s.logger.Info("objectstore.bucket_created", "bucket", s.bucket, "region", s.region)
	return nil
}

// Put uploads data under key.
func (s *Store) Put(ctx context.Context, key string, data []byte, opts interfaces.PutOptions) (interfaces.ObjectInfo, error) {
	if s.bucket == "" {
		return interfaces.ObjectInfo{}, ErrBucketRequired
	}
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return interfaces.ObjectInfo{}, ErrKeyRequired
	}

	putOptions := minio.PutObjectOptions{ContentType: opts.ContentType}
	if len(opts.Tags) > 0 {
		putOptions.UserTags = opts.Tags
	}

	var (
		info minio.UploadInfo
		err  error
	)
	for attempt := 1; attempt <= s.attempts; attempt++ {
		info, err = s.api.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), putOptions)
		if err == nil {
			break
		}
		resp := minio.ToErrorResponse(err)
		s.logger.Warn("objectstore.put_failed",
			"key", key,
			"try", attempt,
			"code", resp.StatusCode,
			"msg", resp.Message,
			"error", err,
		)
		if attempt == s.attempts {
			break
		}
		if waitErr := sleep(ctx, s.backoff); waitErr != nil {
			return interfaces.ObjectInfo{}, waitErr
		}
	}
	if err != nil {
		return interfaces.ObjectInfo{}, fmt.Errorf("objectstore: put %s/%s: %w", s.bucket, key, err)
	}

	return interfaces.ObjectInfo{
		Bucket: s.bucket,
		Key:    key,
		Size:   int64(len(data)),
		ETag:   info.ETag,
	}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
