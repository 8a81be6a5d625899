package objectstore

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/goliatone/go-richdoc/pkg/interfaces"
)

type fakeBucketAPI struct {
	exists     bool
	existsErr  error
	makeErr    error
	made       []string
	putErrs    []error
	puts       []fakePut
	putOptions []minio.PutObjectOptions
}

type fakePut struct {
	bucket string
	key    string
	body   string
	size   int64
}

func (f *fakeBucketAPI) BucketExists(context.Context, string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeBucketAPI) MakeBucket(_ context.Context, bucket string, _ minio.MakeBucketOptions) error {
	f.made = append(f.made, bucket)
	return f.makeErr
}

func (f *fakeBucketAPI) PutObject(_ context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if len(f.putErrs) > 0 {
		err := f.putErrs[0]
		f.putErrs = f.putErrs[1:]
		if err != nil {
			return minio.UploadInfo{}, err
		}
	}
	body, _ := io.ReadAll(reader)
	f.puts = append(f.puts, fakePut{bucket: bucket, key: key, body: string(body), size: size})
	f.putOptions = append(f.putOptions, opts)
	return minio.UploadInfo{Bucket: bucket, Key: key, ETag: "etag-1", Size: size}, nil
}

func TestEnsureBucketCreatesMissingBucket(t *testing.T) {
	api := &fakeBucketAPI{}
	store := New(api, "docs", WithRegion("eu-west-1"))

	if err := store.EnsureBucket(context.Background()); err != nil {
		t.Fatalf("EnsureBucket: %v", err)
	}
	if len(api.made) != 1 || api.made[0] != "docs" {
		t.Fatalf("expected bucket creation, got %v", api.made)
	}
}

func TestEnsureBucketSkipsExistingBucket(t *testing.T) {
	api := &fakeBucketAPI{exists: true}
	if err := New(api, "docs").EnsureBucket(context.Background()); err != nil {
		t.Fatalf("EnsureBucket: %v", err)
	}
	if len(api.made) != 0 {
		t.Fatalf("did not expect MakeBucket, got %v", api.made)
	}
}

func TestEnsureBucketToleratesCreationRace(t *testing.T) {
	api := &fakeBucketAPI{makeErr: minio.ErrorResponse{Code: "BucketAlreadyOwnedByYou", StatusCode: 409}}
	if err := New(api, "docs").EnsureBucket(context.Background()); err != nil {
		t.Fatalf("expected race to be tolerated, got %v", err)
	}
}

func TestEnsureBucketPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	if err := New(&fakeBucketAPI{existsErr: boom}, "docs").EnsureBucket(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped check error, got %v", err)
	}
	if err := New(&fakeBucketAPI{makeErr: boom}, "docs").EnsureBucket(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped create error, got %v", err)
	}
	if err := New(&fakeBucketAPI{}, " ").EnsureBucket(context.Background()); !errors.Is(err, ErrBucketRequired) {
		t.Fatalf("expected ErrBucketRequired, got %v", err)
	}
}

func TestPutUploadsObject(t *testing.T) {
	api := &fakeBucketAPI{}
	store := New(api, "docs")

	info, err := store.Put(context.Background(), "/exports/a.md", []byte("# hi"), interfaces.PutOptions{
		ContentType: "text/markdown",
		Tags:        map[string]string{"format": "gfm"},
	})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if info.Key != "exports/a.md" || info.Bucket != "docs" || info.Size != 4 || info.ETag != "etag-1" {
		t.Fatalf("unexpected info %+v", info)
	}
	if len(api.puts) != 1 || api.puts[0].body != "# hi" || api.puts[0].size != 4 {
		t.Fatalf("unexpected puts %+v", api.puts)
	}
	opts := api.putOptions[0]
	if opts.ContentType != "text/markdown" || opts.UserTags["format"] != "gfm" {
		t.Fatalf("unexpected put options %+v", opts)
	}
}

func TestPutRetriesTransientFailures(t *testing.T) {
	api := &fakeBucketAPI{putErrs: []error{errors.New("timeout"), nil}}
	store := New(api, "docs", WithRetry(3, 0))

	if _, err := store.Put(context.Background(), "k", []byte("x"), interfaces.PutOptions{}); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if len(api.puts) != 1 {
		t.Fatalf("expected single successful put, got %d", len(api.puts))
	}
}

func TestPutGivesUpAfterAttempts(t *testing.T) {
	boom := errors.New("boom")
	api := &fakeBucketAPI{putErrs: []error{boom, boom}}
	store := New(api, "docs", WithRetry(2, 0))

	if _, err := store.Put(context.Background(), "k", []byte("x"), interfaces.PutOptions{}); !errors.Is(err, boom) {
		t.Fatalf("expected final error, got %v", err)
	}
}

func TestPutStopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	api := &fakeBucketAPI{putErrs: []error{errors.New("boom")}}
	store := New(api, "docs", WithRetry(3, time.Hour))

	if _, err := store.Put(ctx, "k", []byte("x"), interfaces.PutOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestPutValidatesKey(t *testing.T) {
	if _, err := New(&fakeBucketAPI{}, "docs").Put(context.Background(), " / ", nil, interfaces.PutOptions{}); !errors.Is(err, ErrKeyRequired) {
		t.Fatalf("expected ErrKeyRequired, got %v", err)
	}
}

func TestNewFromConfigValidates(t *testing.T) {
	if _, err := NewFromConfig(Config{Endpoint: "localhost:9000"}); !errors.Is(err, ErrBucketRequired) {
		t.Fatalf("expected ErrBucketRequired, got %v", err)
	}
	if _, err := NewFromConfig(Config{Bucket: "docs"}); !errors.Is(err, ErrEndpointRequired) {
		t.Fatalf("expected ErrEndpointRequired, got %v", err)
	}
	store, err := NewFromConfig(Config{Endpoint: "localhost:9000", Bucket: "docs", AccessKeyID: "a", SecretAccessKey: "b"})
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	if store.Bucket() != "docs" {
		t.Fatalf("unexpected bucket %q", store.Bucket())
	}
}
