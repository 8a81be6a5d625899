package interfaces

import "context"

// ObjectStore is the minimal object storage contract used to publish
// rendered documents. Implementations must be safe for concurrent use.
type ObjectStore interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, data []byte, opts PutOptions) (ObjectInfo, error)
}

// PutOptions carries per-object metadata.
type PutOptions struct {
	ContentType string
	Tags        map[string]string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Bucket string
	Key    string
	Size   int64
	ETag   string
}
