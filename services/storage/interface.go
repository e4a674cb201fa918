package storage

import (
	"context"
	"io"
	"path"
	"strings"
)

// BlobStore stores uploaded onboarding files under bucket/key and serves them by public URL.
type BlobStore interface {
	Upload(ctx context.Context, bucket, key string, r io.Reader, contentType string) error
	PublicURL(bucket, key string) string
	Delete(ctx context.Context, bucket, key string) error
}

// objectPath joins a bucket and key into a single object name.
func objectPath(bucket, key string) string {
	return path.Join(bucket, key)
}

// publicID drops the file extension; Cloudinary appends its own.
func publicID(bucket, key string) string {
	p := objectPath(bucket, key)
	return strings.TrimSuffix(p, path.Ext(p))
}
