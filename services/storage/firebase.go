package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// FirebaseStore implements BlobStore on one Firebase Storage bucket; onboarding buckets become
// object prefixes.
type FirebaseStore struct {
	client     *storage.Client
	bucketName string
}

// NewFirebaseStore creates a new FirebaseStore.
func NewFirebaseStore(ctx context.Context, serviceAccountJSONPath, bucketName string) (*FirebaseStore, error) {
	client, err := storage.NewClient(ctx, option.WithCredentialsFile(serviceAccountJSONPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &FirebaseStore{client: client, bucketName: bucketName}, nil
}

// Upload writes r as a publicly readable object.
func (s *FirebaseStore) Upload(ctx context.Context, bucket, key string, r io.Reader, contentType string) error {
	obj := s.client.Bucket(s.bucketName).Object(objectPath(bucket, key))
	w := obj.NewWriter(ctx)

	// Set public read ACL
	w.ACL = []storage.ACLRule{{Entity: storage.AllUsers, Role: storage.RoleReader}}
	w.ObjectAttrs.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("failed to copy file to storage: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}
	return nil
}

// PublicURL returns the download URL of a publicly readable object.
func (s *FirebaseStore) PublicURL(bucket, key string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media", s.bucketName, url.QueryEscape(objectPath(bucket, key)))
}

// Delete deletes an object from the bucket.
func (s *FirebaseStore) Delete(ctx context.Context, bucket, key string) error {
	obj := s.client.Bucket(s.bucketName).Object(objectPath(bucket, key))
	if err := obj.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *FirebaseStore) Close() error {
	return s.client.Close()
}
