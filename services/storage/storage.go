package storage

import (
	"context"
	"fmt"
	"io"

	"collabhub/utils"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// CloudinaryStore implements BlobStore on Cloudinary; buckets become folders.
type CloudinaryStore struct {
	cld       *cloudinary.Cloudinary
	cloudName string
}

// NewCloudinaryStore creates a new CloudinaryStore instance.
func NewCloudinaryStore(cld *cloudinary.Cloudinary, cloudName string) *CloudinaryStore {
	utils.GetLogger().Debug("Initializing Cloudinary blob store", zap.String("cloudName", cloudName))
	return &CloudinaryStore{cld: cld, cloudName: cloudName}
}

// Upload streams r to Cloudinary as bucket/key.
func (s *CloudinaryStore) Upload(ctx context.Context, bucket, key string, r io.Reader, contentType string) error {
	uploadParams := uploader.UploadParams{
		PublicID: publicID(bucket, key),
	}
	result, err := s.cld.Upload.Upload(ctx, r, uploadParams)
	if err != nil {
		return fmt.Errorf("CloudinaryStore: failed to upload file: %w", err)
	}
	if result.Error.Message != "" {
		return fmt.Errorf("CloudinaryStore: %s", result.Error.Message)
	}
	if result.PublicID == "" {
		return fmt.Errorf("CloudinaryStore: no public ID returned")
	}
	return nil
}

// PublicURL builds the delivery URL of an uploaded image.
func (s *CloudinaryStore) PublicURL(bucket, key string) string {
	id := publicID(bucket, key)
	if a, err := s.cld.Image(id); err == nil {
		if url, err := a.String(); err == nil {
			return url
		}
	}
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/%s", s.cloudName, id)
}

// Delete removes an uploaded file.
func (s *CloudinaryStore) Delete(ctx context.Context, bucket, key string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID(bucket, key)})
	if err != nil {
		return fmt.Errorf("CloudinaryStore: failed to delete file: %w", err)
	}
	return nil
}
