package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

const publicURLBase = "https://storage.googleapis.com"

// GCSUploader writes document images to a fixed bucket. Object names are the
// decimal form of the allocated document id; an existing object with the same
// name is silently replaced.
type GCSUploader struct {
	bucket     *storage.BucketHandle
	bucketName string
}

func NewGCSUploader(ctx context.Context, bucketName string) (*GCSUploader, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("NewGCSUploader: bucket name cannot be empty")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}

	return &GCSUploader{
		bucket:     client.Bucket(bucketName),
		bucketName: bucketName,
	}, nil
}

// Upload writes data under name and returns the object's public URL.
func (u *GCSUploader) Upload(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	writer := u.bucket.Object(name).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		_ = writer.Close()
		return "", fmt.Errorf("failed to write to GCS: %w", err)
	}

	if err := writer.Close(); err != nil {
		if gerr, ok := err.(*googleapi.Error); ok {
			return "", fmt.Errorf("failed to finalize GCS write (http %d): %w", gerr.Code, err)
		}
		return "", fmt.Errorf("failed to finalize GCS write: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", publicURLBase, u.bucketName, name), nil
}
