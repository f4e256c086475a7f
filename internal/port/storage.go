package port

import (
	"context"
	"io"
)

// UploadInput describes one object write. Metadata is stored with the
// object; uploads tag agreement PDFs with their SHA-256 so the stored
// copy can be checked against the database record.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
	Metadata    map[string]string
}

// UploadOutput contains the result of a successful upload.
type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectStorage stores agreement PDFs. Objects are written once per key
// (original and completed renditions use distinct keys) and served to
// browsers through presigned links rather than through this service.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	Download(ctx context.Context, bucket, key string) ([]byte, error)
	Delete(ctx context.Context, bucket, key string) error
	// PresignGet returns a time-limited download link for the object.
	PresignGet(ctx context.Context, bucket, key string, expirySeconds int64) (string, error)
}
