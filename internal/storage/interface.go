package storage

import (
	"context"
	"io"
)

// Storage is the object store holding uploaded media and job output.
type Storage interface {
	Upload(ctx context.Context, key string, r io.Reader) error
	UploadFile(ctx context.Context, key, path string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	// URI returns the s3:// location services use to reference key.
	URI(key string) string
	Bucket() string
}
