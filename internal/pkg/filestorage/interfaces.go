package filestorage

import (
	"context"
	"io"
)

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// Save stores data under a generated name with the given extension and
	// returns the public URL of the stored file
	Save(data []byte, subPath, ext string) (string, error)

	// DeleteFile removes a file previously returned by Save
	DeleteFile(fileURL string) error

	// GetFullPath returns the full filesystem path for a given file URL
	GetFullPath(fileURL string) string
}

// ImageSink validates, normalises and stores uploaded images
type ImageSink interface {
	Upload(ctx context.Context, r io.Reader) (string, error)
}
