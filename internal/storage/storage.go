package storage

import (
	"context"
	"io"
)

// ResourceImage tags uploads that must be served as images.
const ResourceImage = "image"

// UploadOptions conveys upload destination metadata.
type UploadOptions struct {
	Folder       string
	Filename     string
	ContentType  string
	ResourceType string
}

// Service streams binary content to remote object storage and returns its public URL.
type Service interface {
	Upload(ctx context.Context, body io.Reader, opts UploadOptions) (string, error)
}
