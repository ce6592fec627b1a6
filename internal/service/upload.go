package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"employee-directory/internal/storage"
)

// DefaultPhotoFolder is the media store folder for employee photos.
const DefaultPhotoFolder = "comp3133_employees"

const sniffLen = 3072

// photoUploader streams an optional employee photo to the media store.
type photoUploader struct {
	store  storage.Service
	folder string
}

// upload returns nil when file is nil. Any failure is wrapped in ErrPhotoUpload.
func (u photoUploader) upload(ctx context.Context, file *storage.File) (*string, error) {
	if file == nil {
		return nil, nil
	}
	url, err := u.stream(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPhotoUpload, err)
	}
	return &url, nil
}

func (u photoUploader) stream(ctx context.Context, file *storage.File) (string, error) {
	if u.store == nil {
		return "", errors.New("media store is not configured")
	}

	rc, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer rc.Close()

	reader := bufio.NewReaderSize(rc, sniffLen)
	head, err := reader.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	mime := mimetype.Detect(head)
	if !strings.HasPrefix(mime.String(), "image/") {
		return "", fmt.Errorf("%w: %s", ErrNotImage, mime.String())
	}

	return u.store.Upload(ctx, reader, storage.UploadOptions{
		Folder:       u.folder,
		Filename:     file.Filename,
		ContentType:  mime.String(),
		ResourceType: storage.ResourceImage,
	})
}
