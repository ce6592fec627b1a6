package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Service uploads employee media to Amazon S3 (or compatible APIs).
type S3Service struct {
	uploader      *manager.Uploader
	bucket        string
	publicBaseURL string
}

// NewS3Service builds an uploader for bucket. When publicBaseURL is set the
// returned URLs are rooted there instead of at the bucket endpoint.
func NewS3Service(client *s3.Client, bucket, publicBaseURL string) *S3Service {
	return &S3Service{
		uploader:      manager.NewUploader(client),
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (s *S3Service) Upload(ctx context.Context, body io.Reader, opts UploadOptions) (string, error) {
	if s.bucket == "" {
		return "", fmt.Errorf("storage bucket is required")
	}
	if body == nil {
		return "", fmt.Errorf("upload body is required")
	}

	key := objectKey(opts)
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}
	if opts.ResourceType != "" {
		input.Metadata = map[string]string{"resource-type": opts.ResourceType}
	}

	out, err := s.uploader.Upload(ctx, input)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key, nil
	}
	if out.Location == "" {
		return "", fmt.Errorf("upload %s: no location returned", key)
	}
	return out.Location, nil
}

func objectKey(opts UploadOptions) string {
	name := uuid.NewString() + strings.ToLower(path.Ext(opts.Filename))
	folder := strings.Trim(opts.Folder, "/")
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

var _ Service = (*S3Service)(nil)
