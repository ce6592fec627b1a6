package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedPut struct {
	method      string
	path        string
	contentType string
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *s3.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return s3.New(s3.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(srv.URL),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider("key", "secret", ""),
	})
}

func TestS3Service_Upload(t *testing.T) {
	var (
		mu  sync.Mutex
		got []recordedPut
	)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		mu.Lock()
		got = append(got, recordedPut{method: r.Method, path: r.URL.Path, contentType: r.Header.Get("Content-Type")})
		mu.Unlock()
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	})

	svc := NewS3Service(client, "photos", "https://cdn.example.com/")
	url, err := svc.Upload(context.Background(), strings.NewReader("png-bytes"), UploadOptions{
		Folder:       "comp3133_employees",
		Filename:     "Bob.PNG",
		ContentType:  "image/png",
		ResourceType: ResourceImage,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/comp3133_employees/"), url)
	assert.True(t, strings.HasSuffix(url, ".png"), url)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.Equal(t, http.MethodPut, got[0].method)
	assert.True(t, strings.HasPrefix(got[0].path, "/photos/comp3133_employees/"), got[0].path)
	assert.Equal(t, "image/png", got[0].contentType)
}

func TestS3Service_UploadError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`<Error><Code>AccessDenied</Code><Message>denied</Message></Error>`))
	})

	svc := NewS3Service(client, "photos", "")
	_, err := svc.Upload(context.Background(), strings.NewReader("x"), UploadOptions{Folder: "f", Filename: "a.jpg"})
	assert.Error(t, err)
}

func TestS3Service_RequiresBucket(t *testing.T) {
	svc := &S3Service{}
	_, err := svc.Upload(context.Background(), strings.NewReader("x"), UploadOptions{})
	assert.Error(t, err)
}

func TestObjectKey(t *testing.T) {
	key := objectKey(UploadOptions{Folder: "/employees/", Filename: "me.JPEG"})
	assert.True(t, strings.HasPrefix(key, "employees/"), key)
	assert.True(t, strings.HasSuffix(key, ".jpeg"), key)

	bare := objectKey(UploadOptions{})
	assert.NotContains(t, bare, "/")
}
