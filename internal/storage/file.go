package storage

import (
	"bytes"
	"io"
	"mime/multipart"
)

// File is an incoming upload handle. Open may be called once per upload attempt.
type File struct {
	Filename    string
	ContentType string
	Size        int64
	open        func() (io.ReadCloser, error)
}

// NewMultipartFile wraps a parsed multipart file part.
func NewMultipartFile(header *multipart.FileHeader) *File {
	return &File{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		open: func() (io.ReadCloser, error) {
			return header.Open()
		},
	}
}

// NewBytesFile wraps in-memory content.
func NewBytesFile(filename, contentType string, content []byte) *File {
	return &File{
		Filename:    filename,
		ContentType: contentType,
		Size:        int64(len(content)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	}
}

// NewStreamFile wraps a caller supplied opener.
func NewStreamFile(filename, contentType string, open func() (io.ReadCloser, error)) *File {
	return &File{Filename: filename, ContentType: contentType, Size: -1, open: open}
}

// Open returns a read stream over the file content.
func (f *File) Open() (io.ReadCloser, error) {
	return f.open()
}
