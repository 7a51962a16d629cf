package storage

import (
	"context"
	"io"
)

// File is an incoming upload, usually a multipart form part.
type File struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadFile stores f under folder. A nil or empty file yields ErrEmptyFile.
func UploadFile(ctx context.Context, uploader IMediaUploader, folder string, f *File) (*UploadResult, error) {
	if f == nil || f.Body == nil || f.Size <= 0 {
		return nil, ErrEmptyFile
	}
	return uploader.Upload(ctx, folder, f.Filename, f.ContentType, f.Body, f.Size)
}
