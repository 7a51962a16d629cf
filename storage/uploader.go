package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"
	"videotube-api/config"
	"videotube-api/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrEmptyFile = errors.New("empty file")

// UploadResult describes a stored media object.
type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// IMediaUploader stores user media and returns its public URL.
type IMediaUploader interface {
	Upload(ctx context.Context, folder, filename, contentType string, body io.Reader, size int64) (*UploadResult, error)
	Delete(ctx context.Context, url string) error
}

// objectAPI is the subset of the S3 client the uploader calls.
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Uploader struct {
	api     objectAPI
	bucket  string
	baseURL string
}

// NewS3Uploader builds an uploader for any S3 compatible endpoint (AWS, MinIO, SeaweedFS).
func NewS3Uploader(ctx context.Context) (*S3Uploader, error) {
	cfg := config.AppConfig.Storage
	if cfg.Bucket == "" {
		return nil, errors.New("storage.bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.ForcePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return newS3Uploader(client, cfg.Bucket, publicBaseURL(cfg.PublicBaseURL, endpoint, cfg.Bucket, cfg.Region)), nil
}

func newS3Uploader(api objectAPI, bucket, baseURL string) *S3Uploader {
	return &S3Uploader{api: api, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}
}

func publicBaseURL(configured, endpoint, bucket, region string) string {
	switch {
	case configured != "":
		return configured
	case endpoint != "":
		return endpoint + "/" + bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
}

// NewObjectKey returns a collision free key under folder that keeps the file extension.
func NewObjectKey(folder, filename string) string {
	return path.Join(folder, uuid.NewString()+strings.ToLower(path.Ext(filename)))
}

func (u *S3Uploader) Upload(ctx context.Context, folder, filename, contentType string, body io.Reader, size int64) (*UploadResult, error) {
	if size <= 0 {
		return nil, ErrEmptyFile
	}
	key := NewObjectKey(folder, filename)
	log := logger.Log.WithFields(logrus.Fields{
		"bucket": u.bucket,
		"key":    key,
		"size":   size,
	})

	input := &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := u.api.PutObject(ctx, input); err != nil {
		log.WithError(err).Error("Failed to upload media object")
		return nil, err
	}

	log.Info("Media object uploaded")
	return &UploadResult{URL: u.baseURL + "/" + key, Key: key}, nil
}

// Delete removes the object behind a URL previously returned by Upload.
// URLs that do not belong to this bucket are ignored.
func (u *S3Uploader) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, u.baseURL+"/")
	if !ok || key == "" {
		return nil
	}
	_, err := u.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		logger.Log.WithError(err).WithField("key", key).Error("Failed to delete media object")
	}
	return err
}
