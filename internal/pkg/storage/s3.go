package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type S3Options struct {
	Endpoint  string // "s3.amazonaws.com" for AWS, host:port for S3-compatible stores
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// S3Storage stores objects in an S3 bucket.
type S3Storage struct {
	client *minio.Client
	bucket string
}

// NewS3Storage builds the client without touching the network. Call
// EnsureBucket at startup to verify the bucket is reachable.
func NewS3Storage(opts S3Options) (*S3Storage, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	return &S3Storage{client: client, bucket: opts.Bucket}, nil
}

func (s *S3Storage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", s.bucket)
	}
	return nil
}

func (s *S3Storage) Upload(ctx context.Context, file io.Reader, size int64, path string, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, path, file, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", wrapErr("upload", path, err)
	}
	return path, nil
}

func (s *S3Storage) Delete(ctx context.Context, path string) error {
	return wrapErr("delete", path, s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{}))
}

func (s *S3Storage) GetURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, path, expiry, url.Values{})
	if err != nil {
		return "", wrapErr("get_url", path, err)
	}
	return u.String(), nil
}

// PresignUpload signs a PUT bound to contentType; the client must send the
// same Content-Type header.
func (s *S3Storage) PresignUpload(ctx context.Context, path string, contentType string, expiry time.Duration) (string, error) {
	headers := http.Header{}
	headers.Set("Content-Type", contentType)

	u, err := s.client.PresignHeader(ctx, http.MethodPut, s.bucket, path, expiry, nil, headers)
	if err != nil {
		return "", wrapErr("presign_upload", path, err)
	}
	return u.String(), nil
}

func (s *S3Storage) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, path, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, wrapErr("exists", path, err)
	}
	return true, nil
}
