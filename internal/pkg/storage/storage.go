package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

var (
	// ErrPresignUnsupported is returned by backends that cannot hand out
	// direct-upload URLs.
	ErrPresignUnsupported = errors.New("presigned uploads are not supported by this storage backend")
	ErrInvalidPath        = errors.New("invalid object path")
	ErrObjectNotFound     = errors.New("object not found")
)

type FileStorage interface {
	// Upload stores the object under path and returns the stored key.
	// size may be -1 when unknown.
	Upload(ctx context.Context, file io.Reader, size int64, path string, contentType string) (string, error)

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, path string) error

	// GetURL generates a time-bounded read URL.
	GetURL(ctx context.Context, path string, expiry time.Duration) (string, error)

	// PresignUpload generates a time-bounded URL the client can PUT the object to.
	PresignUpload(ctx context.Context, path string, contentType string, expiry time.Duration) (string, error)

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)
}

// StorageError wraps a backend failure with the operation and key involved.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func wrapErr(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Key: key, Err: err}
}
