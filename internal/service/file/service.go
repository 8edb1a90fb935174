package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/cmlabs-hris/employee-backend-go/internal/pkg/storage"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	// MaxProfilePictureSize caps profile picture uploads at 5MB.
	MaxProfilePictureSize = 5 << 20

	profilePrefix = "profiles/"
)

var (
	ErrInvalidImage       = errors.New("only image files are allowed")
	ErrFileTooLarge       = errors.New("file exceeds the 5MB limit")
	ErrInvalidFileName    = errors.New("file name is invalid")
	ErrInvalidProfilePath = errors.New("profile picture key must reference an uploaded profile picture")
	ErrProfileNotUploaded = errors.New("profile picture has not been uploaded")
)

// PresignedUpload is what a client needs to PUT a profile picture directly to
// the object store.
type PresignedUpload struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

type FileService interface {
	// UploadProfilePicture stores raw image bytes and returns the object key.
	UploadProfilePicture(ctx context.Context, employeeID string, file io.Reader, fileName string) (string, error)

	// PresignProfileUpload reserves a key and signs a direct-upload URL for it.
	PresignProfileUpload(ctx context.Context, fileName string, fileType string) (PresignedUpload, error)

	// ValidateProfileKey checks that a client-supplied key points into the
	// profile picture namespace and that its object has been uploaded.
	ValidateProfileKey(ctx context.Context, key string) error

	// DeleteFile is best-effort: failures are logged and swallowed.
	DeleteFile(ctx context.Context, key string)

	// ProfilePictureURL derives a presentable URL, or nil if there is no key or
	// the URL cannot be generated.
	ProfilePictureURL(ctx context.Context, key *string) *string
}

type fileServiceImpl struct {
	storage        storage.FileStorage
	downloadExpiry time.Duration
	uploadExpiry   time.Duration
	now            func() time.Time
}

func NewFileService(storage storage.FileStorage, downloadExpiry, uploadExpiry time.Duration) FileService {
	return &fileServiceImpl{
		storage:        storage,
		downloadExpiry: downloadExpiry,
		uploadExpiry:   uploadExpiry,
		now:            time.Now,
	}
}

// UploadProfilePicture uploads an employee profile picture under
// profiles/{employeeID}-{unixMillis}-{fileName}.
func (s *fileServiceImpl) UploadProfilePicture(ctx context.Context, employeeID string, file io.Reader, fileName string) (string, error) {
	name := sanitizeFileName(fileName)
	if name == "" {
		return "", ErrInvalidFileName
	}

	// Read one byte past the limit to detect oversized files.
	buffer, err := io.ReadAll(io.LimitReader(file, MaxProfilePictureSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read profile picture: %w", err)
	}
	if len(buffer) > MaxProfilePictureSize {
		return "", ErrFileTooLarge
	}

	mtype := mimetype.Detect(buffer)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", ErrInvalidImage
	}

	path := fmt.Sprintf("%s%s-%d-%s", profilePrefix, sanitizeFileName(employeeID), s.now().UnixMilli(), name)

	key, err := s.storage.Upload(ctx, bytes.NewReader(buffer), int64(len(buffer)), path, mtype.String())
	if err != nil {
		return "", fmt.Errorf("failed to upload profile picture: %w", err)
	}

	return key, nil
}

// PresignProfileUpload generates the key server-side so it is known before the
// client writes the object.
func (s *fileServiceImpl) PresignProfileUpload(ctx context.Context, fileName string, fileType string) (PresignedUpload, error) {
	name := sanitizeFileName(fileName)
	if name == "" {
		return PresignedUpload{}, ErrInvalidFileName
	}
	if !strings.HasPrefix(fileType, "image/") {
		return PresignedUpload{}, ErrInvalidImage
	}

	key := fmt.Sprintf("%s%s-%d-%s", profilePrefix, uuid.New().String(), s.now().UnixMilli(), name)

	url, err := s.storage.PresignUpload(ctx, key, fileType, s.uploadExpiry)
	if err != nil {
		return PresignedUpload{}, fmt.Errorf("failed to generate upload url: %w", err)
	}

	return PresignedUpload{
		UploadURL: url,
		Key:       key,
		ExpiresIn: int(s.uploadExpiry / time.Second),
	}, nil
}

func (s *fileServiceImpl) ValidateProfileKey(ctx context.Context, key string) error {
	if !strings.HasPrefix(key, profilePrefix) || len(key) == len(profilePrefix) {
		return ErrInvalidProfilePath
	}
	if strings.Contains(key, "..") || strings.ContainsAny(key, "\\\x00") {
		return ErrInvalidProfilePath
	}

	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check profile picture: %w", err)
	}
	if !exists {
		return ErrProfileNotUploaded
	}
	return nil
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		slog.Warn("failed to delete stored file", "key", key, "error", err)
	}
}

func (s *fileServiceImpl) ProfilePictureURL(ctx context.Context, key *string) *string {
	if key == nil || *key == "" {
		return nil
	}
	url, err := s.storage.GetURL(ctx, *key, s.downloadExpiry)
	if err != nil {
		slog.Warn("failed to generate profile picture url", "key", *key, "error", err)
		return nil
	}
	return &url
}

var unsafeFileNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// sanitizeFileName keeps the base name and replaces anything outside
// [A-Za-z0-9._-] with a dash.
func sanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeFileNameChars.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-.")
	if len(name) > 100 {
		ext := filepath.Ext(name)
		if len(ext) > 10 {
			ext = ""
		}
		name = name[:100-len(ext)] + ext
	}
	return name
}
