// Package storage keeps worker avatars on local disk or in an S3-compatible
// bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/yukikurage/task-manager/internal/config"
)

const (
	avatarPrefix = "avatars"
	avatarExt    = ".jpg"

	// AvatarContentType is the type of every stored avatar.
	AvatarContentType = "image/jpeg"
)

var (
	ErrNotFound      = errors.New("avatar not found")
	ErrInvalidImage  = errors.New("file is not a supported image")
	ErrImageTooLarge = errors.New("image is too large")
)

// AvatarStore saves, serves and removes avatar images by name.
type AvatarStore interface {
	Save(ctx context.Context, name string, data []byte) error
	Open(ctx context.Context, name string) (io.ReadCloser, int64, error)
	Delete(ctx context.Context, name string) error
}

// NewAvatarName returns a fresh object name for an avatar.
func NewAvatarName() string {
	return uuid.NewString() + avatarExt
}

// ValidName reports whether name could have been produced by NewAvatarName.
func ValidName(name string) bool {
	id, ok := strings.CutSuffix(name, avatarExt)
	if !ok {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}

// URL is the path the avatar is served from.
func URL(name string) string {
	if name == "" {
		return ""
	}
	return "/media/" + avatarPrefix + "/" + name
}

// New builds the store selected by MEDIA_DRIVER.
func New(ctx context.Context, cfg *config.Config) (AvatarStore, error) {
	switch cfg.MediaDriver {
	case "", "local":
		return NewLocalStore(cfg.MediaRoot)
	case "minio":
		return NewMinioStore(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL, cfg.MinioBucket)
	default:
		return nil, fmt.Errorf("unsupported media driver %q", cfg.MediaDriver)
	}
}
