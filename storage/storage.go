// Package storage keeps uploaded files, Cloudflare R2 in production and the
// local disk in development.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const MaxAvatarSize = 5 * 1024 * 1024

var ErrInvalidFile = errors.New("invalid file type or size")

type Store interface {
	// Put stores body under key and returns its public URL.
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}

var avatarTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

func ValidateAvatar(contentType string, size int64) error {
	if _, ok := avatarTypes[contentType]; !ok || size <= 0 || size > MaxAvatarSize {
		return ErrInvalidFile
	}
	return nil
}

// AvatarKey builds a fresh object key for a user's avatar.
func AvatarKey(userID uint, fileName, contentType string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		ext = avatarTypes[contentType]
	}
	return fmt.Sprintf("users/%d/avatar/%d_%s%s", userID, now.Unix(), uuid.NewString(), ext)
}
