// Package imagehost stores uploaded images and hands back the URL they are
// served from.
package imagehost

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/NasuPanda/mnemos-web/internal/config"
	"github.com/NasuPanda/mnemos-web/internal/errors"
)

// DefaultExtension is used when the uploaded file name has none.
const DefaultExtension = "jpg"

var allowedExtensions = []string{"jpg", "jpeg", "png", "gif", "webp", "bmp"}

// Uploader stores image bytes and returns a retrievable URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte, name string) (string, error)
}

// New builds the uploader selected by cfg.ImageHost.
func New(cfg config.Config) (Uploader, error) {
	switch cfg.ImageHost {
	case config.ImageHostDisk:
		return NewDiskUploader(cfg.ImagesDir), nil
	case config.ImageHostCloudinary:
		return NewCloudinaryUploader(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	default:
		return nil, fmt.Errorf("unknown image host %q", cfg.ImageHost)
	}
}

// Extension returns the lower-cased extension of name, or DefaultExtension.
func Extension(name string) string {
	ext := strings.TrimPrefix(path.Ext(name), ".")
	if ext == "" {
		return DefaultExtension
	}
	return strings.ToLower(ext)
}

// Validate checks an upload before it is stored.
func Validate(contentType, name string, size, max int64) error {
	if !strings.HasPrefix(contentType, "image/") {
		return errors.NewBadRequestError("file must be an image")
	}
	if size > max {
		return errors.NewBadRequestError(fmt.Sprintf("file size must be less than %dMB", max>>20))
	}
	ext := Extension(name)
	for _, allowed := range allowedExtensions {
		if ext == allowed {
			return nil
		}
	}
	return errors.NewBadRequestError("file extension must be one of: " + strings.Join(allowedExtensions, ", "))
}
