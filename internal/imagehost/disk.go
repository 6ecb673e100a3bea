package imagehost

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/NasuPanda/mnemos-web/internal/logger"
)

// URLPrefix is where DiskUploader files are served.
const URLPrefix = "/images/"

// DiskUploader writes images into a local directory.
type DiskUploader struct {
	dir string
}

func NewDiskUploader(dir string) *DiskUploader {
	return &DiskUploader{dir: dir}
}

// Dir returns the directory images are written to.
func (u *DiskUploader) Dir() string {
	return u.dir
}

func (u *DiskUploader) Upload(ctx context.Context, data []byte, name string) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("imagehost")

	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate image name: %w", err)
	}
	fileName := id + "." + Extension(name)

	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return "", fmt.Errorf("create images dir: %w", err)
	}
	target := filepath.Join(u.dir, fileName)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("save image: %w", err)
	}

	log.Info("stored image %s (%d bytes)", fileName, len(data))
	return URLPrefix + fileName, nil
}
