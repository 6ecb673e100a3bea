package imagehost

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	"github.com/NasuPanda/mnemos-web/internal/logger"
)

// CloudinaryFolder groups every uploaded image.
const CloudinaryFolder = "mnemos-images"

type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryUploader sends images to Cloudinary and returns their secure URL.
type CloudinaryUploader struct {
	api uploadAPI
}

func NewCloudinaryUploader(cloudName, apiKey, apiSecret string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("configure cloudinary: %w", err)
	}
	return &CloudinaryUploader{api: &cld.Upload}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, data []byte, name string) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("imagehost")

	resp, err := u.api.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:     uuid.NewString(),
		Folder:       CloudinaryFolder,
		ResourceType: "image",
		Format:       Extension(name),
		Overwrite:    api.Bool(false),
		Invalidate:   api.Bool(true),
	})
	if err != nil {
		log.Error("cloudinary upload failed: %v", err)
		return "", fmt.Errorf("image upload failed: %w", err)
	}
	if resp.Error.Message != "" {
		log.Error("cloudinary rejected upload: %s", resp.Error.Message)
		return "", fmt.Errorf("image upload failed: %s", resp.Error.Message)
	}

	log.Info("uploaded image to cloudinary: %s", resp.PublicID)
	return resp.SecureURL, nil
}
