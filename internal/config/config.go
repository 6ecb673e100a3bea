package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backends selectable with STORAGE_BACKEND.
const (
	BackendFile   = "file"
	BackendGCS    = "gcs"
	BackendSQLite = "sqlite"
)

// Image hosts selectable with IMAGE_HOST.
const (
	ImageHostDisk       = "disk"
	ImageHostCloudinary = "cloudinary"
)

type Config struct {
	Addr      string `env:"ADDR" envDefault:":8000"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	DataFile    string `env:"DATA_FILE" envDefault:"../data/mnemos_data.json"`
	DocumentKey string `env:"DOCUMENT_KEY" envDefault:"mnemos_data.json"`

	StorageBackend    string `env:"STORAGE_BACKEND" envDefault:"file"`
	StorageDir        string `env:"STORAGE_DIR" envDefault:"test_storage"`
	StorageBucketName string `env:"STORAGE_BUCKET_NAME" envDefault:"mnemos-data-bucket"`
	StorageSQLitePath string `env:"STORAGE_SQLITE_PATH" envDefault:"mnemos.db"`

	ReplicationWorkerCount int `env:"REPLICATION_WORKER_COUNT" envDefault:"2"`
	ReplicationQueueSize   int `env:"REPLICATION_QUEUE_SIZE" envDefault:"16"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`

	ImageHost           string `env:"IMAGE_HOST" envDefault:"disk"`
	ImagesDir           string `env:"IMAGES_DIR" envDefault:"data/images"`
	MaxUploadBytes      int64  `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults from the struct tags, then validates the result.
func Load() (Config, error) {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(cfg.StorageBackend))
	cfg.ImageHost = strings.ToLower(strings.TrimSpace(cfg.ImageHost))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the server cannot start with.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if strings.TrimSpace(c.DataFile) == "" {
		errs = append(errs, errors.New("DATA_FILE cannot be empty"))
	}
	if strings.TrimSpace(c.DocumentKey) == "" {
		errs = append(errs, errors.New("DOCUMENT_KEY cannot be empty"))
	}

	switch c.StorageBackend {
	case BackendFile:
		if strings.TrimSpace(c.StorageDir) == "" {
			errs = append(errs, errors.New("STORAGE_DIR cannot be empty when STORAGE_BACKEND=file"))
		}
	case BackendGCS:
		if strings.TrimSpace(c.StorageBucketName) == "" {
			errs = append(errs, errors.New("STORAGE_BUCKET_NAME cannot be empty when STORAGE_BACKEND=gcs"))
		}
	case BackendSQLite:
		if strings.TrimSpace(c.StorageSQLitePath) == "" {
			errs = append(errs, errors.New("STORAGE_SQLITE_PATH cannot be empty when STORAGE_BACKEND=sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND must be one of file, gcs, sqlite (got %q)", c.StorageBackend))
	}

	if c.ReplicationWorkerCount < 1 {
		errs = append(errs, fmt.Errorf("REPLICATION_WORKER_COUNT must be at least 1 (got %d)", c.ReplicationWorkerCount))
	}
	if c.ReplicationQueueSize < 1 {
		errs = append(errs, fmt.Errorf("REPLICATION_QUEUE_SIZE must be at least 1 (got %d)", c.ReplicationQueueSize))
	}

	switch c.ImageHost {
	case ImageHostDisk:
		if strings.TrimSpace(c.ImagesDir) == "" {
			errs = append(errs, errors.New("IMAGES_DIR cannot be empty when IMAGE_HOST=disk"))
		}
	case ImageHostCloudinary:
		if c.CloudinaryCloudName == "" || c.CloudinaryAPIKey == "" || c.CloudinaryAPISecret == "" {
			errs = append(errs, errors.New("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required when IMAGE_HOST=cloudinary"))
		}
	default:
		errs = append(errs, fmt.Errorf("IMAGE_HOST must be one of disk, cloudinary (got %q)", c.ImageHost))
	}

	if c.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_BYTES must be positive (got %d)", c.MaxUploadBytes))
	}

	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be console or json (got %q)", c.LogFormat))
	}

	return errors.Join(errs...)
}
