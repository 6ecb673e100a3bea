package storage

import (
	"context"
	"errors"
	"io"
	"sync"

	gcs "cloud.google.com/go/storage"

	"github.com/NasuPanda/mnemos-web/internal/logger"
)

// ClientFactory builds a Cloud Storage client.
type ClientFactory func(ctx context.Context) (*gcs.Client, error)

// GCSStore keeps each key as an object in a Cloud Storage bucket. The client
// is created on first use; if that fails every call degrades to false/nil.
type GCSStore struct {
	bucket    string
	newClient ClientFactory

	once    sync.Once
	client  *gcs.Client
	initErr error
}

// GCSOption configures a GCSStore.
type GCSOption func(*GCSStore)

// WithClientFactory replaces the default credential-discovering client constructor.
func WithClientFactory(f ClientFactory) GCSOption {
	return func(s *GCSStore) {
		s.newClient = f
	}
}

// NewGCSStore returns a store for bucket. No network calls are made until first use.
func NewGCSStore(bucket string, opts ...GCSOption) *GCSStore {
	s := &GCSStore{
		bucket: bucket,
		newClient: func(ctx context.Context) (*gcs.Client, error) {
			return gcs.NewClient(ctx)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *GCSStore) Name() string {
	return "gcs:" + s.bucket
}

func (s *GCSStore) init(log *logger.Logger) (*gcs.Client, bool) {
	s.once.Do(func() {
		// The client outlives any single request.
		s.client, s.initErr = s.newClient(context.Background())
		if s.initErr == nil && s.client == nil {
			s.initErr = errors.New("client factory returned nil client")
		}
		if s.initErr != nil {
			log.Error("failed to initialize cloud storage client: %v", s.initErr)
			return
		}
		log.Info("cloud storage client initialized")
	})
	return s.client, s.initErr == nil
}

func (s *GCSStore) Probe(ctx context.Context) bool {
	log := logger.FromContext(ctx).WithPrefix("storage").WithField("backend", s.Name())
	client, ok := s.init(log)
	if !ok {
		return false
	}
	if _, err := client.Bucket(s.bucket).Attrs(ctx); err != nil {
		log.Error("bucket not reachable: %v", err)
		return false
	}
	return true
}

func (s *GCSStore) Get(ctx context.Context, key string) ([]byte, bool) {
	log := logger.FromContext(ctx).WithPrefix("storage").WithFields(map[string]any{
		"backend": s.Name(),
		"key":     key,
	})
	client, ok := s.init(log)
	if !ok {
		return nil, false
	}

	r, err := client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			log.Warn("object not found")
		} else {
			log.Error("failed to open object: %v", err)
		}
		return nil, false
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		log.Error("failed to read object: %v", err)
		return nil, false
	}
	log.Debug("downloaded %d bytes", len(data))
	return data, true
}

func (s *GCSStore) Put(ctx context.Context, key string, data []byte) bool {
	log := logger.FromContext(ctx).WithPrefix("storage").WithFields(map[string]any{
		"backend": s.Name(),
		"key":     key,
	})
	client, ok := s.init(log)
	if !ok {
		return false
	}

	w := client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		log.Error("failed to upload object: %v", err)
		return false
	}
	// The upload is only committed by Close.
	if err := w.Close(); err != nil {
		log.Error("failed to finalize upload: %v", err)
		return false
	}
	log.Debug("uploaded %d bytes", len(data))
	return true
}

// Close releases the client. A store closed before first use never builds one.
func (s *GCSStore) Close() error {
	s.once.Do(func() {
		s.initErr = errors.New("store closed")
	})
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
