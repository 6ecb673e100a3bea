// Package datastore decides where the document comes from at startup and
// where it goes on every save.
//
// Reads are served from the in-memory cache. A save installs the new
// document in the cache, writes the local backup synchronously and hands the
// remote copy to the replication queue, so a request never waits on the
// remote backend.
package datastore

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/NasuPanda/mnemos-web/internal/cache"
	"github.com/NasuPanda/mnemos-web/internal/jobs"
	"github.com/NasuPanda/mnemos-web/internal/logger"
	"github.com/NasuPanda/mnemos-web/internal/models"
	"github.com/NasuPanda/mnemos-web/internal/storage"
)

// Source names where a resolved document was found.
type Source string

const (
	SourceRemote  Source = "remote"
	SourceLocal   Source = "local"
	SourceDefault Source = "default"
)

// Options wires a Store. Remote and Queue may be nil, in which case the local
// backup is the only persistence.
type Options struct {
	Remote   storage.Backend
	Key      string
	Local    storage.Backend
	LocalKey string
	Queue    jobs.Queue
	Cache    *cache.Cache
	Now      func() time.Time
}

type Store struct {
	remote   storage.Backend
	key      string
	local    storage.Backend
	localKey string
	queue    jobs.Queue
	cache    *cache.Cache
	now      func() time.Time

	// mu serializes mutations; readers go straight to the cache.
	mu       sync.Mutex
	revision uint64

	emergency singleflight.Group
}

func New(opts Options) *Store {
	s := &Store{
		remote:   opts.Remote,
		key:      opts.Key,
		local:    opts.Local,
		localKey: opts.LocalKey,
		queue:    opts.Queue,
		cache:    opts.Cache,
		now:      opts.Now,
	}
	if s.cache == nil {
		s.cache = cache.New()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.localKey == "" {
		s.localKey = s.key
	}
	return s
}

// ResolveAtStartup resolves the document and installs it.
func (s *Store) ResolveAtStartup(ctx context.Context) (*models.Document, Source) {
	doc, src := s.Resolve(ctx)
	s.Install(doc)
	return doc, src
}

// Resolve walks remote, then local backup, then a fresh default. Every
// failure along the way is logged and skipped; Resolve itself cannot fail.
func (s *Store) Resolve(ctx context.Context) (*models.Document, Source) {
	log := logger.FromContext(ctx).WithPrefix("datastore")

	if s.remote != nil {
		if doc, ok := s.read(ctx, s.remote, s.key, true); ok {
			log.Info("loaded document from %s (%d items)", s.remote.Name(), len(doc.Items))
			return doc, SourceRemote
		}
		log.Warn("remote storage %s unavailable or empty, trying local backup", s.remote.Name())
	}
	if doc, ok := s.readLocal(ctx); ok {
		log.Info("loaded document from local backup (%d items)", len(doc.Items))
		return doc, SourceLocal
	}

	log.Warn("no stored document found, starting from defaults")
	return models.NewDefaultDocument(s.now()), SourceDefault
}

func (s *Store) readLocal(ctx context.Context) (*models.Document, bool) {
	if s.local == nil {
		return nil, false
	}
	return s.read(ctx, s.local, s.localKey, false)
}

func (s *Store) read(ctx context.Context, b storage.Backend, key string, probe bool) (*models.Document, bool) {
	log := logger.FromContext(ctx).WithPrefix("datastore").WithField("backend", b.Name())

	if probe && !b.Probe(ctx) {
		return nil, false
	}
	data, ok := b.Get(ctx, key)
	if !ok {
		return nil, false
	}
	doc, err := Decode(data)
	if err != nil {
		log.Warn("stored document is unreadable: %v", err)
		return nil, false
	}
	return doc, true
}

// Install replaces the cached document without persisting it.
func (s *Store) Install(doc *models.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Set(doc)
}

// InstallDefaults installs a default document unless one is already cached.
func (s *Store) InstallDefaults() *models.Document {
	return s.cache.SetIfEmpty(models.NewDefaultDocument(s.now()))
}

// Revision counts completed saves.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// InstallIfUnchanged installs doc only if no save has happened since rev was
// read from Revision. It reports whether doc was installed.
func (s *Store) InstallIfUnchanged(doc *models.Document, rev uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revision != rev {
		return false
	}
	s.cache.Set(doc)
	return true
}

// Get returns the current document. It is a shared snapshot: clone before
// changing it, or use Update.
func (s *Store) Get(ctx context.Context) *models.Document {
	if doc, ok := s.cache.Document(); ok {
		return doc
	}
	return s.emergencyLoad(ctx)
}

func (s *Store) Active(ctx context.Context) []models.Item {
	s.Get(ctx)
	return s.cache.Active()
}

func (s *Store) Archived(ctx context.Context) []models.Item {
	s.Get(ctx)
	return s.cache.Archived()
}

// emergencyLoad covers reads that arrive before anything was installed.
// Concurrent callers share one backup read.
func (s *Store) emergencyLoad(ctx context.Context) *models.Document {
	v, _, _ := s.emergency.Do("load", func() (any, error) {
		if doc, ok := s.cache.Document(); ok {
			return doc, nil
		}
		log := logger.FromContext(ctx).WithPrefix("datastore")
		log.Warn("document requested before startup load finished, reading local backup")

		doc, ok := s.readLocal(ctx)
		if !ok {
			doc = models.NewDefaultDocument(s.now())
		}
		return s.cache.SetIfEmpty(doc), nil
	})
	return v.(*models.Document)
}

// Save stamps, installs and persists doc. Persistence failures are logged,
// never returned: the cached copy stays authoritative for this process.
func (s *Store) Save(ctx context.Context, doc *models.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveLocked(ctx, doc)
}

// Update applies fn to a private copy of the current document and saves the
// result. When fn fails nothing is saved and its error is returned.
func (s *Store) Update(ctx context.Context, fn func(doc *models.Document) error) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.Get(ctx).Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	s.saveLocked(ctx, working)
	return working, nil
}

func (s *Store) saveLocked(ctx context.Context, doc *models.Document) {
	log := logger.FromContext(ctx).WithPrefix("datastore")

	doc.LastUpdated = models.NewTimestamp(s.nextStamp(doc))
	s.cache.Set(doc)
	s.revision++

	data, err := Encode(doc)
	if err != nil {
		log.Error("failed to encode document: %v", err)
		return
	}
	if s.local != nil && !s.local.Put(ctx, s.localKey, data) {
		log.Warn("local backup write failed, in-memory document remains current")
	}
	if s.queue != nil && s.remote != nil {
		if err := s.queue.EnqueueReplication(s.key, data); err != nil {
			log.Error("failed to schedule remote replication: %v", err)
		}
	}
	log.Debug("saved document (%d items, %d bytes)", len(doc.Items), len(data))
}

// nextStamp returns now, nudged forward if needed so last_updated strictly
// increases across saves.
func (s *Store) nextStamp(doc *models.Document) time.Time {
	now := s.now().UTC()
	floor := doc.LastUpdated.Time
	if prev, ok := s.cache.Document(); ok && prev.LastUpdated.After(floor) {
		floor = prev.LastUpdated.Time
	}
	if !now.After(floor) {
		now = floor.Add(time.Microsecond)
	}
	return now
}
