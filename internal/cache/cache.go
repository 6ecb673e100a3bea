// Package cache holds the live in-memory document and its derived views.
package cache

import (
	"sync"

	"github.com/NasuPanda/mnemos-web/internal/models"
)

// Cache owns the installed document plus the active and archived projections
// computed from it. Installing a document and rebuilding the projections
// happen under one lock, so a reader never pairs a document with projections
// from an older one.
//
// Everything returned by the accessors is a shared snapshot and must not be
// mutated; callers wanting to change the document clone it first.
type Cache struct {
	mu       sync.RWMutex
	doc      *models.Document
	active   []models.Item
	archived []models.Item
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{}
}

// Set installs doc and rebuilds both projections.
func (c *Cache) Set(doc *models.Document) {
	active, archived := Partition(doc.Items)

	c.mu.Lock()
	c.install(doc, active, archived)
	c.mu.Unlock()
}

// SetIfEmpty installs doc only when nothing is installed yet and returns
// whichever document ends up installed.
func (c *Cache) SetIfEmpty(doc *models.Document) *models.Document {
	active, archived := Partition(doc.Items)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.doc == nil {
		c.install(doc, active, archived)
	}
	return c.doc
}

func (c *Cache) install(doc *models.Document, active, archived []models.Item) {
	c.doc = doc
	c.active = active
	c.archived = archived
}

// Document returns the installed document, or false when nothing has been installed.
func (c *Cache) Document() (*models.Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.doc, c.doc != nil
}

// Active returns the non-archived items in document order.
func (c *Cache) Active() []models.Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// Archived returns the archived items in document order.
func (c *Cache) Archived() []models.Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.archived
}

// Partition splits items on the archived flag, preserving relative order.
// Both results are non-nil.
func Partition(items []models.Item) (active, archived []models.Item) {
	active = make([]models.Item, 0, len(items))
	archived = make([]models.Item, 0)
	for _, it := range items {
		if it.Archived {
			archived = append(archived, it)
		} else {
			active = append(active, it)
		}
	}
	return active, archived
}
