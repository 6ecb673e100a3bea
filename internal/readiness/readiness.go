// Package readiness lets the server answer requests immediately while the
// stored document is still being fetched.
package readiness

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/NasuPanda/mnemos-web/internal/datastore"
	"github.com/NasuPanda/mnemos-web/internal/logger"
)

type State int32

const (
	NotReady State = iota
	ReadyWithDefaults
	ReadyWithData
)

func (s State) String() string {
	switch s {
	case ReadyWithDefaults:
		return "ready_with_defaults"
	case ReadyWithData:
		return "ready_with_data"
	default:
		return "not_ready"
	}
}

// Controller tracks startup progress. The zero value is not usable; use New.
type Controller struct {
	store *datastore.Store

	state   atomic.Int32
	loading atomic.Bool

	mu   sync.Mutex
	done chan struct{}
}

func New(store *datastore.Store) *Controller {
	return &Controller{store: store}
}

// Start installs a default document, marks the process ready and begins the
// background load. It reports whether a new load was started.
func (c *Controller) Start(ctx context.Context) bool {
	c.store.InstallDefaults()
	c.state.CompareAndSwap(int32(NotReady), int32(ReadyWithDefaults))
	return c.Reload(ctx)
}

// Reload starts another background load unless one is already running.
func (c *Controller) Reload(ctx context.Context) bool {
	log := logger.FromContext(ctx).WithPrefix("readiness")

	if !c.loading.CompareAndSwap(false, true) {
		log.Debug("background load already in progress")
		return false
	}

	done := make(chan struct{})
	c.mu.Lock()
	c.done = done
	c.mu.Unlock()

	rev := c.store.Revision()
	// The load outlives the request or startup context that triggered it.
	loadCtx := context.WithoutCancel(ctx)

	go func() {
		defer close(done)
		defer c.loading.Store(false)

		start := time.Now()
		doc, src := c.store.Resolve(loadCtx)
		if c.store.InstallIfUnchanged(doc, rev) {
			log.Info("background load finished from %s in %v (%d items)", src, time.Since(start).Round(time.Millisecond), len(doc.Items))
		} else {
			log.Warn("document was saved during background load, keeping the in-memory version")
		}
		c.state.Store(int32(ReadyWithData))
	}()
	return true
}

// IsReady reports whether requests can be served at all.
func (c *Controller) IsReady() bool {
	return c.State() != NotReady
}

// HasData reports whether the stored document has been loaded, which is
// required before anything may be written.
func (c *Controller) HasData() bool {
	return c.State() == ReadyWithData
}

func (c *Controller) State() State {
	return State(c.state.Load())
}

// Loading reports whether a background load is running.
func (c *Controller) Loading() bool {
	return c.loading.Load()
}

// Wait blocks until the most recent background load finishes or ctx is done.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
