package jobs

import (
	"github.com/NasuPanda/mnemos-web/internal/worker"
)

// WorkerQueue implements Queue using a worker pool.
type WorkerQueue struct {
	pool   *worker.Pool
	target worker.Target
}

// NewWorkerQueue creates a Queue that replicates to target on pool.
func NewWorkerQueue(pool *worker.Pool, target worker.Target) *WorkerQueue {
	return &WorkerQueue{pool: pool, target: target}
}

func (q *WorkerQueue) EnqueueReplication(key string, data []byte) error {
	return q.pool.Submit(&worker.ReplicateDocumentJob{
		Target: q.target,
		Key:    key,
		Data:   data,
	})
}

var _ Queue = (*WorkerQueue)(nil)
