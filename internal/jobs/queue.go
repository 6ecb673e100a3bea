package jobs

// Queue provides an abstraction for enqueueing background jobs.
type Queue interface {
	// EnqueueReplication schedules a copy of data to the remote store under key.
	// It must not block on the write itself.
	EnqueueReplication(key string, data []byte) error
}
