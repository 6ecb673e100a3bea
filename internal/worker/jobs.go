package worker

import (
	"context"
	"fmt"
)

// Target is the write side of a backing store. Declared here so the worker
// package does not depend on storage.
type Target interface {
	Name() string
	Put(ctx context.Context, key string, data []byte) bool
}

// ReplicateDocumentJob copies one serialized document to a backing store.
// Jobs for successive saves are independent; whichever finishes last wins.
type ReplicateDocumentJob struct {
	Target Target
	Key    string
	Data   []byte
}

func (j *ReplicateDocumentJob) Name() string { return "replicate_document" }

func (j *ReplicateDocumentJob) Run(ctx context.Context) error {
	if !j.Target.Put(ctx, j.Key, j.Data) {
		return fmt.Errorf("replicate %s to %s: write failed", j.Key, j.Target.Name())
	}
	return nil
}
