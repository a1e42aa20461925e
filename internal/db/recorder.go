package db

import (
	"context"

	"github.com/google/uuid"
)

// Recorder adapts Queries to the workflow's job-history contract.
type Recorder struct {
	q *Queries
}

func NewRecorder(q *Queries) *Recorder {
	return &Recorder{q: q}
}

func (r *Recorder) Start(ctx context.Context, id uuid.UUID) error {
	return r.q.StartGenerationJob(ctx, id)
}

func (r *Recorder) Complete(ctx context.Context, id uuid.UUID, resultURL, storageKey string) error {
	return r.q.CompleteGenerationJob(ctx, CompleteGenerationJobParams{
		ID:         id,
		ResultURL:  resultURL,
		StorageKey: storageKey,
	})
}

func (r *Recorder) Fail(ctx context.Context, id uuid.UUID, reason string) error {
	return r.q.FailGenerationJob(ctx, FailGenerationJobParams{ID: id, Error: reason})
}
