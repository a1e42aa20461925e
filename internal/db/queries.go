package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"mediagen/internal/domain"
)

type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type CreateGenerationJobParams struct {
	Kind     string
	Provider string
	Model    string
	RemoteID *string
	Prompt   []byte
}

func (q *Queries) CreateGenerationJob(ctx context.Context, arg CreateGenerationJobParams) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, `
INSERT INTO generation_jobs (kind, provider, model, remote_id, status, prompt)
VALUES ($1, $2, $3, $4, 'PENDING', $5)
RETURNING id
`, arg.Kind, arg.Provider, arg.Model, arg.RemoteID, arg.Prompt)
	var id uuid.UUID
	err := row.Scan(&id)
	return id, err
}

func (q *Queries) StartGenerationJob(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, `
UPDATE generation_jobs
SET status = 'RUNNING', updated_at = now()
WHERE id = $1
`, id)
	return err
}

type CompleteGenerationJobParams struct {
	ID         uuid.UUID
	ResultURL  string
	StorageKey string
}

func (q *Queries) CompleteGenerationJob(ctx context.Context, arg CompleteGenerationJobParams) error {
	_, err := q.db.Exec(ctx, `
UPDATE generation_jobs
SET status = 'SUCCEEDED', result_url = $2, storage_key = $3, updated_at = now()
WHERE id = $1
`, arg.ID, arg.ResultURL, arg.StorageKey)
	return err
}

type FailGenerationJobParams struct {
	ID    uuid.UUID
	Error string
}

func (q *Queries) FailGenerationJob(ctx context.Context, arg FailGenerationJobParams) error {
	_, err := q.db.Exec(ctx, `
UPDATE generation_jobs
SET status = 'FAILED', error = $2, updated_at = now()
WHERE id = $1
`, arg.ID, arg.Error)
	return err
}

type GenerationJob struct {
	ID         uuid.UUID
	Kind       string
	Provider   string
	Model      string
	RemoteID   *string
	Status     string
	ResultURL  *string
	StorageKey *string
	Error      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (q *Queries) GetGenerationJob(ctx context.Context, id uuid.UUID) (GenerationJob, error) {
	row := q.db.QueryRow(ctx, `
SELECT id, kind, provider, model, remote_id, status, result_url, storage_key, error, created_at, updated_at
FROM generation_jobs
WHERE id = $1
`, id)
	var job GenerationJob
	err := row.Scan(
		&job.ID, &job.Kind, &job.Provider, &job.Model, &job.RemoteID,
		&job.Status, &job.ResultURL, &job.StorageKey, &job.Error,
		&job.CreatedAt, &job.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return GenerationJob{}, domain.ErrNotFound
	}
	return job, err
}

type InsertGeneratedAssetParams struct {
	JobID      uuid.UUID
	Kind       string
	StorageKey string
	MIME       string
	Bytes      int64
}

func (q *Queries) InsertGeneratedAsset(ctx context.Context, arg InsertGeneratedAssetParams) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, `
INSERT INTO generated_assets (job_id, kind, storage_key, mime, bytes)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`, arg.JobID, arg.Kind, arg.StorageKey, arg.MIME, arg.Bytes)
	var id uuid.UUID
	err := row.Scan(&id)
	return id, err
}
