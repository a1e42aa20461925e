package workflow

import (
	"context"
	"io"
	"mime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"mediagen/internal/domain"
	"mediagen/internal/infra"
)

// ArtifactSource extends the remote contract with artifact retrieval.
type ArtifactSource interface {
	VideoSource
	Download(ctx context.Context, resultURL string) ([]byte, string, error)
}

// ArtifactStore persists finished artifact bytes under a storage key.
type ArtifactStore interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
}

// JobRecorder writes the job-history trail. The live Job state during a
// workflow is still refreshed exclusively from the remote service; the
// recorder only captures terminal outcomes for later retrieval.
type JobRecorder interface {
	Start(ctx context.Context, id uuid.UUID) error
	Complete(ctx context.Context, id uuid.UUID, resultURL, storageKey string) error
	Fail(ctx context.Context, id uuid.UUID, reason string) error
}

// Manager runs video workflows to completion and persists their outcomes.
// Each watched job occupies exactly one goroutine; there is no cross-job
// coordination of any kind.
type Manager struct {
	video  *Video
	source ArtifactSource
	files  ArtifactStore
	jobs   JobRecorder
	logger *infra.Logger
}

// ManagerOptions wires the manager's collaborators.
type ManagerOptions struct {
	Video  *Video
	Source ArtifactSource
	Files  ArtifactStore
	Jobs   JobRecorder
	Logger *infra.Logger
}

// NewManager constructs a Manager.
func NewManager(opts ManagerOptions) *Manager {
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Manager{
		video:  opts.Video,
		source: opts.Source,
		files:  opts.Files,
		jobs:   opts.Jobs,
		logger: logger,
	}
}

// Submit issues the single job-creation call and records a history row.
// Callers receive the remote job immediately; Watch carries the invocation
// through to its terminal state.
func (m *Manager) Submit(ctx context.Context, req domain.VideoRequest) (*domain.Job, error) {
	return m.source.StartGeneration(ctx, req)
}

// Watch polls the remote job to a terminal state, downloads and stores the
// artifact on success, and records the outcome against the history row. It is
// intended to run in its own goroutine; the detached context keeps the
// workflow alive after the originating HTTP request completes.
func (m *Manager) Watch(historyID uuid.UUID, jobID string) {
	ctx, cancel := context.WithTimeout(context.Background(), m.video.maxWait+m.video.interval)
	defer cancel()

	if err := m.jobs.Start(ctx, historyID); err != nil {
		m.logger.Error().Err(err).Str("job_id", jobID).Msg("workflow: failed to mark job running")
	}

	job, err := m.video.Await(ctx, jobID)
	if err != nil {
		m.logger.Error().Err(err).Str("job_id", jobID).Msg("workflow: video generation did not complete")
		if ferr := m.jobs.Fail(ctx, historyID, err.Error()); ferr != nil {
			m.logger.Error().Err(ferr).Str("job_id", jobID).Msg("workflow: failed to record job failure")
		}
		return
	}

	storageKey := m.persistArtifact(ctx, job)
	if err := m.jobs.Complete(ctx, historyID, job.ResultURL, storageKey); err != nil {
		m.logger.Error().Err(err).Str("job_id", jobID).Msg("workflow: failed to record job completion")
		return
	}

	m.logger.Info().
		Str("job_id", jobID).
		Str("result_url", job.ResultURL).
		Str("storage_key", storageKey).
		Dur("interval", m.video.interval).
		Msg("workflow: video generation succeeded")
}

// persistArtifact downloads the finished video and writes it to the store.
// A failed download degrades to history-without-local-copy rather than
// failing the whole workflow: the remote result location is already known.
func (m *Manager) persistArtifact(ctx context.Context, job *domain.Job) string {
	data, format, err := m.source.Download(ctx, job.ResultURL)
	if err != nil {
		m.logger.Warn().Err(err).Str("job_id", job.ID).Msg("workflow: artifact download failed")
		return ""
	}
	key := "video/" + uuid.NewString() + extensionFor(format)
	stored, err := m.files.Write(ctx, key, data)
	if err != nil {
		m.logger.Warn().Err(err).Str("job_id", job.ID).Msg("workflow: artifact write failed")
		return ""
	}
	return stored
}

func extensionFor(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "video/mp4", "":
		return ".mp4"
	case "audio/mpeg":
		return ".mp3"
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	}
	if exts, err := mime.ExtensionsByType(format); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

// PollBudget reports the interval and maximum wait the manager operates with.
func (m *Manager) PollBudget() (time.Duration, time.Duration) {
	return m.video.interval, m.video.maxWait
}
