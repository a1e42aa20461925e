package workflow

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"mediagen/internal/domain"
	"mediagen/internal/infra"
)

// VideoSource is the remote contract the orchestrator composes: one call to
// start a job, one call per status snapshot.
type VideoSource interface {
	StartGeneration(ctx context.Context, req domain.VideoRequest) (*domain.Job, error)
	TaskStatus(ctx context.Context, jobID string) (*domain.Job, error)
}

// Video composes the job submitter and status poller into a single blocking
// workflow. Each Run occupies one goroutine for its full lifetime; concurrent
// runs are independent executions with no shared mutable state.
type Video struct {
	source   VideoSource
	interval time.Duration
	maxWait  time.Duration
	logger   *infra.Logger
}

// VideoOptions configures the polling workflow. Interval defaults to 12s;
// MaxWait must be positive — open-ended polling is deliberately unsupported.
type VideoOptions struct {
	Source   VideoSource
	Interval time.Duration
	MaxWait  time.Duration
	Logger   *infra.Logger
}

// NewVideo constructs the workflow with defaults applied.
func NewVideo(opts VideoOptions) *Video {
	interval := opts.Interval
	if interval <= 0 {
		interval = 12 * time.Second
	}
	maxWait := opts.MaxWait
	if maxWait <= 0 {
		maxWait = 10 * time.Minute
	}
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Video{
		source:   opts.Source,
		interval: interval,
		maxWait:  maxWait,
		logger:   logger,
	}
}

// Run submits the request and blocks until the job reaches a terminal state,
// the maximum wait elapses, or the context is canceled. On success the
// returned job carries the result location.
func (w *Video) Run(ctx context.Context, req domain.VideoRequest) (*domain.Job, error) {
	job, err := w.source.StartGeneration(ctx, req)
	if err != nil {
		return nil, err
	}
	return w.Await(ctx, job.ID)
}

// Await polls the job at a fixed interval until it reaches a terminal state.
// Errors from the poller propagate immediately without retry. Cancellation
// stops further polling; it cannot cancel the already-submitted remote job.
func (w *Video) Await(ctx context.Context, jobID string) (*domain.Job, error) {
	deadline := time.NewTimer(w.maxWait)
	defer deadline.Stop()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	last := domain.StatusPending
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, &domain.PollTimeoutError{JobID: jobID, Waited: w.maxWait, LastSeen: last}
		case <-ticker.C:
			job, err := w.source.TaskStatus(ctx, jobID)
			if err != nil {
				return nil, err
			}
			last = job.Status

			switch job.Status {
			case domain.StatusSucceeded:
				if job.ResultURL == "" {
					return nil, &domain.ResultMissingError{JobID: jobID}
				}
				return job, nil
			case domain.StatusFailed:
				msg := job.ErrorMessage
				if msg == "" {
					msg = "no error message provided"
				}
				return nil, &domain.GenerationFailedError{JobID: jobID, Message: msg}
			case domain.StatusUnknown:
				// Vendor-added state: keep polling, but make it visible.
				w.logger.Warn().
					Str("job_id", jobID).
					Str("raw_status", job.RawStatus).
					Msg("workflow: unrecognized job status, continuing to poll")
			default:
				w.logger.Debug().
					Str("job_id", jobID).
					Str("status", string(job.Status)).
					Msg("workflow: job still in progress")
			}
		}
	}
}
