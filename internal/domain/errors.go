package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidPrompt = errors.New("invalid prompt")
)

// SubmissionError reports a failed job creation call: a transport-level
// failure, a non-2xx response, or a success response missing the job
// identifier. Detail carries the response body (structured message when
// parseable, raw text otherwise) so callers can log and debug.
type SubmissionError struct {
	Detail string
	Cause  error
}

func (e *SubmissionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("job submission failed: %s", e.Detail)
	}
	return fmt.Sprintf("job submission failed: %v", e.Cause)
}

func (e *SubmissionError) Unwrap() error { return e.Cause }

// StatusCheckError reports a failed status poll under the same transport and
// parsing conditions as SubmissionError.
type StatusCheckError struct {
	JobID  string
	Detail string
	Cause  error
}

func (e *StatusCheckError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("status check for job %s failed: %s", e.JobID, e.Detail)
	}
	return fmt.Sprintf("status check for job %s failed: %v", e.JobID, e.Cause)
}

func (e *StatusCheckError) Unwrap() error { return e.Cause }

// GenerationFailedError reports that the remote service explicitly marked the
// job FAILED. Message carries the vendor diagnostic verbatim.
type GenerationFailedError struct {
	JobID   string
	Message string
}

func (e *GenerationFailedError) Error() string {
	return fmt.Sprintf("generation failed for job %s: %s", e.JobID, e.Message)
}

// ResultMissingError reports a contract violation by the remote service: the
// job was marked SUCCEEDED but no result location was supplied. It is never
// treated as a silently empty success.
type ResultMissingError struct {
	JobID string
}

func (e *ResultMissingError) Error() string {
	return fmt.Sprintf("job %s succeeded but the response carried no result location", e.JobID)
}

// PollTimeoutError reports that the caller-supplied maximum wait elapsed
// before the job reached a terminal state. The remote job keeps running; the
// modeled API exposes no cancel operation.
type PollTimeoutError struct {
	JobID    string
	Waited   time.Duration
	LastSeen JobStatus
}

func (e *PollTimeoutError) Error() string {
	return fmt.Sprintf("job %s still %s after %s", e.JobID, e.LastSeen, e.Waited)
}
