package domain

import "strings"

// JobStatus enumerates remote generation job lifecycle states. Vendors may
// report values outside this set; those parse to StatusUnknown rather than
// falling through application logic.
type JobStatus string

const (
	StatusPending   JobStatus = "PENDING"
	StatusRunning   JobStatus = "RUNNING"
	StatusSucceeded JobStatus = "SUCCEEDED"
	StatusFailed    JobStatus = "FAILED"
	StatusUnknown   JobStatus = "UNKNOWN"
)

// ParseStatus maps a raw vendor status string onto the closed enum.
// Unrecognized values become StatusUnknown; callers treat that as
// non-terminal and keep polling.
func ParseStatus(raw string) JobStatus {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "PENDING", "THROTTLED":
		return StatusPending
	case "RUNNING":
		return StatusRunning
	case "SUCCEEDED":
		return StatusSucceeded
	case "FAILED":
		return StatusFailed
	default:
		return StatusUnknown
	}
}

// IsTerminal reports whether no further state change will occur for a job in
// this status. Terminal states are absorbing: once observed, polling stops.
func (s JobStatus) IsTerminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Job is one asynchronous unit of work submitted to a remote generation
// service. The identifier is an opaque token issued at submission and never
// changes; the remaining fields are only ever refreshed by re-fetching status
// from the remote service, never mutated locally.
type Job struct {
	ID           string
	Status       JobStatus
	RawStatus    string
	ResultURL    string
	ErrorMessage string
}

// VideoRequest is the immutable input for one video generation workflow.
// Optional fields use pointers so that absent values are omitted from the
// vendor payload entirely, letting the remote service apply its own defaults.
type VideoRequest struct {
	Prompt    string
	Seed      *int
	Duration  *int
	Ratio     *string
	Watermark *bool
}
