package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"mediagen/internal/db"
	"mediagen/internal/domain"
)

type videoGenerateRequest struct {
	Prompt    string  `json:"prompt"`
	Seed      *int    `json:"seed"`
	Duration  *int    `json:"duration"`
	Ratio     *string `json:"ratio"`
	Watermark *bool   `json:"watermark"`
}

type videoSubmitResponse struct {
	Message string `json:"message"`
	JobID   string `json:"job_id"`
	TaskID  string `json:"task_id"`
	Status  string `json:"status"`
}

type videoStatusResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	ResultURL string `json:"result_url,omitempty"`
	Error     string `json:"error,omitempty"`
}

var supportedRatios = map[string]bool{
	"16:9": true, "9:16": true, "1:1": true, "4:3": true,
}

// VideosGenerate submits a video generation job and launches one workflow
// goroutine to carry it to a terminal state. The response returns
// immediately with both identifiers: job_id addresses the local history row,
// task_id the remote task.
func (a *App) VideosGenerate(w http.ResponseWriter, r *http.Request) {
	var req videoGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Prompt == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "prompt is required")
		return
	}
	if req.Ratio != nil && !supportedRatios[*req.Ratio] {
		a.error(w, http.StatusBadRequest, "bad_request", "unsupported ratio "+*req.Ratio)
		return
	}

	job, err := a.Videos.Submit(r.Context(), domain.VideoRequest{
		Prompt:    req.Prompt,
		Seed:      req.Seed,
		Duration:  req.Duration,
		Ratio:     req.Ratio,
		Watermark: req.Watermark,
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("video: submission failed")
		a.error(w, http.StatusBadGateway, "provider_error", "failed to start video generation")
		return
	}

	remoteID := job.ID
	historyID, err := a.History.CreateGenerationJob(r.Context(), db.CreateGenerationJobParams{
		Kind:     "video",
		Provider: "runway",
		Model:    a.VideoModel,
		RemoteID: &remoteID,
		Prompt:   mustJSON(req),
	})
	if err != nil {
		a.Logger.Error().Err(err).Str("task_id", job.ID).Msg("video: failed to record job")
		a.error(w, http.StatusInternalServerError, "internal", "failed to record job")
		return
	}

	go a.Videos.Watch(historyID, job.ID)

	a.json(w, http.StatusAccepted, videoSubmitResponse{
		Message: "video generation initiated",
		JobID:   historyID.String(),
		TaskID:  job.ID,
		Status:  string(job.Status),
	})
}

// VideoStatus returns one live status snapshot for a remote task.
func (a *App) VideoStatus(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "task_id")
	if taskID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "task_id required")
		return
	}
	job, err := a.Poller.TaskStatus(r.Context(), taskID)
	if err != nil {
		a.Logger.Error().Err(err).Str("task_id", taskID).Msg("video: status check failed")
		a.error(w, http.StatusBadGateway, "provider_error", "failed to get task status")
		return
	}
	a.json(w, http.StatusOK, videoStatusResponse{
		ID:        job.ID,
		Status:    string(job.Status),
		ResultURL: job.ResultURL,
		Error:     job.ErrorMessage,
	})
}

// VideoJob returns the recorded history row for a workflow, including the
// stored artifact location once the job finished.
func (a *App) VideoJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "job_id"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid job id")
		return
	}
	job, err := a.History.GetGenerationJob(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "job not found")
			return
		}
		a.Logger.Error().Err(err).Str("job_id", id.String()).Msg("video: failed to load job")
		a.error(w, http.StatusNotFound, "not_found", "job not found")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"id":          job.ID,
		"kind":        job.Kind,
		"provider":    job.Provider,
		"model":       job.Model,
		"remote_id":   job.RemoteID,
		"status":      job.Status,
		"result_url":  job.ResultURL,
		"storage_key": job.StorageKey,
		"error":       job.Error,
		"created_at":  job.CreatedAt,
		"updated_at":  job.UpdatedAt,
	})
}
