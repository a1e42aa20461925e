package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"mediagen/internal/db"
	"mediagen/internal/domain"
	"mediagen/internal/infra"
	"mediagen/internal/providers/elevenlabs"
	"mediagen/internal/providers/hugging"
)

// SpeechClient is the TTS provider surface the audio handlers need.
type SpeechClient interface {
	Synthesize(ctx context.Context, req elevenlabs.SpeechRequest) (*elevenlabs.SpeechAsset, error)
	Voices(ctx context.Context) ([]elevenlabs.Voice, error)
}

// ImageClient is the text-to-image provider surface.
type ImageClient interface {
	GenerateImage(ctx context.Context, req hugging.ImageRequest) (*hugging.ImageAsset, error)
	Model() string
}

// VideoManager submits video jobs and carries them to a terminal state.
type VideoManager interface {
	Submit(ctx context.Context, req domain.VideoRequest) (*domain.Job, error)
	Watch(historyID uuid.UUID, jobID string)
}

// StatusPoller fetches one live status snapshot from the remote service.
type StatusPoller interface {
	TaskStatus(ctx context.Context, jobID string) (*domain.Job, error)
}

// ArtifactStore persists generated bytes and exposes their public URLs.
type ArtifactStore interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
	PublicURL(key string) string
}

// JobHistory records generation outcomes. db.Queries satisfies it; tests use
// an in-memory fake.
type JobHistory interface {
	CreateGenerationJob(ctx context.Context, arg db.CreateGenerationJobParams) (uuid.UUID, error)
	CompleteGenerationJob(ctx context.Context, arg db.CompleteGenerationJobParams) error
	FailGenerationJob(ctx context.Context, arg db.FailGenerationJobParams) error
	GetGenerationJob(ctx context.Context, id uuid.UUID) (db.GenerationJob, error)
	InsertGeneratedAsset(ctx context.Context, arg db.InsertGeneratedAssetParams) (uuid.UUID, error)
}

// App is the handler container; one instance serves all routes.
type App struct {
	Speech         SpeechClient
	Images         ImageClient
	Videos         VideoManager
	Poller         StatusPoller
	Files          ArtifactStore
	History        JobHistory
	Logger         *infra.Logger
	DefaultVoiceID string
	SpeechModel    string
	VideoModel     string
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// error writes a caller-facing failure. Messages must stay free of
// credentials and internal details; diagnostics go to the log instead.
func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, errorBody{Error: kind, Message: message})
}

func mustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return data
}
