package handlers

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"mediagen/internal/db"
	"mediagen/internal/domain"
	"mediagen/internal/infra"
	"mediagen/internal/providers/elevenlabs"
	"mediagen/internal/providers/hugging"
)

func newTestApp() (*App, *fakeHistory, *fakeStore) {
	history := &fakeHistory{}
	store := &fakeStore{}
	discard := zerolog.New(io.Discard)
	logger := infra.Logger(discard)
	app := &App{
		History:        history,
		Files:          store,
		Logger:         &logger,
		DefaultVoiceID: "default-voice",
		SpeechModel:    "eleven_multilingual_v2",
		VideoModel:     "gen-2",
	}
	return app, history, store
}

type fakeSpeech struct {
	asset    *elevenlabs.SpeechAsset
	err      error
	voices   []elevenlabs.Voice
	voiceErr error
	lastReq  elevenlabs.SpeechRequest
}

func (f *fakeSpeech) Synthesize(_ context.Context, req elevenlabs.SpeechRequest) (*elevenlabs.SpeechAsset, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.asset, nil
}

func (f *fakeSpeech) Voices(_ context.Context) ([]elevenlabs.Voice, error) {
	if f.voiceErr != nil {
		return nil, f.voiceErr
	}
	return f.voices, nil
}

type fakeImages struct {
	asset   *hugging.ImageAsset
	err     error
	lastReq hugging.ImageRequest
}

func (f *fakeImages) GenerateImage(_ context.Context, req hugging.ImageRequest) (*hugging.ImageAsset, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.asset, nil
}

func (f *fakeImages) Model() string { return "black-forest-labs/FLUX.1-schnell" }

type watchCall struct {
	historyID uuid.UUID
	jobID     string
}

type fakeVideos struct {
	job     *domain.Job
	err     error
	lastReq domain.VideoRequest

	mu      sync.Mutex
	watched chan watchCall
}

func (f *fakeVideos) Submit(_ context.Context, req domain.VideoRequest) (*domain.Job, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.job, nil
}

func (f *fakeVideos) Watch(historyID uuid.UUID, jobID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.watched != nil {
		f.watched <- watchCall{historyID: historyID, jobID: jobID}
	}
}

type fakePoller struct {
	job *domain.Job
	err error
}

func (f *fakePoller) TaskStatus(_ context.Context, jobID string) (*domain.Job, error) {
	if f.err != nil {
		return nil, f.err
	}
	job := *f.job
	job.ID = jobID
	return &job, nil
}

type fakeStore struct {
	keys map[string][]byte
}

func (f *fakeStore) Write(_ context.Context, key string, data []byte) (string, error) {
	if f.keys == nil {
		f.keys = map[string][]byte{}
	}
	f.keys[key] = data
	return key, nil
}

func (f *fakeStore) PublicURL(key string) string {
	return "http://files.test/static/" + key
}

// fakeHistory is an in-memory JobHistory used instead of the pgx-backed
// queries.
type fakeHistory struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]db.GenerationJob
	assets    []db.InsertGeneratedAssetParams
	createErr error
}

func (f *fakeHistory) CreateGenerationJob(_ context.Context, arg db.CreateGenerationJobParams) (uuid.UUID, error) {
	if f.createErr != nil {
		return uuid.Nil, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rows == nil {
		f.rows = map[uuid.UUID]db.GenerationJob{}
	}
	id := uuid.New()
	f.rows[id] = db.GenerationJob{
		ID:       id,
		Kind:     arg.Kind,
		Provider: arg.Provider,
		Model:    arg.Model,
		RemoteID: arg.RemoteID,
		Status:   "PENDING",
	}
	return id, nil
}

func (f *fakeHistory) CompleteGenerationJob(_ context.Context, arg db.CompleteGenerationJobParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[arg.ID]
	if !ok {
		return domain.ErrNotFound
	}
	row.Status = "SUCCEEDED"
	row.ResultURL = &arg.ResultURL
	row.StorageKey = &arg.StorageKey
	f.rows[arg.ID] = row
	return nil
}

func (f *fakeHistory) FailGenerationJob(_ context.Context, arg db.FailGenerationJobParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[arg.ID]
	if !ok {
		return domain.ErrNotFound
	}
	row.Status = "FAILED"
	row.Error = &arg.Error
	f.rows[arg.ID] = row
	return nil
}

func (f *fakeHistory) GetGenerationJob(_ context.Context, id uuid.UUID) (db.GenerationJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return db.GenerationJob{}, domain.ErrNotFound
	}
	return row, nil
}

func (f *fakeHistory) InsertGeneratedAsset(_ context.Context, arg db.InsertGeneratedAssetParams) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assets = append(f.assets, arg)
	return uuid.New(), nil
}

func (f *fakeHistory) row(id uuid.UUID) (db.GenerationJob, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	return row, ok
}
