package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"mediagen/internal/db"
	"mediagen/internal/middleware"
	"mediagen/internal/providers/elevenlabs"
)

type audioGenerateRequest struct {
	Text            string   `json:"text"`
	VoiceID         string   `json:"voice_id"`
	Stability       *float64 `json:"stability"`
	SimilarityBoost *float64 `json:"similarity_boost"`
}

type audioLanguageRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type audioResponse struct {
	Message string `json:"message"`
	Path    string `json:"path"`
	URL     string `json:"url"`
	JobID   string `json:"job_id"`
}

// AudioGenerate synthesizes speech with an explicit or default voice,
// applying modulation settings when the caller supplies them.
func (a *App) AudioGenerate(w http.ResponseWriter, r *http.Request) {
	var req audioGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Text == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "text is required")
		return
	}
	voiceID := req.VoiceID
	if voiceID == "" {
		voiceID = a.DefaultVoiceID
	}

	speech := elevenlabs.SpeechRequest{
		Text:     req.Text,
		VoiceID:  voiceID,
		Settings: modulationSettings(req.Stability, req.SimilarityBoost),
	}
	a.completeAudio(w, r.Context(), speech, mustJSON(req))
}

// AudioGenerateLanguage picks a voice by language. The request language wins;
// when absent, the locale detected by the middleware (header or GeoIP) is
// used.
func (a *App) AudioGenerateLanguage(w http.ResponseWriter, r *http.Request) {
	var req audioLanguageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Text == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "text is required")
		return
	}
	lang := req.Language
	if lang == "" {
		lang = middleware.LocaleFromContext(r.Context())
	}

	voices, err := a.Speech.Voices(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("audio: failed to list voices")
		a.error(w, http.StatusBadGateway, "provider_error", "failed to fetch voices")
		return
	}
	voice, err := elevenlabs.MatchVoice(voices, lang)
	if err != nil {
		if errors.Is(err, elevenlabs.ErrNoVoiceForLanguage) {
			a.error(w, http.StatusNotFound, "not_found", "no voice available for language "+lang)
			return
		}
		a.error(w, http.StatusBadRequest, "bad_request", "unrecognized language "+lang)
		return
	}

	speech := elevenlabs.SpeechRequest{Text: req.Text, VoiceID: voice.ID}
	a.completeAudio(w, r.Context(), speech, mustJSON(map[string]string{
		"text": req.Text, "language": lang, "voice_id": voice.ID,
	}))
}

// AudioVoices lists the voices available on the provider account.
func (a *App) AudioVoices(w http.ResponseWriter, r *http.Request) {
	voices, err := a.Speech.Voices(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("audio: failed to list voices")
		a.error(w, http.StatusBadGateway, "provider_error", "failed to fetch voices")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"voices": voices})
}

// completeAudio runs the synchronous synthesize-store-record pipeline shared
// by both audio endpoints.
func (a *App) completeAudio(w http.ResponseWriter, ctx context.Context, speech elevenlabs.SpeechRequest, prompt []byte) {
	historyID, err := a.History.CreateGenerationJob(ctx, db.CreateGenerationJobParams{
		Kind:     "audio",
		Provider: "elevenlabs",
		Model:    a.SpeechModel,
		Prompt:   prompt,
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("audio: failed to record job")
		a.error(w, http.StatusInternalServerError, "internal", "failed to record job")
		return
	}

	asset, err := a.Speech.Synthesize(ctx, speech)
	if err != nil {
		a.Logger.Error().Err(err).Str("voice_id", speech.VoiceID).Msg("audio: synthesis failed")
		_ = a.History.FailGenerationJob(ctx, db.FailGenerationJobParams{ID: historyID, Error: err.Error()})
		a.error(w, http.StatusBadGateway, "provider_error", "failed to generate audio")
		return
	}

	key := "audio/" + uuid.NewString() + ".mp3"
	stored, err := a.Files.Write(ctx, key, asset.Data)
	if err != nil {
		a.Logger.Error().Err(err).Msg("audio: failed to store artifact")
		_ = a.History.FailGenerationJob(ctx, db.FailGenerationJobParams{ID: historyID, Error: err.Error()})
		a.error(w, http.StatusInternalServerError, "internal", "failed to store audio")
		return
	}

	url := a.Files.PublicURL(stored)
	_, _ = a.History.InsertGeneratedAsset(ctx, db.InsertGeneratedAssetParams{
		JobID:      historyID,
		Kind:       "audio",
		StorageKey: stored,
		MIME:       asset.Format,
		Bytes:      int64(len(asset.Data)),
	})
	if err := a.History.CompleteGenerationJob(ctx, db.CompleteGenerationJobParams{
		ID:         historyID,
		ResultURL:  url,
		StorageKey: stored,
	}); err != nil {
		a.Logger.Error().Err(err).Msg("audio: failed to record completion")
	}

	a.json(w, http.StatusOK, audioResponse{
		Message: "audio generated successfully",
		Path:    stored,
		URL:     url,
		JobID:   historyID.String(),
	})
}

// modulationSettings builds voice settings when the caller tuned either knob;
// omitted knobs take the reference defaults (0.5 stability, 0.75 similarity).
func modulationSettings(stability, similarity *float64) *elevenlabs.VoiceSettings {
	if stability == nil && similarity == nil {
		return nil
	}
	settings := &elevenlabs.VoiceSettings{Stability: 0.5, SimilarityBoost: 0.75}
	if stability != nil {
		settings.Stability = *stability
	}
	if similarity != nil {
		settings.SimilarityBoost = *similarity
	}
	return settings
}
