package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"mediagen/internal/db"
	"mediagen/internal/graphics"
	"mediagen/internal/providers/hugging"
)

type graphicsStyleParams struct {
	Style       string `json:"style"`
	ColorScheme string `json:"color_scheme"`
	Tone        string `json:"tone"`
	Complexity  string `json:"complexity"`
}

type graphicsTechnicalParams struct {
	AspectRatio    string  `json:"aspect_ratio"`
	Format         string  `json:"format"`
	GuidanceScale  float64 `json:"guidance_scale"`
	InferenceSteps int     `json:"num_inference_steps"`
}

type graphicsDataParams struct {
	Source         string `json:"data_source"`
	ChartType      string `json:"chart_type"`
	DataLabels     *bool  `json:"data_labels"`
	LegendPosition string `json:"legend_position"`
}

type graphicsGenerateRequest struct {
	TextDescription string                   `json:"text_description"`
	ContentType     string                   `json:"content_type"`
	Data            map[string]any           `json:"data"`
	StyleParams     *graphicsStyleParams     `json:"style_params"`
	TechnicalParams *graphicsTechnicalParams `json:"technical_params"`
	DataParams      *graphicsDataParams      `json:"data_params"`
}

type graphicsResponse struct {
	Message   string `json:"message"`
	OutputURL string `json:"output_url"`
	JobID     string `json:"job_id"`
}

// GraphicsGenerate validates and defaults the structured parameters,
// assembles the model prompt, and runs one synchronous image generation.
func (a *App) GraphicsGenerate(w http.ResponseWriter, r *http.Request) {
	var req graphicsGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	normalized, err := graphics.Normalize(toGraphicsRequest(req))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	prompt := graphics.BuildPrompt(normalized)

	historyID, err := a.History.CreateGenerationJob(r.Context(), db.CreateGenerationJobParams{
		Kind:     "graphics",
		Provider: "huggingface",
		Model:    a.Images.Model(),
		Prompt:   mustJSON(map[string]any{"description": normalized.Description, "prompt": prompt}),
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("graphics: failed to record job")
		a.error(w, http.StatusInternalServerError, "internal", "failed to record job")
		return
	}

	asset, err := a.Images.GenerateImage(r.Context(), hugging.ImageRequest{
		Prompt:         prompt,
		Width:          normalized.Technical.Width,
		Height:         normalized.Technical.Height,
		GuidanceScale:  normalized.Technical.GuidanceScale,
		InferenceSteps: normalized.Technical.InferenceSteps,
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("graphics: generation failed")
		_ = a.History.FailGenerationJob(r.Context(), db.FailGenerationJobParams{ID: historyID, Error: err.Error()})
		a.error(w, http.StatusBadGateway, "provider_error", "failed to generate graphic")
		return
	}

	key := "graphics/" + uuid.NewString() + extensionForFormat(normalized.Technical.Format)
	stored, err := a.Files.Write(r.Context(), key, asset.Data)
	if err != nil {
		a.Logger.Error().Err(err).Msg("graphics: failed to store artifact")
		_ = a.History.FailGenerationJob(r.Context(), db.FailGenerationJobParams{ID: historyID, Error: err.Error()})
		a.error(w, http.StatusInternalServerError, "internal", "failed to store graphic")
		return
	}

	url := a.Files.PublicURL(stored)
	_, _ = a.History.InsertGeneratedAsset(r.Context(), db.InsertGeneratedAssetParams{
		JobID:      historyID,
		Kind:       "graphics",
		StorageKey: stored,
		MIME:       asset.Format,
		Bytes:      int64(len(asset.Data)),
	})
	if err := a.History.CompleteGenerationJob(r.Context(), db.CompleteGenerationJobParams{
		ID:         historyID,
		ResultURL:  url,
		StorageKey: stored,
	}); err != nil {
		a.Logger.Error().Err(err).Msg("graphics: failed to record completion")
	}

	a.json(w, http.StatusOK, graphicsResponse{
		Message:   "graphics generation successful",
		OutputURL: url,
		JobID:     historyID.String(),
	})
}

func toGraphicsRequest(req graphicsGenerateRequest) graphics.Request {
	out := graphics.Request{
		Description: req.TextDescription,
		ContentType: graphics.ContentType(req.ContentType),
		Data:        req.Data,
	}
	if req.StyleParams != nil {
		out.Style = graphics.StyleParams{
			Style:       req.StyleParams.Style,
			ColorScheme: req.StyleParams.ColorScheme,
			Tone:        req.StyleParams.Tone,
			Complexity:  req.StyleParams.Complexity,
		}
	}
	if req.TechnicalParams != nil {
		out.Technical = graphics.TechnicalParams{
			AspectRatio:    req.TechnicalParams.AspectRatio,
			Format:         req.TechnicalParams.Format,
			GuidanceScale:  req.TechnicalParams.GuidanceScale,
			InferenceSteps: req.TechnicalParams.InferenceSteps,
		}
	}
	if req.DataParams != nil {
		out.DataOpts = graphics.DataParams{
			Source:         req.DataParams.Source,
			ChartType:      req.DataParams.ChartType,
			DataLabels:     req.DataParams.DataLabels,
			LegendPosition: req.DataParams.LegendPosition,
		}
	}
	return out
}

func extensionForFormat(format string) string {
	switch strings.ToUpper(format) {
	case "JPEG", "JPG":
		return ".jpg"
	case "WEBP":
		return ".webp"
	default:
		return ".png"
	}
}
