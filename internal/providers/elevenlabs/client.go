package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"mediagen/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("elevenlabs: api key is required")

// Options configures the ElevenLabs text-to-speech client.
type Options struct {
	APIKey         string
	BaseURL        string
	Model          string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the ElevenLabs API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *infra.Logger
}

// VoiceSettings tunes delivery: higher stability is steadier but less
// expressive; higher similarity boost tracks the original voice more closely.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// SpeechRequest captures the inputs for one synthesis call.
type SpeechRequest struct {
	Text     string
	VoiceID  string
	Settings *VoiceSettings
}

// SpeechAsset is the normalized synthesis result.
type SpeechAsset struct {
	Data   []byte
	Format string
}

// Voice describes one vendor voice.
type Voice struct {
	ID     string            `json:"voice_id"`
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels"`
}

type speechPayload struct {
	Text          string         `json:"text"`
	ModelID       string         `json:"model_id"`
	VoiceSettings *VoiceSettings `json:"voice_settings,omitempty"`
}

type voicesResponse struct {
	Voices []Voice `json:"voices"`
}

type errorResponse struct {
	Detail struct {
		Message string `json:"message"`
	} `json:"detail"`
	Message string `json:"message"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.elevenlabs.io/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "eleven_multilingual_v2"
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// Synthesize converts text to speech with the given voice. Voice settings are
// transmitted inline only when provided, so omitted settings fall back to the
// voice's stored configuration.
func (c *Client) Synthesize(ctx context.Context, req SpeechRequest) (*SpeechAsset, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, errors.New("elevenlabs: text is required")
	}
	voiceID := strings.TrimSpace(req.VoiceID)
	if voiceID == "" {
		return nil, errors.New("elevenlabs: voice id is required")
	}
	payload := speechPayload{
		Text:          text,
		ModelID:       c.model,
		VoiceSettings: req.Settings,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: encode request: %w", err)
	}
	endpoint := c.baseURL + "/text-to-speech/" + url.PathEscape(voiceID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("xi-api-key", c.apiKey)
	httpReq.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("elevenlabs: status %d: %s", resp.StatusCode, responseDetail(raw))
	}

	format := resp.Header.Get("Content-Type")
	if format == "" {
		format = "audio/mpeg"
	}

	c.logger.Debug().
		Str("voice_id", voiceID).
		Str("model", c.model).
		Int("bytes", len(raw)).
		Msg("elevenlabs: synthesized speech")

	return &SpeechAsset{Data: raw, Format: format}, nil
}

// Voices lists the voices available to the configured account.
func (c *Client) Voices(ctx context.Context) ([]Voice, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: build request: %w", err)
	}
	httpReq.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("elevenlabs: status %d: %s", resp.StatusCode, responseDetail(raw))
	}

	var decoded voicesResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("elevenlabs: decode response: %w", err)
	}
	return decoded.Voices, nil
}

func responseDetail(raw []byte) string {
	var detail errorResponse
	if err := json.Unmarshal(raw, &detail); err == nil {
		if detail.Detail.Message != "" {
			return detail.Detail.Message
		}
		if detail.Message != "" {
			return detail.Message
		}
	}
	return strings.TrimSpace(string(raw))
}
