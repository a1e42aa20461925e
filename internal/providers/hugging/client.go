package hugging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"mediagen/internal/infra"
)

// ErrMissingAPIToken indicates that the client was configured without credentials.
var ErrMissingAPIToken = errors.New("hugging: api token is required")

// Options configures the Hugging Face inference client.
type Options struct {
	APIToken       string
	BaseURL        string
	Model          string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs text-to-image calls against the Hugging Face inference API.
// The FLUX endpoints respond synchronously with raw image bytes, so unlike
// the video path there is no job to poll.
type Client struct {
	apiToken   string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *infra.Logger
}

// ImageRequest captures the inputs for one generation call.
type ImageRequest struct {
	Prompt         string
	Width          int
	Height         int
	GuidanceScale  float64
	InferenceSteps int
}

// ImageAsset is the normalized result.
type ImageAsset struct {
	Data   []byte
	Format string
}

type inferencePayload struct {
	Inputs     string          `json:"inputs"`
	Parameters inferenceParams `json:"parameters"`
}

type inferenceParams struct {
	Width             int     `json:"width,omitempty"`
	Height            int     `json:"height,omitempty"`
	GuidanceScale     float64 `json:"guidance_scale,omitempty"`
	NumInferenceSteps int     `json:"num_inference_steps,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIToken) == "" {
		return nil, ErrMissingAPIToken
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 90 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api-inference.huggingface.co"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "black-forest-labs/FLUX.1-schnell"
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
		apiToken:   strings.TrimSpace(opts.APIToken),
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

// GenerateImage invokes the inference API once and returns the image bytes.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (*ImageAsset, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, errors.New("hugging: prompt is required")
	}
	payload := inferencePayload{
		Inputs: prompt,
		Parameters: inferenceParams{
			Width:             req.Width,
			Height:            req.Height,
			GuidanceScale:     req.GuidanceScale,
			NumInferenceSteps: req.InferenceSteps,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("hugging: encode request: %w", err)
	}
	endpoint := c.baseURL + "/models/" + c.model
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("hugging: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("hugging: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("hugging: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		var detail errorResponse
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Error != "" {
			return nil, fmt.Errorf("hugging: status %d: %s", resp.StatusCode, detail.Error)
		}
		return nil, fmt.Errorf("hugging: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	format := resp.Header.Get("Content-Type")
	if format == "" || strings.Contains(format, "json") {
		format = "image/png"
	}

	c.logger.Debug().
		Str("model", c.model).
		Int("bytes", len(raw)).
		Msg("hugging: generated image")

	return &ImageAsset{Data: raw, Format: format}, nil
}
