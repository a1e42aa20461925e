package runway

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

	"mediagen/internal/domain"
	"mediagen/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("runway: api key is required")

// Options configures the Runway ML tasks client.
type Options struct {
	APIKey         string
	BaseURL        string
	Model          string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the Runway ML tasks API. It issues exactly
// one network call per method: StartGeneration submits a job, TaskStatus
// fetches one point-in-time snapshot. Looping belongs to the workflow layer,
// which keeps this client stateless.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *infra.Logger
}

type taskRequest struct {
	Model      string  `json:"model"`
	PromptText string  `json:"promptText"`
	Seed       *int    `json:"seed,omitempty"`
	Duration   *int    `json:"duration,omitempty"`
	Ratio      *string `json:"ratio,omitempty"`
	Watermark  *bool   `json:"watermark,omitempty"`
}

type taskResponse struct {
	UUID         string `json:"uuid"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Output       struct {
		URL string `json:"url"`
	} `json:"output"`
}

type errorResponse struct {
	Error   string `json:"error"`
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
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.runwayml.com/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gen-2"
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

// StartGeneration submits a video generation job and returns it in PENDING
// state with the identifier issued by the remote service. Optional request
// fields are transmitted only when present; absent keys let the remote
// service fall back to its own defaults.
func (c *Client) StartGeneration(ctx context.Context, req domain.VideoRequest) (*domain.Job, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, &domain.SubmissionError{Cause: domain.ErrInvalidPrompt}
	}
	payload := taskRequest{
		Model:      c.model,
		PromptText: prompt,
		Seed:       req.Seed,
		Duration:   req.Duration,
		Ratio:      req.Ratio,
		Watermark:  req.Watermark,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &domain.SubmissionError{Cause: fmt.Errorf("runway: encode request: %w", err)}
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tasks", bytes.NewReader(body))
	if err != nil {
		return nil, &domain.SubmissionError{Cause: fmt.Errorf("runway: build request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &domain.SubmissionError{Cause: fmt.Errorf("runway: http request: %w", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.SubmissionError{Cause: fmt.Errorf("runway: read response: %w", err)}
	}
	if resp.StatusCode >= 300 {
		return nil, &domain.SubmissionError{
			Detail: responseDetail(raw),
			Cause:  fmt.Errorf("runway: status %d", resp.StatusCode),
		}
	}

	var decoded taskResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &domain.SubmissionError{
			Detail: strings.TrimSpace(string(raw)),
			Cause:  fmt.Errorf("runway: decode response: %w", err),
		}
	}
	if strings.TrimSpace(decoded.UUID) == "" {
		// A 2xx response without an identifier is a malformed success,
		// surfaced as the same error kind as a transport failure.
		return nil, &domain.SubmissionError{
			Detail: strings.TrimSpace(string(raw)),
			Cause:  errors.New("runway: response missing task uuid"),
		}
	}

	c.logger.Debug().
		Str("task_id", decoded.UUID).
		Str("model", c.model).
		Msg("runway: generation task submitted")

	return &domain.Job{ID: decoded.UUID, Status: domain.StatusPending, RawStatus: decoded.Status}, nil
}

// TaskStatus fetches one status snapshot for the given job identifier.
func (c *Client) TaskStatus(ctx context.Context, jobID string) (*domain.Job, error) {
	id := strings.TrimSpace(jobID)
	if id == "" {
		return nil, &domain.StatusCheckError{Cause: errors.New("runway: job id is required")}
	}
	endpoint := c.baseURL + "/tasks/" + url.PathEscape(id)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &domain.StatusCheckError{JobID: id, Cause: fmt.Errorf("runway: build request: %w", err)}
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &domain.StatusCheckError{JobID: id, Cause: fmt.Errorf("runway: http request: %w", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.StatusCheckError{JobID: id, Cause: fmt.Errorf("runway: read response: %w", err)}
	}
	if resp.StatusCode >= 300 {
		return nil, &domain.StatusCheckError{
			JobID:  id,
			Detail: responseDetail(raw),
			Cause:  fmt.Errorf("runway: status %d", resp.StatusCode),
		}
	}

	var decoded taskResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &domain.StatusCheckError{
			JobID:  id,
			Detail: strings.TrimSpace(string(raw)),
			Cause:  fmt.Errorf("runway: decode response: %w", err),
		}
	}

	return &domain.Job{
		ID:           id,
		Status:       domain.ParseStatus(decoded.Status),
		RawStatus:    decoded.Status,
		ResultURL:    strings.TrimSpace(decoded.Output.URL),
		ErrorMessage: strings.TrimSpace(decoded.ErrorMessage),
	}, nil
}

// Download fetches a finished artifact from its result location.
func (c *Client) Download(ctx context.Context, resultURL string) ([]byte, string, error) {
	parsed, err := url.Parse(strings.TrimSpace(resultURL))
	if err != nil || parsed.Scheme == "" {
		return nil, "", fmt.Errorf("runway: invalid result url: %s", resultURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("runway: build download request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("runway: download artifact: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("runway: download status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("runway: read artifact: %w", err)
	}
	format := resp.Header.Get("Content-Type")
	if format == "" {
		format = "video/mp4"
	}
	return data, format, nil
}

// responseDetail extracts a diagnostic string from an error body: the
// structured message when the body parses as JSON, the raw text otherwise.
func responseDetail(raw []byte) string {
	var detail errorResponse
	if err := json.Unmarshal(raw, &detail); err == nil {
		if detail.Error != "" {
			return detail.Error
		}
		if detail.Message != "" {
			return detail.Message
		}
	}
	return strings.TrimSpace(string(raw))
}
