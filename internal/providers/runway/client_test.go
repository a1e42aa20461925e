package runway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"mediagen/internal/domain"
)

func TestStartGenerationOmitsAbsentOptionalFields(t *testing.T) {
	transport := &captureTransport{responses: map[string]responseStub{}}
	client := newTestClient(t, transport)
	transport.setJSONResponse("/v1/tasks", map[string]any{"uuid": "task-1", "status": "PENDING"})

	job, err := client.StartGeneration(context.Background(), domain.VideoRequest{Prompt: "a red balloon"})
	if err != nil {
		t.Fatalf("start generation: %v", err)
	}
	if job.ID != "task-1" {
		t.Fatalf("job id = %q, want task-1", job.ID)
	}
	if job.Status != domain.StatusPending {
		t.Fatalf("status = %q, want PENDING", job.Status)
	}

	var payload map[string]any
	if err := json.Unmarshal(transport.lastBody, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload["promptText"] != "a red balloon" {
		t.Fatalf("promptText = %v", payload["promptText"])
	}
	for _, key := range []string{"seed", "duration", "ratio", "watermark"} {
		if _, ok := payload[key]; ok {
			t.Fatalf("payload should omit absent field %q entirely, got %v", key, payload[key])
		}
	}
}

func TestStartGenerationTransmitsRatioVerbatim(t *testing.T) {
	transport := &captureTransport{responses: map[string]responseStub{}}
	client := newTestClient(t, transport)
	transport.setJSONResponse("/v1/tasks", map[string]any{"uuid": "task-2"})

	ratio := "9:16"
	seed := 123
	if _, err := client.StartGeneration(context.Background(), domain.VideoRequest{
		Prompt: "vertical clip",
		Ratio:  &ratio,
		Seed:   &seed,
	}); err != nil {
		t.Fatalf("start generation: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(transport.lastBody, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload["ratio"] != "9:16" {
		t.Fatalf("ratio = %v, want 9:16 unmodified", payload["ratio"])
	}
	if payload["seed"] != float64(123) {
		t.Fatalf("seed = %v, want 123", payload["seed"])
	}
}

func TestStartGenerationNonJSONErrorBody(t *testing.T) {
	transport := &captureTransport{responses: map[string]responseStub{}}
	client := newTestClient(t, transport)
	transport.responses["/v1/tasks"] = responseStub{
		status: http.StatusInternalServerError,
		body:   []byte("internal error"),
	}

	_, err := client.StartGeneration(context.Background(), domain.VideoRequest{Prompt: "anything"})
	var subErr *domain.SubmissionError
	if !errors.As(err, &subErr) {
		t.Fatalf("error = %T, want *domain.SubmissionError", err)
	}
	if subErr.Detail != "internal error" {
		t.Fatalf("detail = %q, want the literal response text", subErr.Detail)
	}
}

func TestStartGenerationStructuredErrorBody(t *testing.T) {
	transport := &captureTransport{responses: map[string]responseStub{}}
	client := newTestClient(t, transport)
	transport.responses["/v1/tasks"] = responseStub{
		status: http.StatusBadRequest,
		body:   []byte(`{"error": "prompt too long"}`),
	}

	_, err := client.StartGeneration(context.Background(), domain.VideoRequest{Prompt: "anything"})
	var subErr *domain.SubmissionError
	if !errors.As(err, &subErr) {
		t.Fatalf("error = %T, want *domain.SubmissionError", err)
	}
	if subErr.Detail != "prompt too long" {
		t.Fatalf("detail = %q, want structured message", subErr.Detail)
	}
}

func TestStartGenerationMissingIdentifier(t *testing.T) {
	transport := &captureTransport{responses: map[string]responseStub{}}
	client := newTestClient(t, transport)
	transport.setJSONResponse("/v1/tasks", map[string]any{"status": "PENDING"})

	_, err := client.StartGeneration(context.Background(), domain.VideoRequest{Prompt: "anything"})
	var subErr *domain.SubmissionError
	if !errors.As(err, &subErr) {
		t.Fatalf("malformed success should be a *domain.SubmissionError, got %T", err)
	}
}

func TestTaskStatusSnapshot(t *testing.T) {
	transport := &captureTransport{responses: map[string]responseStub{}}
	client := newTestClient(t, transport)
	transport.setJSONResponse("/v1/tasks/task-3", map[string]any{
		"status": "SUCCEEDED",
		"output": map[string]any{"url": "https://cdn.example.com/out.mp4"},
	})

	job, err := client.TaskStatus(context.Background(), "task-3")
	if err != nil {
		t.Fatalf("task status: %v", err)
	}
	if job.Status != domain.StatusSucceeded {
		t.Fatalf("status = %q, want SUCCEEDED", job.Status)
	}
	if job.ResultURL != "https://cdn.example.com/out.mp4" {
		t.Fatalf("result url = %q", job.ResultURL)
	}

	// Polling is idempotent: an unchanged remote state yields an identical
	// snapshot.
	again, err := client.TaskStatus(context.Background(), "task-3")
	if err != nil {
		t.Fatalf("second task status: %v", err)
	}
	if *again != *job {
		t.Fatalf("snapshots differ: %+v vs %+v", again, job)
	}
}

func TestTaskStatusUnknownValue(t *testing.T) {
	transport := &captureTransport{responses: map[string]responseStub{}}
	client := newTestClient(t, transport)
	transport.setJSONResponse("/v1/tasks/task-4", map[string]any{"status": "WARMING_UP"})

	job, err := client.TaskStatus(context.Background(), "task-4")
	if err != nil {
		t.Fatalf("task status: %v", err)
	}
	if job.Status != domain.StatusUnknown {
		t.Fatalf("status = %q, want UNKNOWN for a vendor-added value", job.Status)
	}
	if job.RawStatus != "WARMING_UP" {
		t.Fatalf("raw status = %q, want the vendor value preserved", job.RawStatus)
	}
}

func TestTaskStatusTransportError(t *testing.T) {
	transport := &captureTransport{responses: map[string]responseStub{}}
	client := newTestClient(t, transport)
	transport.responses["/v1/tasks/task-5"] = responseStub{
		status: http.StatusBadGateway,
		body:   []byte("upstream unavailable"),
	}

	_, err := client.TaskStatus(context.Background(), "task-5")
	var statusErr *domain.StatusCheckError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %T, want *domain.StatusCheckError", err)
	}
	if statusErr.JobID != "task-5" {
		t.Fatalf("job id = %q, want task-5", statusErr.JobID)
	}
}

func newTestClient(t *testing.T, transport http.RoundTripper) *Client {
	t.Helper()
	client, err := NewClient(Options{
		APIKey:     "test-key",
		Model:      "gen-2",
		HTTPClient: &http.Client{Transport: transport},
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

type captureTransport struct {
	responses map[string]responseStub
	lastBody  []byte
}

type responseStub struct {
	status int
	header http.Header
	body   []byte
}

func (c *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		req.Body.Close()
		c.lastBody = body
	}
	if stub, ok := c.responses[req.URL.Path]; ok {
		return stub.toResponse(), nil
	}
	return &http.Response{
		StatusCode: http.StatusNotFound,
		Body:       io.NopCloser(strings.NewReader("not found")),
	}, nil
}

func (c *captureTransport) setJSONResponse(path string, payload any) {
	body, _ := json.Marshal(payload)
	c.responses[path] = responseStub{
		status: http.StatusOK,
		header: http.Header{"Content-Type": []string{"application/json"}},
		body:   body,
	}
}

func (s responseStub) toResponse() *http.Response {
	header := http.Header{}
	for k, values := range s.header {
		cloned := make([]string, len(values))
		copy(cloned, values)
		header[k] = cloned
	}
	return &http.Response{
		StatusCode: s.status,
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(s.body)),
	}
}
