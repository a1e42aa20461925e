package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestSynthesizeOmitsVoiceSettingsWhenUnset(t *testing.T) {
	transport := &captureTransport{responses: map[string]responseStub{}}
	client := newTestClient(t, transport)
	transport.responses["/v1/text-to-speech/voice-1"] = responseStub{
		status: http.StatusOK,
		header: http.Header{"Content-Type": []string{"audio/mpeg"}},
		body:   []byte("mp3-bytes"),
	}

	asset, err := client.Synthesize(context.Background(), SpeechRequest{
		Text:    "hello there",
		VoiceID: "voice-1",
	})
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if string(asset.Data) != "mp3-bytes" {
		t.Fatalf("data = %q", asset.Data)
	}
	if asset.Format != "audio/mpeg" {
		t.Fatalf("format = %q", asset.Format)
	}

	var payload map[string]any
	if err := json.Unmarshal(transport.lastBody, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload["text"] != "hello there" {
		t.Fatalf("text = %v", payload["text"])
	}
	if payload["model_id"] != "eleven_multilingual_v2" {
		t.Fatalf("model_id = %v", payload["model_id"])
	}
	if _, ok := payload["voice_settings"]; ok {
		t.Fatalf("voice_settings should be omitted when unset, got %v", payload["voice_settings"])
	}
	if got := transport.lastHeader.Get("xi-api-key"); got != "test-key" {
		t.Fatalf("xi-api-key = %q", got)
	}
}

func TestSynthesizeTransmitsVoiceSettings(t *testing.T) {
	transport := &captureTransport{responses: map[string]responseStub{}}
	client := newTestClient(t, transport)
	transport.responses["/v1/text-to-speech/voice-2"] = responseStub{
		status: http.StatusOK,
		body:   []byte("mp3-bytes"),
	}

	if _, err := client.Synthesize(context.Background(), SpeechRequest{
		Text:     "hola",
		VoiceID:  "voice-2",
		Settings: &VoiceSettings{Stability: 0.5, SimilarityBoost: 0.75},
	}); err != nil {
		t.Fatalf("synthesize: %v", err)
	}

	var payload struct {
		VoiceSettings *VoiceSettings `json:"voice_settings"`
	}
	if err := json.Unmarshal(transport.lastBody, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.VoiceSettings == nil {
		t.Fatal("voice_settings missing")
	}
	if payload.VoiceSettings.Stability != 0.5 || payload.VoiceSettings.SimilarityBoost != 0.75 {
		t.Fatalf("voice_settings = %+v", payload.VoiceSettings)
	}
}

func TestSynthesizeErrorDetail(t *testing.T) {
	transport := &captureTransport{responses: map[string]responseStub{}}
	client := newTestClient(t, transport)
	transport.responses["/v1/text-to-speech/voice-3"] = responseStub{
		status: http.StatusUnauthorized,
		body:   []byte(`{"detail": {"message": "invalid api key"}}`),
	}

	_, err := client.Synthesize(context.Background(), SpeechRequest{Text: "hi", VoiceID: "voice-3"})
	if err == nil || !strings.Contains(err.Error(), "invalid api key") {
		t.Fatalf("error = %v, want the structured detail message", err)
	}
}

func TestVoicesDecodesCatalog(t *testing.T) {
	transport := &captureTransport{responses: map[string]responseStub{}}
	client := newTestClient(t, transport)
	transport.setJSONResponse("/v1/voices", map[string]any{
		"voices": []map[string]any{
			{"voice_id": "v-1", "name": "Rachel", "labels": map[string]string{"language": "en"}},
			{"voice_id": "v-2", "name": "Mateo", "labels": map[string]string{"language": "es"}},
		},
	})

	voices, err := client.Voices(context.Background())
	if err != nil {
		t.Fatalf("voices: %v", err)
	}
	if len(voices) != 2 {
		t.Fatalf("len(voices) = %d, want 2", len(voices))
	}
	if voices[0].ID != "v-1" || voices[0].Name != "Rachel" {
		t.Fatalf("first voice = %+v", voices[0])
	}
	if voices[1].Labels["language"] != "es" {
		t.Fatalf("second voice labels = %v", voices[1].Labels)
	}
}

func newTestClient(t *testing.T, transport http.RoundTripper) *Client {
	t.Helper()
	client, err := NewClient(Options{
		APIKey:     "test-key",
		HTTPClient: &http.Client{Transport: transport},
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

type captureTransport struct {
	responses  map[string]responseStub
	lastBody   []byte
	lastHeader http.Header
}

type responseStub struct {
	status int
	header http.Header
	body   []byte
}

func (c *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.lastHeader = req.Header.Clone()
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
