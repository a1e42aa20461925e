package elevenlabs

import (
	"errors"
	"testing"
)

func TestMatchVoiceExactLanguage(t *testing.T) {
	voices := []Voice{
		{ID: "v-en", Name: "Rachel", Labels: map[string]string{"language": "en"}},
		{ID: "v-es", Name: "Mateo", Labels: map[string]string{"language": "es"}},
		{ID: "v-id", Name: "Sari", Labels: map[string]string{"language": "id"}},
	}

	voice, err := MatchVoice(voices, "es")
	if err != nil {
		t.Fatalf("match voice: %v", err)
	}
	if voice.ID != "v-es" {
		t.Fatalf("voice = %q, want v-es", voice.ID)
	}
}

func TestMatchVoiceRegionalVariantFallsBackToBase(t *testing.T) {
	voices := []Voice{
		{ID: "v-en", Labels: map[string]string{"language": "en"}},
		{ID: "v-es", Labels: map[string]string{"language": "es"}},
	}

	voice, err := MatchVoice(voices, "es-MX")
	if err != nil {
		t.Fatalf("match voice: %v", err)
	}
	if voice.ID != "v-es" {
		t.Fatalf("voice = %q, want the base-language voice", voice.ID)
	}
}

func TestMatchVoiceLocaleLabel(t *testing.T) {
	voices := []Voice{
		{ID: "v-1", Labels: map[string]string{"locale": "id-ID"}},
	}

	voice, err := MatchVoice(voices, "id")
	if err != nil {
		t.Fatalf("match voice: %v", err)
	}
	if voice.ID != "v-1" {
		t.Fatalf("voice = %q", voice.ID)
	}
}

func TestMatchVoiceNoCandidates(t *testing.T) {
	voices := []Voice{
		{ID: "v-1", Labels: map[string]string{"accent": "american"}},
		{ID: "v-2", Labels: map[string]string{"language": "not a tag!!"}},
	}

	_, err := MatchVoice(voices, "en")
	if !errors.Is(err, ErrNoVoiceForLanguage) {
		t.Fatalf("error = %v, want ErrNoVoiceForLanguage", err)
	}
}

func TestMatchVoiceRejectsUnparsableRequest(t *testing.T) {
	voices := []Voice{
		{ID: "v-1", Labels: map[string]string{"language": "en"}},
	}

	if _, err := MatchVoice(voices, "!!"); err == nil {
		t.Fatal("expected an error for an unparsable tag")
	}
}
