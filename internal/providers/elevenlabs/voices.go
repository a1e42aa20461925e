package elevenlabs

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ErrNoVoiceForLanguage is returned when no voice matches the requested tag.
var ErrNoVoiceForLanguage = errors.New("elevenlabs: no voice for requested language")

// MatchVoice selects the voice whose language label best matches the
// requested BCP-47 tag. Voices without a parseable language label are
// skipped; ties resolve to the first listed voice, which mirrors the vendor's
// own ordering.
func MatchVoice(voices []Voice, requested string) (*Voice, error) {
	want, err := language.Parse(strings.TrimSpace(requested))
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: parse language %q: %w", requested, err)
	}

	var tags []language.Tag
	var candidates []int
	for i, voice := range voices {
		label := voiceLanguage(voice)
		if label == "" {
			continue
		}
		tag, err := language.Parse(label)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		candidates = append(candidates, i)
	}
	if len(tags) == 0 {
		return nil, ErrNoVoiceForLanguage
	}

	matcher := language.NewMatcher(tags)
	_, index, confidence := matcher.Match(want)
	if confidence == language.No {
		return nil, ErrNoVoiceForLanguage
	}
	voice := voices[candidates[index]]
	return &voice, nil
}

func voiceLanguage(voice Voice) string {
	for _, key := range []string{"language", "locale"} {
		if v := strings.TrimSpace(voice.Labels[key]); v != "" {
			return v
		}
	}
	return ""
}
