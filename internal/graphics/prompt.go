package graphics

import (
	"fmt"
	"sort"
	"strings"
)

// Descriptor maps translate structured style parameters into phrasing the
// FLUX models respond to; the models work best with concise natural language
// rather than technical specifications.
var (
	styleDescriptors = map[string]string{
		"modern":     "modern, clean, contemporary",
		"corporate":  "professional, corporate, business-like",
		"minimalist": "minimalist, simple, clean",
		"artistic":   "artistic, creative, expressive",
		"technical":  "technical, precise, detailed",
	}

	colorSchemeDescriptors = map[string]string{
		"brand_primary": "professional color palette",
		"vibrant":       "vibrant colors, bright, energetic",
		"high_contrast": "high contrast, bold colors",
		"monochrome":    "monochrome, black and white",
		"pastel":        "soft pastel colors",
		"dark":          "dark theme, muted colors",
	}

	toneDescriptors = map[string]string{
		"professional": "professional",
		"friendly":     "approachable, friendly",
		"serious":      "serious, formal",
		"playful":      "playful, fun",
		"elegant":      "elegant, sophisticated",
	}

	complexityDescriptors = map[string]string{
		"simple":   "clean and simple",
		"detailed": "highly detailed",
		"complex":  "complex, intricate",
	}
)

// BuildPrompt assembles the generation prompt from a normalized request.
func BuildPrompt(req Request) string {
	parts := []string{req.Description}

	var style []string
	if d, ok := styleDescriptors[req.Style.Style]; ok {
		style = append(style, d)
	}
	if d, ok := colorSchemeDescriptors[req.Style.ColorScheme]; ok {
		style = append(style, d)
	}
	if d, ok := toneDescriptors[req.Style.Tone]; ok {
		style = append(style, d)
	}
	if d, ok := complexityDescriptors[req.Style.Complexity]; ok {
		style = append(style, d)
	}
	if len(style) > 0 {
		parts = append(parts, strings.Join(style, ", "))
	}

	switch req.ContentType {
	case ContentTypeInfographics:
		parts = append(parts, "infographic design, data visualization")
		if summary := summarizeData(req.Data); summary != "" {
			parts = append(parts, summary)
		}
		parts = append(parts, "clear layout, visual hierarchy, statistical charts")
	case ContentTypeCharts:
		parts = append(parts, fmt.Sprintf("%s chart, data visualization", req.DataOpts.ChartType))
		if labels, ok := req.Data["labels"].([]any); ok {
			parts = append(parts, fmt.Sprintf("with %d categories", len(labels)))
		}
		parts = append(parts, "clean typography, professional chart design")
	case ContentTypeIllustrations:
		parts = append(parts, "detailed illustration, high quality artwork")
	case ContentTypeStoryboards:
		parts = append(parts, "storyboard layout, sequential panels, narrative flow")
		parts = append(parts, "multiple scenes, visual storytelling")
	}

	parts = append(parts, "high quality", "professional design", "sharp details")
	if composition := compositionHint(req.Technical.AspectRatio); composition != "" {
		parts = append(parts, composition)
	}

	prompt := strings.Join(parts, ", ")
	prompt = strings.ReplaceAll(prompt, ", ,", ",")
	return strings.TrimSpace(strings.ReplaceAll(prompt, "  ", " "))
}

// summarizeData reduces inline chart data to a short descriptive clause;
// FLUX cannot render exact figures, so only scalar values are mentioned.
func summarizeData(data map[string]any) string {
	if len(data) == 0 {
		return ""
	}
	var values []string
	for _, v := range data {
		switch v := v.(type) {
		case string:
			values = append(values, v)
		case int, int64, float64:
			values = append(values, fmt.Sprintf("%v", v))
		}
	}
	if len(values) == 0 {
		return ""
	}
	sort.Strings(values) // map iteration order is random; keep prompts stable
	return "showing data about " + strings.Join(values, ", ")
}

func compositionHint(aspectRatio string) string {
	switch strings.ToLower(aspectRatio) {
	case "16:9", "landscape":
		return "wide composition"
	case "9:16", "portrait":
		return "vertical composition"
	case "1:1", "square":
		return "square composition"
	}
	return ""
}
