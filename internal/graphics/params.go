package graphics

import (
	"fmt"
	"strings"
)

// ContentType enumerates the supported graphic categories.
type ContentType string

const (
	ContentTypeInfographics  ContentType = "infographics"
	ContentTypeCharts        ContentType = "charts"
	ContentTypeIllustrations ContentType = "illustrations"
	ContentTypeStoryboards   ContentType = "storyboards"
)

// StyleParams carries the visual direction for a graphic. Zero values take
// the documented defaults during normalization.
type StyleParams struct {
	Style       string // default "modern"
	ColorScheme string // default "brand_primary"
	Tone        string // default "professional"
	Complexity  string // default "simple"
}

// TechnicalParams carries rendering settings for the FLUX model. Width and
// height are derived from AspectRatio during normalization and need not be
// supplied by callers.
type TechnicalParams struct {
	AspectRatio    string  // default "1:1"
	Width          int
	Height         int
	Format         string  // default "PNG"
	GuidanceScale  float64 // default 7.5
	InferenceSteps int     // default 4; FLUX.1-schnell is tuned for 4 steps
}

// DataParams applies to charts and infographics.
type DataParams struct {
	Source         string // default "inline_json"
	ChartType      string // default "bar"
	DataLabels     *bool  // default true
	LegendPosition string // default "bottom"
}

// Request is the normalized input for one graphic generation.
type Request struct {
	Description string
	ContentType ContentType
	Data        map[string]any
	Style       StyleParams
	Technical   TechnicalParams
	DataOpts    DataParams
}

// aspectDimensions maps aspect-ratio tags to concrete FLUX dimensions.
var aspectDimensions = map[string][2]int{
	"16:9":      {1024, 576},
	"9:16":      {576, 1024},
	"4:3":       {1024, 768},
	"1:1":       {1024, 1024},
	"square":    {1024, 1024},
	"portrait":  {576, 1024},
	"landscape": {1024, 576},
}

// Normalize validates the request once at the boundary and fills every
// optional field with its documented default. An empty content type is
// allowed and means a generic graphic.
func Normalize(req Request) (Request, error) {
	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		return Request{}, fmt.Errorf("graphics: description is required")
	}

	switch req.ContentType {
	case "", ContentTypeInfographics, ContentTypeCharts, ContentTypeIllustrations, ContentTypeStoryboards:
	default:
		return Request{}, fmt.Errorf("graphics: unsupported content type %q", req.ContentType)
	}

	if req.Style.Style == "" {
		req.Style.Style = "modern"
	}
	if req.Style.ColorScheme == "" {
		req.Style.ColorScheme = "brand_primary"
	}
	if req.Style.Tone == "" {
		req.Style.Tone = "professional"
	}
	if req.Style.Complexity == "" {
		req.Style.Complexity = "simple"
	}

	if req.Technical.AspectRatio == "" {
		req.Technical.AspectRatio = "1:1"
	}
	if dims, ok := aspectDimensions[strings.ToLower(req.Technical.AspectRatio)]; ok {
		req.Technical.Width, req.Technical.Height = dims[0], dims[1]
	} else if req.Technical.Width == 0 || req.Technical.Height == 0 {
		req.Technical.Width, req.Technical.Height = 1024, 1024
	}
	if req.Technical.Format == "" {
		req.Technical.Format = "PNG"
	}
	if req.Technical.GuidanceScale == 0 {
		req.Technical.GuidanceScale = 7.5
	}
	if req.Technical.InferenceSteps == 0 {
		req.Technical.InferenceSteps = 4
	}

	if req.DataOpts.Source == "" {
		req.DataOpts.Source = "inline_json"
	}
	if req.DataOpts.ChartType == "" {
		req.DataOpts.ChartType = "bar"
	}
	if req.DataOpts.DataLabels == nil {
		labels := true
		req.DataOpts.DataLabels = &labels
	}
	if req.DataOpts.LegendPosition == "" {
		req.DataOpts.LegendPosition = "bottom"
	}

	return req, nil
}
