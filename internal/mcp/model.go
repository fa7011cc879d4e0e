package mcp

import (
	"strings"

	"github.com/stormlightlabs/clipstash/internal/clip"
	"github.com/stormlightlabs/clipstash/internal/tray"
)

// SearchClipsInput defines the input schema for the search_clips tool.
type SearchClipsInput struct {
	Contains      string   `json:"contains,omitempty" jsonschema:"Substring the clip text must contain"`
	Regex         string   `json:"regex,omitempty" jsonschema:"Regular expression the clip text must match"`
	Fuzzy         string   `json:"fuzzy,omitempty" jsonschema:"Fuzzy pattern; results are ranked by match score"`
	Labels        []string `json:"labels,omitempty" jsonschema:"Labels the clip must carry, e.g. pinned or favourite"`
	ExcludeLabels []string `json:"exclude_labels,omitempty" jsonschema:"Labels the clip must not carry"`
	After         int64    `json:"after,omitempty" jsonschema:"Only clips newer than this unix time in seconds"`
	Before        int64    `json:"before,omitempty" jsonschema:"Only clips older than this unix time in seconds"`
	Limit         int64    `json:"limit,omitempty" jsonschema:"Maximum number of results"`
}

// Constraints converts the input to search constraints.
func (in SearchClipsInput) Constraints() []clip.Constraint {
	var cs []clip.Constraint
	if in.Contains != "" {
		cs = append(cs, clip.Contains(in.Contains))
	}
	if in.Regex != "" {
		cs = append(cs, clip.Regex(in.Regex))
	}
	if in.Fuzzy != "" {
		cs = append(cs, clip.Fuzzy(in.Fuzzy))
	}
	for _, l := range in.Labels {
		cs = append(cs, clip.WithLabel(l))
	}
	for _, l := range in.ExcludeLabels {
		cs = append(cs, clip.WithoutLabel(l))
	}
	if in.After > 0 {
		cs = append(cs, clip.After(in.After))
	}
	if in.Before > 0 {
		cs = append(cs, clip.Before(in.Before))
	}
	if in.Limit > 0 {
		cs = append(cs, clip.MaxResults(in.Limit))
	}
	return cs
}

// ClipSummary is one search hit.
type ClipSummary struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Preview   string `json:"preview"`
	Timestamp int64  `json:"timestamp"`
}

const previewWidth = 120

func NewClipSummary(c clip.Clip) ClipSummary {
	return ClipSummary{ID: c.ID, Type: c.Type.String(), Preview: tray.Trim(c.SearchText, previewWidth), Timestamp: c.Timestamp}
}

// SearchClipsOutput defines the output schema for the search_clips tool.
type SearchClipsOutput struct {
	Clips []ClipSummary `json:"clips"`
	Total int           `json:"total"`
}

// ClipInput names a single clip.
type ClipInput struct {
	ID int64 `json:"id" jsonschema:"Clip id"`
}

// GetClipOutput defines the output schema for the get_clip tool.
type GetClipOutput struct {
	ID         int64    `json:"id"`
	Type       string   `json:"type"`
	Content    string   `json:"content" jsonschema:"Clip text; the blob path for images and one URI per line for files"`
	SearchText string   `json:"search_text"`
	Timestamp  int64    `json:"timestamp"`
	Labels     []string `json:"labels"`
}

func NewGetClipOutput(c clip.Clip) (GetClipOutput, error) {
	content := c.Text()
	if c.Type == clip.File {
		uris, err := c.Files()
		if err != nil {
			return GetClipOutput{}, err
		}
		content = strings.Join(uris, "\n")
	}
	labels := c.Labels
	if labels == nil {
		labels = []string{}
	}
	return GetClipOutput{
		ID:         c.ID,
		Type:       c.Type.String(),
		Content:    content,
		SearchText: c.SearchText,
		Timestamp:  c.Timestamp,
		Labels:     labels,
	}, nil
}

type ListLabelsInput struct{}

type ListLabelsOutput struct {
	Labels []string `json:"labels"`
}

type SwitchPinnedOutput struct {
	ID     int64 `json:"id"`
	Pinned bool  `json:"pinned"`
}

// ChangeLabelInput defines the input schema for the change_label tool.
type ChangeLabelInput struct {
	ID    int64  `json:"id" jsonschema:"Clip id"`
	Label string `json:"label" jsonschema:"Label name"`
	Add   bool   `json:"add" jsonschema:"true to add the label, false to remove it"`
}

// DoneOutput acknowledges tools without a payload.
type DoneOutput struct {
	ID int64 `json:"id"`
	OK bool  `json:"ok"`
}
