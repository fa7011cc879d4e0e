// Package clip holds the clip model shared by the store, intake and views.
package clip

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Type is the kind of payload a clip carries. The integer value is what
// the database stores.
type Type int

const (
	Text Type = iota
	Image
	File
	HTML
	RTF
)

// Reserved labels. Both always exist.
const (
	LabelPinned    = "pinned"
	LabelFavourite = "favourite"
)

var typeNames = []string{"text", "image", "file", "html", "rtf"}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("type(%d)", int(t))
	}
	return typeNames[t]
}

// Valid reports whether t is a known clip type.
func (t Type) Valid() bool {
	return t >= Text && t <= RTF
}

// Compressed reports whether payloads of this type are gzip-compressed at rest.
func (t Type) Compressed() bool {
	return t == Text || t == HTML || t == RTF
}

// ParseType converts a lowercase type name to a Type.
func ParseType(s string) (Type, error) {
	for i, name := range typeNames {
		if strings.EqualFold(s, name) {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown clip type: %q", s)
}

func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown clip type: %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(b []byte) error {
	parsed, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Clip is a single persisted clipboard event.
//
// For images Data is the blob path, for files a JSON list of URIs, and for
// the text types the raw content.
type Clip struct {
	ID         int64    `json:"id"`
	Type       Type     `json:"clip_type"`
	Data       []byte   `json:"data"`
	SearchText string   `json:"search_text"`
	Timestamp  int64    `json:"timestamp"`
	Labels     []string `json:"labels"`
}

// Same reports whether two clips carry the same payload.
func (c Clip) Same(other Clip) bool {
	return c.Type == other.Type && string(c.Data) == string(other.Data)
}

// Text returns the payload as a string. Images yield their blob path.
func (c Clip) Text() string {
	return string(c.Data)
}

// Files decodes the file URI list of a File clip.
func (c Clip) Files() ([]string, error) {
	if c.Type != File {
		return nil, fmt.Errorf("clip %d is %s, not file", c.ID, c.Type)
	}
	var uris []string
	if err := json.Unmarshal(c.Data, &uris); err != nil {
		return nil, err
	}
	return uris, nil
}

// EncodeFiles is the canonical payload for a list of file URIs.
func EncodeFiles(uris []string) ([]byte, error) {
	if uris == nil {
		uris = []string{}
	}
	return json.Marshal(uris)
}
