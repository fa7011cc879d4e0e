// Package searchtext derives the bounded search string stored with a clip.
package searchtext

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/stormlightlabs/clipstash/internal/clip"
)

// MaxLen is the byte bound on stored search text.
const MaxLen = 1000

// Extract normalises a payload of the given type to search text. Image
// payloads are raw image bytes and go through the OCR engine.
func Extract(ctx context.Context, t clip.Type, payload []byte) (string, error) {
	switch t {
	case clip.Text, clip.File:
		return Bound(string(payload)), nil
	case clip.HTML:
		text, err := HTMLToText(string(payload))
		if err != nil {
			return "", fmt.Errorf("html to text: %w", err)
		}
		return Bound(text), nil
	case clip.RTF:
		return Bound(RTFToText(string(payload))), nil
	case clip.Image:
		lines, err := recognize(ctx, payload)
		if err != nil {
			return "", err
		}
		return Bound(strings.Join(lines, "\n")), nil
	default:
		return "", fmt.Errorf("unknown clip type: %d", int(t))
	}
}

// Bound trims surrounding whitespace, drops invalid UTF-8 and truncates to
// MaxLen bytes on a codepoint boundary.
func Bound(s string) string {
	s = strings.TrimSpace(strings.ToValidUTF8(s, ""))
	if len(s) <= MaxLen {
		return s
	}
	cut := MaxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
