package tray

import (
	"strings"

	"github.com/rivo/uniseg"
)

const (
	ellipsis      = "..."
	fallbackWidth = 20
)

// Trim shortens s to at most width display columns, skipping leading
// whitespace and never splitting a grapheme cluster. Truncated text ends in
// "...". Widths of 6 or less are treated as 20.
func Trim(s string, width int) string {
	if width <= 6 {
		width = fallbackWidth
	}

	var (
		b       strings.Builder
		used    int
		leading = true
	)
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		cluster := g.Str()
		if leading {
			if isSpace(cluster) {
				continue
			}
			leading = false
		}
		w := g.Width()
		if used+w > width {
			b.WriteString(ellipsis)
			break
		}
		used += w
		b.WriteString(cluster)
	}
	return b.String()
}

func isSpace(cluster string) bool {
	switch cluster {
	case " ", "\t", "\n", "\r", "\r\n":
		return true
	}
	return false
}
