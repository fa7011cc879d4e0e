package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

var (
	darkCodeStyle = styles.Register(chroma.MustNewStyle("clipstash-dark", chroma.StyleEntries{
		chroma.Text:          "#fafafa",
		chroma.Error:         "#ef4444",
		chroma.Comment:       "#737373",
		chroma.Keyword:       "#22c55e",
		chroma.Operator:      "#fafafa",
		chroma.Punctuation:   "#a1a1aa",
		chroma.NameBuiltin:   "#22c55e",
		chroma.NameFunction:  "#22c55e",
		chroma.NameTag:       "#22c55e",
		chroma.NameAttribute: "#a1a1aa",
		chroma.LiteralString: "#a3e635",
		chroma.LiteralNumber: "#f97316",
	}))
	lightCodeStyle = styles.Register(chroma.MustNewStyle("clipstash-light", chroma.StyleEntries{
		chroma.Text:          "#171717",
		chroma.Error:         "#b91c1c",
		chroma.Comment:       "#737373",
		chroma.Keyword:       "#15803d",
		chroma.Operator:      "#171717",
		chroma.Punctuation:   "#525252",
		chroma.NameBuiltin:   "#15803d",
		chroma.NameFunction:  "#15803d",
		chroma.NameTag:       "#15803d",
		chroma.NameAttribute: "#525252",
		chroma.LiteralString: "#4d7c0f",
		chroma.LiteralNumber: "#c2410c",
	}))
)

// Highlight colours text when a chroma lexer recognises it as source code.
// It reports false for prose.
func Highlight(text string, opts Options) (string, bool) {
	lexer := lexers.Analyse(text)
	if lexer == nil {
		return "", false
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		return "", false
	}
	style := lightCodeStyle
	if opts.Dark {
		style = darkCodeStyle
	}

	var b strings.Builder
	if err := formatters.TTY256.Format(&b, style, it); err != nil {
		return "", false
	}
	return b.String(), true
}
