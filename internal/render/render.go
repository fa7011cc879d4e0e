// Package render turns stored clips into terminal text for previews.
package render

import (
	"fmt"
	"os"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"

	"github.com/stormlightlabs/clipstash/internal/clip"
	"github.com/stormlightlabs/clipstash/internal/searchtext"
	"github.com/stormlightlabs/clipstash/internal/shared"
)

const defaultWidth = 80

type Options struct {
	Width int
	Dark  bool
	// Plain skips ANSI styling. HTML is then shown as markdown source.
	Plain bool
}

// Detect fills Plain from the environment's colour profile (NO_COLOR,
// dumb terminals, pipes).
func (o Options) Detect() Options {
	if termenv.EnvColorProfile() == termenv.Ascii {
		o.Plain = true
	}
	return o
}

func (o Options) width() int {
	if o.Width <= 0 {
		return defaultWidth
	}
	return o.Width
}

// Clip renders the payload of c.
func Clip(c clip.Clip, opts Options) (string, error) {
	switch c.Type {
	case clip.HTML:
		md, err := htmltomarkdown.ConvertString(c.Text())
		if err != nil {
			return "", fmt.Errorf("convert html: %w", err)
		}
		if opts.Plain {
			return md, nil
		}
		return Markdown(md, opts)
	case clip.RTF:
		return wrap(searchtext.RTFToText(c.Text()), opts), nil
	case clip.File:
		uris, err := c.Files()
		if err != nil {
			return "", err
		}
		var b strings.Builder
		for _, uri := range uris {
			b.WriteString("• " + uri + "\n")
		}
		return b.String(), nil
	case clip.Image:
		return image(c, opts), nil
	default:
		text := shared.NormalizeLineEndings(c.Text())
		if !opts.Plain {
			if out, ok := Highlight(text, opts); ok {
				return out, nil
			}
		}
		return wrap(text, opts), nil
	}
}

func wrap(s string, opts Options) string {
	return wordwrap.String(shared.NormalizeLineEndings(s), opts.width())
}

func image(c clip.Clip, opts Options) string {
	path := c.Text()
	head := "image " + path
	if info, err := os.Stat(path); err == nil {
		head = fmt.Sprintf("image %s (%d bytes)", path, info.Size())
	} else {
		head += " (missing)"
	}
	if c.SearchText == "" {
		return head + "\n"
	}
	return head + "\n\n" + wrap(c.SearchText, opts) + "\n"
}

// Markdown renders markdown with the clipstash theme.
func Markdown(md string, opts Options) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithStyles(theme(opts.Dark)), glamour.WithWordWrap(opts.width()))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

func theme(dark bool) ansi.StyleConfig {
	fg, bg, code := "#171717", "#fafafa", "#e5e5e5"
	if dark {
		fg, bg, code = "#fafafa", "#0a0a0a", "#1f1f1f"
	}
	heading := ansi.StyleBlock{
		StylePrimitive: ansi.StylePrimitive{
			Color:       shared.StringPtr("#22c55e"),
			Bold:        shared.BoolPtr(true),
			BlockSuffix: "\n",
		},
	}
	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color:           shared.StringPtr(fg),
				BackgroundColor: shared.StringPtr(bg),
			},
		},
		Heading: heading,
		H1:      heading,
		H2:      heading,
		H3:      heading,
		Text:    ansi.StylePrimitive{Color: shared.StringPtr(fg)},
		BlockQuote: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color:       shared.StringPtr("#737373"),
				Italic:      shared.BoolPtr(true),
				BlockPrefix: "> ",
			},
		},
		List: ansi.StyleList{LevelIndent: 2},
		Item: ansi.StylePrimitive{BlockPrefix: "• "},
		CodeBlock: ansi.StyleCodeBlock{
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{
					BackgroundColor: shared.StringPtr(code),
					BlockPrefix:     "\n",
					BlockSuffix:     "\n",
				},
			},
		},
		Paragraph: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{BlockPrefix: "\n", BlockSuffix: "\n"},
		},
		Link:     ansi.StylePrimitive{Color: shared.StringPtr("#22c55e"), Underline: shared.BoolPtr(true)},
		LinkText: ansi.StylePrimitive{Color: shared.StringPtr("#22c55e"), Bold: shared.BoolPtr(true)},
	}
}
