package web

import (
	"bytes"
	"fmt"
	"html"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// codeStyle is the chroma theme used for highlighted clips.
var codeStyle = styles.Register(chroma.MustNewStyle("clipstash-web", chroma.StyleEntries{
	chroma.Text:            "#fafafa",
	chroma.Error:           "#ef4444",
	chroma.Comment:         "#737373",
	chroma.CommentPreproc:  "#a1a1aa",
	chroma.Keyword:         "#22c55e",
	chroma.Operator:        "#fafafa",
	chroma.Punctuation:     "#a1a1aa",
	chroma.Name:            "#fafafa",
	chroma.NameBuiltin:     "#22c55e",
	chroma.NameTag:         "#22c55e",
	chroma.NameAttribute:   "#a1a1aa",
	chroma.NameFunction:    "#22c55e",
	chroma.LiteralString:   "#a3e635",
	chroma.LiteralNumber:   "#f97316",
	chroma.GenericDeleted:  "#ef4444",
	chroma.GenericInserted: "#22c55e",
	chroma.Background:      "#1f1f1f",
}))

// htmlRenderer converts markdown to HTML fragments. Raw HTML in the source
// is omitted and dangerous link targets are dropped, so converted clips are
// safe to embed in a page.
type htmlRenderer struct {
	md goldmark.Markdown
}

func newHTMLRenderer() *htmlRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			&codeHighlightExt{},
		),
		goldmark.WithRendererOptions(
			renderer.WithNodeRenderers(
				util.Prioritized(&classRenderer{}, 100),
			),
		),
	)
	return &htmlRenderer{md: md}
}

// Render converts markdown source to HTML.
func (r *htmlRenderer) Render(source []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(source, &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

type codeHighlightExt struct{}

func (e *codeHighlightExt) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&codeBlockRenderer{}, 100),
	))
}

type codeBlockRenderer struct{}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderCodeBlock)
}

func (r *codeBlockRenderer) renderCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)

	var code bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code.Write(line.Value(source))
	}

	highlighted, err := highlightCode(code.String(), string(n.Language(source)))
	if err != nil {
		_, _ = w.WriteString(preformatted(code.String()))
		return ast.WalkSkipChildren, nil
	}
	_, _ = w.WriteString(highlighted)
	return ast.WalkSkipChildren, nil
}

// highlightCode colours code with chroma. An empty language is guessed
// from the content.
func highlightCode(code, language string) (string, error) {
	var lexer chroma.Lexer
	if language != "" {
		lexer = lexers.Get(language)
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	formatter := chromahtml.New(
		chromahtml.WithLineNumbers(false),
		chromahtml.WithPreWrapper(codeBlockWrapper{}),
	)
	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, codeStyle, iterator); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func preformatted(s string) string {
	return `<pre class="clip-text">` + html.EscapeString(s) + "</pre>\n"
}

type codeBlockWrapper struct{}

func (codeBlockWrapper) Start(code bool, styleAttr string) string {
	if code {
		return fmt.Sprintf(`<div class="code-block"><pre%s>`, styleAttr)
	}
	return `<pre class="code-block">`
}

func (codeBlockWrapper) End(code bool) string {
	if code {
		return "</pre></div>"
	}
	return "</pre>"
}

// classRenderer tags tables, quotes and inline code with page classes.
type classRenderer struct{}

func (r *classRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(extast.KindTable, r.wrap(`<table class="clip-table">`, "</table>\n"))
	reg.Register(ast.KindBlockquote, r.wrap(`<blockquote class="callout">`, "</blockquote>\n"))
	reg.Register(ast.KindCodeSpan, r.wrap(`<code class="code-inline">`, "</code>"))
}

func (r *classRenderer) wrap(open, close string) renderer.NodeRendererFunc {
	return func(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			_, _ = w.WriteString(open)
		} else {
			_, _ = w.WriteString(close)
		}
		return ast.WalkContinue, nil
	}
}
