package searchtext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/net/html"
)

// LineWidth is the wrap width for rendered HTML.
const LineWidth = 80

var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"div": true, "dl": true, "dt": true, "dd": true, "fieldset": true,
	"figure": true, "footer": true, "form": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "header": true,
	"hr": true, "li": true, "main": true, "nav": true, "ol": true,
	"p": true, "pre": true, "section": true, "table": true, "tr": true,
	"ul": true,
}

var skippedElements = map[string]bool{
	"head": true, "script": true, "style": true, "noscript": true, "template": true,
}

// HTMLToText renders an HTML fragment as plain text wrapped at LineWidth.
func HTMLToText(input string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return "", err
	}

	var paragraphs []string
	var current strings.Builder
	flush := func() {
		text := strings.Join(strings.Fields(current.String()), " ")
		if text != "" {
			paragraphs = append(paragraphs, wordwrap.String(text, LineWidth))
		}
		current.Reset()
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			current.WriteString(n.Data)
			return
		case html.ElementNode:
			if skippedElements[n.Data] {
				return
			}
			switch {
			case n.Data == "br":
				flush()
				return
			case n.Data == "pre":
				flush()
				if text := strings.TrimRight(goquery.NewDocumentFromNode(n).Text(), "\n"); text != "" {
					paragraphs = append(paragraphs, text)
				}
				return
			case n.Data == "td" || n.Data == "th":
				current.WriteString(" ")
			case blockElements[n.Data]:
				flush()
				defer flush()
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range doc.Nodes {
		walk(n)
	}
	flush()

	return strings.Join(paragraphs, "\n"), nil
}
