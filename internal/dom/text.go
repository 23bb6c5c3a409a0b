package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// nonRendered elements contribute no text to the rendered output.
var nonRendered = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Head:     true,
	atom.Iframe:   true,
	atom.Object:   true,
}

// blockLevel elements are separated from their neighbours by a line break.
var blockLevel = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Dd: true, atom.Details: true, atom.Dialog: true, atom.Div: true,
	atom.Dl: true, atom.Dt: true, atom.Fieldset: true, atom.Figcaption: true,
	atom.Figure: true, atom.Footer: true, atom.Form: true, atom.H1: true,
	atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Header: true, atom.Hr: true, atom.Li: true, atom.Main: true,
	atom.Nav: true, atom.Ol: true, atom.P: true, atom.Pre: true,
	atom.Section: true, atom.Summary: true, atom.Table: true, atom.Tbody: true,
	atom.Thead: true, atom.Tfoot: true, atom.Tr: true, atom.Td: true,
	atom.Th: true, atom.Ul: true, atom.Caption: true, atom.Body: true,
}

// RenderedText approximates what a browser would render as the text of s:
// script-like and hidden elements are skipped and block-level elements are
// separated by newlines. The result is not normalized.
func RenderedText(s *goquery.Selection) string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	for _, n := range s.Nodes {
		writeRendered(&b, n)
	}
	return b.String()
}

func writeRendered(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if nonRendered[n.DataAtom] || hasAttr(n, "hidden") {
			return
		}
		if n.DataAtom == atom.Br {
			b.WriteByte('\n')
			return
		}
	case html.DocumentNode:
	default:
		return
	}

	block := n.Type == html.ElementNode && blockLevel[n.DataAtom]
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeRendered(b, c)
	}
	if block {
		b.WriteByte('\n')
	}
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// IsNonRendered reports whether the text inside n is never displayed.
func IsNonRendered(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && nonRendered[n.DataAtom]
}
