// Package highlight marks occurrences of a query in a document and removes
// those marks again. Apply followed by Clear restores the document's text and
// node structure.
package highlight

import (
	"regexp"
	"unicode/utf8"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/mrjoshuak/summabrowse/internal/dom"
)

// Mark element attributes
const (
	MarkClass = "summabrowse-highlight"
	MarkStyle = "background-color: #fef08a; padding: 2px 4px; border-radius: 3px;"
)

// MinQueryLength is the shortest query, in characters, that is highlighted.
const MinQueryLength = 2

var markMatcher = cascadia.MustCompile("mark." + MarkClass)

// skipped elements hold text that is never displayed or is user editable.
var skipped = map[atom.Atom]bool{
	atom.Textarea: true,
	atom.Title:    true,
}

// Apply removes existing highlights, then wraps every case-insensitive
// occurrence of query in the body in a mark element. The query is matched
// literally. Queries shorter than MinQueryLength or that are not valid
// UTF-8 leave the document clean and return 0. Apply returns the number of
// marks inserted.
func Apply(doc *dom.Document, query string) int {
	Clear(doc)

	if utf8.RuneCountInString(query) < MinQueryLength {
		return 0
	}
	body := doc.Body()
	if body.Length() == 0 {
		return 0
	}

	// Malformed queries, such as invalid UTF-8, do not compile and mark nothing.
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
	if err != nil {
		return 0
	}

	var targets []*html.Node
	collectText(body.Get(0), &targets)

	marks := 0
	for _, n := range targets {
		marks += split(n, re)
	}
	return marks
}

// collectText gathers the displayed text nodes below n.
func collectText(n *html.Node, out *[]*html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			*out = append(*out, c)
		case html.ElementNode:
			if dom.IsNonRendered(c) || skipped[c.DataAtom] || isMark(c) {
				continue
			}
			collectText(c, out)
		}
	}
}

// split replaces text node n with alternating text and mark siblings.
func split(n *html.Node, re *regexp.Regexp) int {
	text := n.Data
	matches := re.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return 0
	}

	parent := n.Parent
	last := 0
	for _, m := range matches {
		if m[0] > last {
			parent.InsertBefore(textNode(text[last:m[0]]), n)
		}
		parent.InsertBefore(newMark(text[m[0]:m[1]]), n)
		last = m[1]
	}
	if last < len(text) {
		parent.InsertBefore(textNode(text[last:]), n)
	}
	parent.RemoveChild(n)
	return len(matches)
}

func newMark(text string) *html.Node {
	mark := &html.Node{
		Type:     html.ElementNode,
		Data:     "mark",
		DataAtom: atom.Mark,
		Attr: []html.Attribute{
			{Key: "class", Val: MarkClass},
			{Key: "style", Val: MarkStyle},
		},
	}
	mark.AppendChild(textNode(text))
	return mark
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func isMark(n *html.Node) bool {
	return n.DataAtom == atom.Mark && markMatcher.Match(n)
}

// Clear replaces every highlight mark with its plain text and merges the
// resulting adjacent text nodes. It returns the number of marks removed.
func Clear(doc *dom.Document) int {
	marks := doc.Find(markMatcher)
	if marks.Length() == 0 {
		return 0
	}

	var parents []*html.Node
	seen := make(map[*html.Node]bool)
	for _, m := range marks.Nodes {
		parent := m.Parent
		if parent == nil {
			continue
		}
		parent.InsertBefore(textNode(textContent(m)), m)
		parent.RemoveChild(m)
		if !seen[parent] {
			seen[parent] = true
			parents = append(parents, parent)
		}
	}

	for _, p := range parents {
		normalize(p)
	}
	return marks.Length()
}

// Count returns the number of highlight marks in the document.
func Count(doc *dom.Document) int {
	return doc.Find(markMatcher).Length()
}

// normalize merges adjacent text children of n and drops empty ones.
func normalize(n *html.Node) {
	c := n.FirstChild
	for c != nil {
		next := c.NextSibling
		if c.Type != html.TextNode {
			c = next
			continue
		}
		for next != nil && next.Type == html.TextNode {
			c.Data += next.Data
			following := next.NextSibling
			n.RemoveChild(next)
			next = following
		}
		if c.Data == "" {
			n.RemoveChild(c)
		}
		c = next
	}
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var s string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		s += textContent(c)
	}
	return s
}
