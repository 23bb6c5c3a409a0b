// Package dom provides the document abstraction the extraction strategies and
// the highlighter work against: selector queries, subtree cloning, element
// removal and rendered-text versus raw-markup access.
package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Document is a parsed HTML page.
type Document struct {
	doc *goquery.Document
}

// Parse reads and parses an HTML document.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse HTML document: %w", err)
	}
	return &Document{doc: doc}, nil
}

// ParseString parses an HTML document held in a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// FromNode wraps an already parsed node tree.
func FromNode(root *html.Node) *Document {
	return &Document{doc: goquery.NewDocumentFromNode(root)}
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	if d == nil || d.doc == nil || len(d.doc.Nodes) == 0 {
		return nil
	}
	return d.doc.Nodes[0]
}

// Selection returns the whole document as a selection.
func (d *Document) Selection() *goquery.Selection {
	return d.doc.Selection
}

// Body returns the body element. The HTML parser always synthesizes one.
func (d *Document) Body() *goquery.Selection {
	return d.doc.FindMatcher(bodyMatcher).First()
}

// Find returns every element matching a compiled selector, in document order.
func (d *Document) Find(m goquery.Matcher) *goquery.Selection {
	return d.doc.FindMatcher(m)
}

// First returns the first element matching a compiled selector. The
// selection is empty when nothing matches.
func (d *Document) First(m goquery.Matcher) *goquery.Selection {
	return d.doc.FindMatcher(m).First()
}

// QueryAll compiles selector and returns every matching element.
func (d *Document) QueryAll(selector string) (*goquery.Selection, error) {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return d.Find(m), nil
}

// QueryFirst compiles selector and returns the first matching element.
func (d *Document) QueryFirst(selector string) (*goquery.Selection, error) {
	all, err := d.QueryAll(selector)
	if err != nil {
		return nil, err
	}
	return all.First(), nil
}

// CloneBody returns a detached deep copy of the body element. Mutating the
// copy leaves the document untouched.
func (d *Document) CloneBody() *goquery.Selection {
	return d.Body().Clone()
}

// HTML renders the whole document.
func (d *Document) HTML() (string, error) {
	return goquery.OuterHtml(d.doc.Selection)
}

// RemoveAll detaches every descendant of s that matches m and returns the
// number of elements removed.
func RemoveAll(s *goquery.Selection, m goquery.Matcher) int {
	matches := s.FindMatcher(m)
	n := matches.Length()
	matches.Remove()
	return n
}

// InnerHTML returns the markup inside the first element of s.
func InnerHTML(s *goquery.Selection) string {
	if s == nil || s.Length() == 0 {
		return ""
	}
	h, err := s.Html()
	if err != nil {
		return ""
	}
	return h
}

// OuterHTML returns the markup of every element of s, concatenated.
func OuterHTML(s *goquery.Selection) string {
	if s == nil || s.Length() == 0 {
		return ""
	}
	var b strings.Builder
	s.Each(func(_ int, el *goquery.Selection) {
		h, err := goquery.OuterHtml(el)
		if err == nil {
			b.WriteString(h)
		}
	})
	return b.String()
}

var bodyMatcher = cascadia.MustCompile("body")
