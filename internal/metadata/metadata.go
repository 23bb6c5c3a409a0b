// Package metadata reads page-level metadata (title, language, canonical URL,
// description, site name, byline, publication date) from a parsed HTML tree.
package metadata

import (
	"net/url"
	"strings"
	"time"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
	"golang.org/x/text/language"

	"github.com/mrjoshuak/summabrowse/internal/textutil"
)

// UnknownLanguage is reported when a page declares no language.
const UnknownLanguage = "unknown"

// Metadata describes a page.
type Metadata struct {
	Title       string `json:"title"`
	Language    string `json:"language"`
	Canonical   string `json:"canonical,omitempty"`
	Description string `json:"description,omitempty"`
	SiteName    string `json:"siteName,omitempty"`
	Byline      string `json:"byline,omitempty"`
	// Published is the publication time, zero when the page declares none.
	Published time.Time `json:"published,omitempty"`
}

// XPath expressions, in order of preference, for each field
var (
	titlePaths       = []string{"//title"}
	languagePaths    = []string{"/html/@lang", "//meta[@http-equiv='content-language']/@content"}
	canonicalPaths   = []string{"//link[@rel='canonical']/@href", "//meta[@property='og:url']/@content"}
	descriptionPaths = []string{"//meta[@name='description']/@content", "//meta[@property='og:description']/@content"}
	siteNamePaths    = []string{"//meta[@property='og:site_name']/@content", "//meta[@name='application-name']/@content"}
)

// Read extracts metadata from the document rooted at root.
func Read(root *html.Node) Metadata {
	if root == nil {
		return Metadata{Language: UnknownLanguage}
	}

	md := Metadata{
		Title:       first(root, titlePaths),
		Canonical:   first(root, canonicalPaths),
		Description: first(root, descriptionPaths),
		SiteName:    first(root, siteNamePaths),
		Byline:      Byline(root),
		Published:   Published(root),
	}
	md.Language = CanonicalLanguage(first(root, languagePaths))
	return md
}

// first returns the cleaned text of the first expression that yields a
// non-empty value. Malformed expressions are skipped.
func first(root *html.Node, paths []string) string {
	for _, p := range paths {
		node, err := htmlquery.Query(root, p)
		if err != nil || node == nil {
			continue
		}
		if v := textutil.CleanText(htmlquery.InnerText(node)); v != "" {
			return v
		}
	}
	return ""
}

// CanonicalLanguage normalizes a BCP 47 tag ("EN-us" becomes "en-US").
// Unparseable values are returned as given; empty values become "unknown".
func CanonicalLanguage(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return UnknownLanguage
	}
	t, err := language.Parse(tag)
	if err != nil {
		return tag
	}
	return t.String()
}

// Domain returns the host name of a page URL without port.
func Domain(pageURL string) string {
	if pageURL == "" {
		return ""
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
