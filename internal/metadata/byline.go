package metadata

import (
	"strings"
	"time"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/mrjoshuak/summabrowse/internal/textutil"
)

// Byline sources, most trusted first. Meta tags are read from their
// content attribute, elements from their text.
var bylinePaths = []string{
	"//meta[@property='article:author']/@content",
	"//meta[@property='og:article:author']/@content",
	"//meta[@name='author']/@content",
	"//meta[@name='sailthru.author']/@content",
	"//meta[@name='byl']/@content",
	"//meta[@name='twitter:creator']/@content",
	"//meta[@name='dc.creator']/@content",
	"//meta[@name='dcterms.creator']/@content",
	"//a[@rel='author']",
	"//*[@itemprop='author']",
	"//*[contains(@class, 'byline')]",
	"//*[contains(@class, 'author')]",
}

var bylinePrefixes = []string{"by ", "author: ", "written by ", "posted by ", "published by ", "reported by "}

var bylineSuffixes = []string{" | author", " | writer", " | reporter", " | staff"}

// Byline returns the page author, or "" when none is declared.
func Byline(root *html.Node) string {
	if root == nil {
		return ""
	}
	for _, p := range bylinePaths {
		node, err := htmlquery.Query(root, p)
		if err != nil || node == nil {
			continue
		}
		if v := cleanByline(htmlquery.InnerText(node)); v != "" {
			return v
		}
	}
	return ""
}

func cleanByline(s string) string {
	s = textutil.CleanText(s)
	for _, prefix := range bylinePrefixes {
		if hasPrefixFold(s, prefix) {
			s = strings.TrimSpace(s[len(prefix):])
		}
	}
	for _, suffix := range bylineSuffixes {
		if hasSuffixFold(s, suffix) {
			s = strings.TrimSpace(s[:len(s)-len(suffix)])
		}
	}
	return s
}

// hasPrefixFold is strings.HasPrefix ignoring case. Offsets stay valid for s.
func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func hasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}

// Publication date sources, most trusted first.
var publishedPaths = []string{
	"//meta[@property='article:published_time']/@content",
	"//meta[@property='og:article:published_time']/@content",
	"//meta[@name='pubdate']/@content",
	"//meta[@name='publishdate']/@content",
	"//meta[@name='date']/@content",
	"//meta[@itemprop='datePublished']/@content",
	"//*[@itemprop='datePublished']/@datetime",
	"//time/@datetime",
	"//meta[@name='DC.date.issued']/@content",
	"//meta[@name='dcterms.created']/@content",
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"20060102T150405Z",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC822,
	time.RFC822Z,
	time.RFC850,
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// Published returns the first declared publication time that parses, in
// UTC truncated to the second. It is zero when none is found.
func Published(root *html.Node) time.Time {
	if root == nil {
		return time.Time{}
	}
	for _, p := range publishedPaths {
		nodes, err := htmlquery.QueryAll(root, p)
		if err != nil {
			continue
		}
		for _, n := range nodes {
			if t := ParseDate(htmlquery.InnerText(n)); !t.IsZero() {
				return t
			}
		}
	}
	return time.Time{}
}

// ParseDate parses the date formats commonly found in page metadata.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Truncate(time.Second)
		}
	}
	return time.Time{}
}
