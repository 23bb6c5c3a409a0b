// Package session manages one content-extraction session per page: the parsed
// document, its highlight state and the dispatch of page messages.
package session

import (
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mrjoshuak/summabrowse/internal/dom"
	"github.com/mrjoshuak/summabrowse/internal/extraction"
	"github.com/mrjoshuak/summabrowse/internal/highlight"
	"github.com/mrjoshuak/summabrowse/internal/metadata"
	"github.com/mrjoshuak/summabrowse/internal/textutil"
	"github.com/mrjoshuak/summabrowse/types"
)

// Page is a single page session. All methods are safe for concurrent use;
// calls are serialized because the document is mutated by highlighting.
type Page struct {
	mu        sync.Mutex
	doc       *dom.Document
	url       string
	extractor *extraction.Extractor
	logger    zerolog.Logger
}

// Option configures a Page.
type Option func(*Page)

// WithExtractor sets the extractor used for content and statistics.
func WithExtractor(e *extraction.Extractor) Option {
	return func(p *Page) {
		p.extractor = e
	}
}

// WithLogger sets the page logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Page) {
		p.logger = logger
	}
}

// Open starts a session over doc, loaded from pageURL.
func Open(doc *dom.Document, pageURL string, opts ...Option) *Page {
	p := &Page{
		doc:    doc,
		url:    pageURL,
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.extractor == nil {
		p.extractor = extraction.New(extraction.WithLogger(p.logger))
	}
	return p
}

// URL returns the page URL.
func (p *Page) URL() string {
	return p.url
}

// Document returns the page document.
func (p *Page) Document() *dom.Document {
	return p.doc
}

// Content extracts the main content of the page.
func (p *Page) Content() types.Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.extractor.Extract(p.doc)
}

// Metadata reads the page metadata.
func (p *Page) Metadata() metadata.Metadata {
	p.mu.Lock()
	defer p.mu.Unlock()
	return metadata.Read(p.doc.Root())
}

// Statistics combines the extracted content with the page metadata.
func (p *Page) Statistics() types.PageStatistics {
	p.mu.Lock()
	defer p.mu.Unlock()

	content := p.extractor.Extract(p.doc)
	md := metadata.Read(p.doc.Root())

	return types.PageStatistics{
		Title:            md.Title,
		URL:              p.url,
		Domain:           metadata.Domain(p.url),
		WordCount:        content.WordCount,
		ReadingTime:      textutil.ReadingTime(content.WordCount),
		CharacterCount:   utf8.RuneCountInString(content.Text),
		ExtractionMethod: content.ExtractionMethod,
		Language:         md.Language,
	}
}

// Selection returns the text and markup of the elements matching selector.
// An empty selector is an empty selection.
func (p *Page) Selection(selector string) (types.SelectionResult, error) {
	if selector == "" {
		return types.SelectionResult{}, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	sel, err := p.doc.QueryAll(selector)
	if err != nil {
		return types.SelectionResult{}, err
	}

	text := textutil.CleanText(dom.RenderedText(sel))
	return types.SelectionResult{
		Text:   text,
		HTML:   dom.OuterHTML(sel),
		Length: utf8.RuneCountInString(text),
	}, nil
}

// Highlight marks query in the page, replacing earlier highlights, and
// returns the number of marks.
func (p *Page) Highlight(query string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := highlight.Apply(p.doc, query)
	p.logger.Debug().Str("query", query).Int("marks", n).Msg("highlighted")
	return n
}

// ClearHighlights removes all highlights and returns how many there were.
func (p *Page) ClearHighlights() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return highlight.Clear(p.doc)
}

// Highlights returns the number of highlight marks on the page.
func (p *Page) Highlights() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return highlight.Count(p.doc)
}

// HTML renders the current document, highlights included.
func (p *Page) HTML() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.HTML()
}
