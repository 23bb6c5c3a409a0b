package summabrowse

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mrjoshuak/summabrowse/internal/dom"
	"github.com/mrjoshuak/summabrowse/internal/extraction"
	"github.com/mrjoshuak/summabrowse/internal/session"
)

// ErrDocumentTooLarge is returned for documents above MaxBufferSize.
var ErrDocumentTooLarge = errors.New("document exceeds maximum buffer size")

// Extractor defines the interface for content extraction.
// Passing nil options uses the options the extractor was created with.
type Extractor interface {
	// ExtractFromHTML extracts the main content from an HTML string
	ExtractFromHTML(html string, options *ExtractionOptions) (*Result, error)

	// ExtractFromReader extracts the main content from an io.Reader
	ExtractFromReader(r io.Reader, options *ExtractionOptions) (*Result, error)

	// Statistics extracts the content and reports page statistics
	Statistics(html string, options *ExtractionOptions) (*PageStatistics, error)

	// Selection returns the text and markup of the elements matching a CSS selector
	Selection(html, selector string) (*SelectionResult, error)
}

type settings struct {
	options ExtractionOptions
	logger  zerolog.Logger
}

// Option represents a function that configures the extractor.
type Option func(*settings)

// WithSanitizedHTML passes the extracted markup through an HTML sanitizer
// that keeps user-generated-content formatting and drops scripts, styles and
// event handlers.
func WithSanitizedHTML(enable bool) Option {
	return func(s *settings) {
		s.options.SanitizeHTML = enable
	}
}

// WithMaxBufferSize sets the largest document, in bytes, the extractor
// accepts. Zero disables the limit.
func WithMaxBufferSize(size int) Option {
	return func(s *settings) {
		s.options.MaxBufferSize = size
	}
}

// WithTimeout sets the timeout duration for extraction.
// This prevents extraction from hanging indefinitely on problematic documents.
func WithTimeout(timeout time.Duration) Option {
	return func(s *settings) {
		s.options.Timeout = timeout
	}
}

// WithPageURL sets the URL reported in statistics.
func WithPageURL(pageURL string) Option {
	return func(s *settings) {
		s.options.PageURL = pageURL
	}
}

// WithLogger sets the logger used to report failing strategies.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// contentExtractor is the concrete implementation of the Extractor interface.
type contentExtractor struct {
	options ExtractionOptions
	logger  zerolog.Logger
	plain   *extraction.Extractor
	clean   *extraction.Extractor
}

// ExtractFromHTML extracts the main content of html. Extraction itself never
// fails: a page without recognizable content yields an empty result with
// method "unknown". Errors are reserved for oversized documents, parse
// failures and timeouts.
func (e *contentExtractor) ExtractFromHTML(html string, options *ExtractionOptions) (*Result, error) {
	opts := e.resolve(options)
	var result *Result
	err := e.withTimeout(opts, func() error {
		doc, err := e.parse(html, opts)
		if err != nil {
			return err
		}
		r := e.extractor(opts).Extract(doc)
		result = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ExtractFromReader extracts the main content from an io.Reader.
// It reads the entire content from the reader and passes it to ExtractFromHTML.
func (e *contentExtractor) ExtractFromReader(r io.Reader, options *ExtractionOptions) (*Result, error) {
	opts := e.resolve(options)

	if opts.MaxBufferSize > 0 {
		r = io.LimitReader(r, int64(opts.MaxBufferSize)+1)
	}
	html, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return e.ExtractFromHTML(string(html), &opts)
}

// Statistics extracts the content of html and combines it with the page
// metadata. The URL and domain come from the PageURL option.
func (e *contentExtractor) Statistics(html string, options *ExtractionOptions) (*PageStatistics, error) {
	opts := e.resolve(options)
	var stats *PageStatistics
	err := e.withTimeout(opts, func() error {
		doc, err := e.parse(html, opts)
		if err != nil {
			return err
		}
		page := session.Open(doc, opts.PageURL,
			session.WithLogger(e.logger),
			session.WithExtractor(e.extractor(opts)))
		s := page.Statistics()
		stats = &s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Selection returns the cleaned text, outer markup and length of the
// elements matching selector. An empty selector is an empty selection.
func (e *contentExtractor) Selection(html, selector string) (*SelectionResult, error) {
	doc, err := e.parse(html, e.options)
	if err != nil {
		return nil, err
	}
	sel, err := session.Open(doc, e.options.PageURL, session.WithLogger(e.logger)).Selection(selector)
	if err != nil {
		return nil, err
	}
	return &sel, nil
}

func (e *contentExtractor) resolve(options *ExtractionOptions) ExtractionOptions {
	if options == nil {
		return e.options
	}
	return *options
}

func (e *contentExtractor) extractor(opts ExtractionOptions) *extraction.Extractor {
	if opts.SanitizeHTML {
		return e.clean
	}
	return e.plain
}

func (e *contentExtractor) parse(html string, opts ExtractionOptions) (*dom.Document, error) {
	if opts.MaxBufferSize > 0 && len(html) > opts.MaxBufferSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrDocumentTooLarge, len(html), opts.MaxBufferSize)
	}
	doc, err := dom.Parse(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

// withTimeout runs fn in a goroutine and gives up after opts.Timeout.
// A non-positive timeout waits indefinitely.
func (e *contentExtractor) withTimeout(opts ExtractionOptions, fn func() error) error {
	if opts.Timeout <= 0 {
		return fn()
	}

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(opts.Timeout):
		return fmt.Errorf("extraction timed out after %v", opts.Timeout)
	}
}

// New creates a new Extractor instance with the provided options.
//
// Example:
//
//	extractor := summabrowse.New(
//	    summabrowse.WithSanitizedHTML(true),
//	    summabrowse.WithTimeout(time.Second*10),
//	)
func New(opts ...Option) Extractor {
	s := settings{options: DefaultOptions(), logger: log.Logger}
	for _, opt := range opts {
		opt(&s)
	}

	return &contentExtractor{
		options: s.options,
		logger:  s.logger,
		plain:   extraction.New(extraction.WithLogger(s.logger)),
		clean: extraction.New(
			extraction.WithLogger(s.logger),
			extraction.WithSanitizer(bluemonday.UGCPolicy()),
		),
	}
}
