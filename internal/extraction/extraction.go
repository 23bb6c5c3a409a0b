// Package extraction picks the main textual content of a page by running a
// fixed list of strategies and keeping the highest scoring candidate.
package extraction

import (
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mrjoshuak/summabrowse/internal/dom"
	"github.com/mrjoshuak/summabrowse/internal/textutil"
	"github.com/mrjoshuak/summabrowse/types"
)

// UnknownMethod labels a result no strategy produced.
const UnknownMethod = "unknown"

// Strategy is a named heuristic that inspects a document and optionally
// yields a candidate. A nil candidate with a nil error means "no opinion".
type Strategy struct {
	Name    string
	Extract func(doc *dom.Document) (*types.Candidate, error)
}

// DefaultStrategies returns the built-in strategies in evaluation order.
// Order matters: on equal scores the earlier strategy wins.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: MethodJSONLD, Extract: FromStructuredData},
		{Name: MethodArticle, Extract: FromArticle},
		{Name: MethodMain, Extract: FromMain},
		{Name: "selectors", Extract: FromContentSelectors},
		{Name: MethodBody, Extract: FromBody},
	}
}

// Extractor runs strategies against documents. It holds no per-document
// state and is safe for concurrent use.
type Extractor struct {
	strategies []Strategy
	logger     zerolog.Logger
	sanitizer  *bluemonday.Policy
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithStrategies replaces the strategy list.
func WithStrategies(strategies ...Strategy) Option {
	return func(e *Extractor) {
		e.strategies = strategies
	}
}

// WithLogger sets the logger strategy failures are reported to.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// WithSanitizer runs the winning markup through policy before it is returned.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(e *Extractor) {
		e.sanitizer = policy
	}
}

// New creates an Extractor using the default strategies unless overridden.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		strategies: DefaultStrategies(),
		logger:     log.Logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the best candidate's content. It never fails: when no
// strategy produces anything the result is empty with method "unknown".
func (e *Extractor) Extract(doc *dom.Document) types.Result {
	best := types.Candidate{}

	for _, s := range e.strategies {
		c, err := e.run(s, doc)
		if err != nil {
			e.logger.Warn().Err(err).Str("strategy", s.Name).Msg("content extraction method failed")
			continue
		}
		if c != nil && c.Score > best.Score {
			best = *c
		}
	}

	method := best.Method
	if method == "" {
		method = UnknownMethod
	}

	markup := best.HTML
	if e.sanitizer != nil && markup != "" {
		markup = e.sanitizer.Sanitize(markup)
	}

	e.logger.Debug().Str("method", method).Int("score", best.Score).Msg("content extracted")

	return types.Result{
		Text:             best.Text,
		HTML:             markup,
		WordCount:        textutil.CountWords(best.Text),
		ExtractionMethod: method,
	}
}

// run invokes one strategy, turning a panic into an error so that a broken
// strategy cannot stop the others.
func (e *Extractor) run(s Strategy, doc *dom.Document) (c *types.Candidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			c = nil
			err = WrapError(fmt.Errorf("%v", r), PanicError, s.Name, "strategy panicked")
		}
	}()

	if doc == nil || doc.Root() == nil {
		return nil, nil
	}

	c, err = s.Extract(doc)
	if err != nil {
		return nil, WrapStrategyError(err, s.Name, "")
	}
	return c, nil
}
