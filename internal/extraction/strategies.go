package extraction

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/mrjoshuak/summabrowse/internal/dom"
	"github.com/mrjoshuak/summabrowse/internal/textutil"
	"github.com/mrjoshuak/summabrowse/types"
)

// Method labels
const (
	MethodJSONLD   = "json-ld"
	MethodArticle  = "article-tag"
	MethodMain     = "main-tag"
	MethodBody     = "body-filtered"
	selectorPrefix = "selector-"
)

// Scores reflect confidence in each strategy
const (
	ScoreJSONLD   = 95
	ScoreArticle  = 90
	ScoreMain     = 85
	ScoreSelector = 80
	ScoreBody     = 50
)

// Minimum cleaned text length, in characters, a landmark must exceed
const (
	MainMinChars     = 200
	SelectorMinChars = 100
)

// ContentSelectors are tried in order by FromContentSelectors.
var ContentSelectors = []string{
	".post-content",
	".entry-content",
	".article-content",
	".content-body",
	".post-body",
	".article-body",
	"#content",
	".content",
	".main-content",
	`[role="main"]`,
}

// UnwantedSelectors name the non-content elements FromBody strips.
var UnwantedSelectors = []string{
	"nav", "header", "footer", "aside",
	".navigation", ".nav", ".menu",
	".sidebar", ".widget", ".ad", ".advertisement",
	".social", ".share", ".comments",
	"script", "style", "noscript",
}

type compiledSelector struct {
	selector string
	matcher  cascadia.Selector
}

var (
	jsonLDMatcher   = cascadia.MustCompile(`script[type="application/ld+json"]`)
	articleMatcher  = cascadia.MustCompile("article")
	mainMatcher     = cascadia.MustCompile("main")
	contentMatchers = compileAll(ContentSelectors)
	unwantedMatcher = cascadia.MustCompile(strings.Join(UnwantedSelectors, ", "))
)

func compileAll(selectors []string) []compiledSelector {
	out := make([]compiledSelector, len(selectors))
	for i, s := range selectors {
		out[i] = compiledSelector{selector: s, matcher: cascadia.MustCompile(s)}
	}
	return out
}

// FromStructuredData reads the article body out of the first JSON-LD block
// whose top-level object has an articleBody or text field. Blocks that do
// not parse are skipped.
func FromStructuredData(doc *dom.Document) (*types.Candidate, error) {
	var found *types.Candidate
	doc.Find(jsonLDMatcher).EachWithBreak(func(i int, s *goquery.Selection) bool {
		raw := s.Text()
		if !gjson.Valid(raw) {
			log.Debug().Int("block", i).Msg("skipping malformed JSON-LD block")
			return true
		}

		data := gjson.Parse(raw)
		if !data.IsObject() {
			return true
		}

		body := data.Get("articleBody")
		if !truthy(body) {
			body = data.Get("text")
		}
		if !truthy(body) {
			return true
		}

		text := body.String()
		found = &types.Candidate{
			Text:   text,
			HTML:   "<p>" + html.EscapeString(text) + "</p>",
			Score:  ScoreJSONLD,
			Method: MethodJSONLD,
		}
		return false
	})
	return found, nil
}

// truthy follows the truth rules of the JSON-LD producers: empty strings,
// zero, false and null are absent values.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.String:
		return r.Str != ""
	case gjson.Number:
		return r.Num != 0
	case gjson.True:
		return true
	case gjson.JSON:
		return true
	default:
		return false
	}
}

// FromArticle trusts semantic markup: the first <article> wins regardless of
// its length.
func FromArticle(doc *dom.Document) (*types.Candidate, error) {
	article := doc.First(articleMatcher)
	if article.Length() == 0 {
		return nil, nil
	}
	return &types.Candidate{
		Text:   textutil.CleanText(dom.RenderedText(article)),
		HTML:   dom.InnerHTML(article),
		Score:  ScoreArticle,
		Method: MethodArticle,
	}, nil
}

// FromMain uses the <main> landmark when it holds more than MainMinChars
// characters of text. Near-empty layout wrappers yield nothing.
func FromMain(doc *dom.Document) (*types.Candidate, error) {
	landmark := doc.First(mainMatcher)
	if landmark.Length() == 0 {
		return nil, nil
	}
	text := textutil.CleanText(dom.RenderedText(landmark))
	if utf8.RuneCountInString(text) <= MainMinChars {
		return nil, nil
	}
	return &types.Candidate{
		Text:   text,
		HTML:   dom.InnerHTML(landmark),
		Score:  ScoreMain,
		Method: MethodMain,
	}, nil
}

// FromContentSelectors tries ContentSelectors in order and returns the first
// one whose first match holds more than SelectorMinChars characters.
func FromContentSelectors(doc *dom.Document) (*types.Candidate, error) {
	for _, cs := range contentMatchers {
		el := doc.First(cs.matcher)
		if el.Length() == 0 {
			continue
		}
		text := textutil.CleanText(dom.RenderedText(el))
		if utf8.RuneCountInString(text) > SelectorMinChars {
			return &types.Candidate{
				Text:   text,
				HTML:   dom.InnerHTML(el),
				Score:  ScoreSelector,
				Method: selectorPrefix + cs.selector,
			}, nil
		}
	}
	return nil, nil
}

// FromBody is the last resort: a copy of the body with navigation, chrome,
// ads and scripts removed. It always yields a candidate.
func FromBody(doc *dom.Document) (*types.Candidate, error) {
	body := doc.CloneBody()
	if body.Length() == 0 {
		return nil, ErrNoBody
	}
	dom.RemoveAll(body, unwantedMatcher)
	return &types.Candidate{
		Text:   textutil.CleanText(dom.RenderedText(body)),
		HTML:   dom.InnerHTML(body),
		Score:  ScoreBody,
		Method: MethodBody,
	}, nil
}
