// Package textutil holds the text normalization and counting helpers shared by
// the extraction strategies, the page session and the CLI.
package textutil

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// WordsPerMinute is the average reading speed used for reading time estimates.
const WordsPerMinute = 200

// DefaultKeywordLimit is the number of keywords Keywords returns when n <= 0.
const DefaultKeywordLimit = 20

var (
	invisibleChars = runes.Remove(runes.Predicate(isInvisible))
	nonWordRegex   = regexp.MustCompile(`[^\w\s]`)
)

// isInvisible reports zero-width and byte order mark characters.
func isInvisible(r rune) bool {
	return (r >= '\u200B' && r <= '\u200D') || r == '\uFEFF'
}

// StripInvisible removes zero-width spaces, joiners and byte order marks.
func StripInvisible(text string) string {
	out, _, err := transform.String(invisibleChars, text)
	if err != nil {
		return text
	}
	return out
}

// CleanText normalizes rendered text: invisible characters are removed, every
// whitespace run becomes a single space and the result is trimmed.
// Newline runs are collapsed along with all other whitespace.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	return strings.Join(strings.Fields(StripInvisible(text)), " ")
}

// CountWords returns the number of whitespace separated tokens in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// ReadingTime estimates the reading time in whole minutes, rounded up.
func ReadingTime(words int) int {
	if words <= 0 {
		return 0
	}
	return (words + WordsPerMinute - 1) / WordsPerMinute
}

// Truncate shortens text to at most n characters, appending "..." when
// something was cut.
func Truncate(text string, n int) string {
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	r := []rune(text)
	return string(r[:n]) + "..."
}

// Keyword is a term and the number of times it occurs.
type Keyword struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// String renders the keyword as "word (count)".
func (k Keyword) String() string {
	return fmt.Sprintf("%s (%d)", k.Word, k.Count)
}

// Keywords returns the n most frequent terms longer than three characters.
// Punctuation is treated as a separator and matching is case-insensitive.
// Equal counts keep first-occurrence order.
func Keywords(text string, n int) []Keyword {
	if n <= 0 {
		n = DefaultKeywordLimit
	}

	words := strings.Fields(nonWordRegex.ReplaceAllString(strings.ToLower(text), " "))

	index := make(map[string]int)
	var keywords []Keyword
	for _, w := range words {
		if utf8.RuneCountInString(w) <= 3 {
			continue
		}
		if i, ok := index[w]; ok {
			keywords[i].Count++
			continue
		}
		index[w] = len(keywords)
		keywords = append(keywords, Keyword{Word: w, Count: 1})
	}

	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].Count > keywords[j].Count
	})

	if len(keywords) > n {
		keywords = keywords[:n]
	}
	return keywords
}

// FormatKeywords renders keywords the way the keyword action reports them.
func FormatKeywords(keywords []Keyword) string {
	parts := make([]string, len(keywords))
	for i, k := range keywords {
		parts[i] = k.String()
	}
	return "Key terms found: " + strings.Join(parts, ", ")
}
