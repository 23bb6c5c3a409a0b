// Package types provides the core data structures for the SummaBrowse library.
package types

import "time"

// Candidate is a scored, provisional extraction result produced by one
// strategy. Candidates live only for the duration of a single extraction.
type Candidate struct {
	Text   string `json:"text"`
	HTML   string `json:"html"`
	Score  int    `json:"score"`
	Method string `json:"method"`
}

// Result is the outcome of a content extraction. It carries the winning
// candidate's text and markup, the word count of the text and the label of
// the strategy that produced it.
type Result struct {
	Text             string `json:"text"`
	HTML             string `json:"html"`
	WordCount        int    `json:"wordCount"`
	ExtractionMethod string `json:"extractionMethod"`
}

// PageStatistics is a derived view over a Result plus document metadata.
type PageStatistics struct {
	Title            string `json:"title"`
	URL              string `json:"url"`
	Domain           string `json:"domain"`
	WordCount        int    `json:"wordCount"`
	ReadingTime      int    `json:"readingTime"`
	CharacterCount   int    `json:"characterCount"`
	ExtractionMethod string `json:"extractionMethod"`
	Language         string `json:"language"`
}

// SelectionResult holds the text and markup of a selected part of a page.
// Length is the number of characters in Text.
type SelectionResult struct {
	Text   string `json:"text"`
	HTML   string `json:"html"`
	Length int    `json:"length"`
}

// ExtractionOptions configures the extraction process.
type ExtractionOptions struct {
	SanitizeHTML  bool          // Pass the winning HTML through an HTML sanitizer
	MaxBufferSize int           // Maximum document size in bytes
	Timeout       time.Duration // Timeout for extraction process
	PageURL       string        // URL the document was loaded from, used for statistics
}

// DefaultOptions returns the default extraction options.
// By default the raw inner markup is returned, documents are limited to
// 5MB and the timeout is 30 seconds.
func DefaultOptions() ExtractionOptions {
	return ExtractionOptions{
		SanitizeHTML:  false,
		MaxBufferSize: 5 * 1024 * 1024, // 5MB
		Timeout:       time.Second * 30,
	}
}
