package summabrowse_test

import (
	"fmt"
	"strings"
	"time"

	"github.com/mrjoshuak/summabrowse"
)

const examplePage = `<html lang="en"><head><title>Article Title</title></head><body><header><nav><a href="/">Home</a></nav></header><article><h1>Article Title</h1><p>Short readable paragraph.</p></article><footer><p>Copyright 2025</p></footer></body></html>`

func ExampleNew() {
	// Create a new extractor with default options
	ext := summabrowse.New()

	result, err := ext.ExtractFromHTML(examplePage, nil)
	if err != nil {
		fmt.Printf("Error extracting content: %v\n", err)
		return
	}

	fmt.Printf("Method: %s\n", result.ExtractionMethod)
	fmt.Printf("Text: %s\n", result.Text)
	fmt.Printf("Words: %d\n", result.WordCount)
	// Output:
	// Method: article-tag
	// Text: Article Title Short readable paragraph.
	// Words: 5
}

func ExampleWithPageURL() {
	ext := summabrowse.New(
		summabrowse.WithPageURL("https://blog.example.com/posts/1"),
		summabrowse.WithTimeout(time.Second*10),
	)

	stats, err := ext.Statistics(examplePage, nil)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("%s on %s: %d words, %d min read, language %s\n",
		stats.Title, stats.Domain, stats.WordCount, stats.ReadingTime, stats.Language)
	// Output: Article Title on blog.example.com: 5 words, 1 min read, language en
}

func ExampleExtractor_ExtractFromReader() {
	ext := summabrowse.New()

	result, err := ext.ExtractFromReader(strings.NewReader(examplePage), nil)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Has content: %v\n", len(result.HTML) > 0)
	// Output: Has content: true
}

func ExampleExtractor_Selection() {
	ext := summabrowse.New()

	sel, err := ext.Selection(examplePage, "footer p")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("%q (%d)\n", sel.Text, sel.Length)
	// Output: "Copyright 2025" (14)
}
