/*
Package summabrowse extracts the main readable content from HTML pages and
reports page statistics, for summarizing web pages and selections.

Extraction runs five fixed strategies in order of confidence: structured
data (JSON-LD articleBody or text), the first article element, the main
element, a list of common content class names, and finally the body with
navigation, ads and other chrome removed. The highest scoring candidate wins;
ties go to the earlier strategy. Pages with no recognizable content produce
an empty result with method "unknown" rather than an error.

Basic Usage:

    import "github.com/mrjoshuak/summabrowse"

    // Create a new extractor
    ext := summabrowse.New()

    // Extract from HTML string
    result, err := ext.ExtractFromHTML(htmlString, nil)
    if err != nil {
        // Handle error
    }

    fmt.Printf("Method: %s\n", result.ExtractionMethod)
    fmt.Printf("Words: %d\n", result.WordCount)
    fmt.Printf("Text: %s\n", result.Text)

Advanced Usage with Options:

    ext := summabrowse.New(
        summabrowse.WithSanitizedHTML(true),
        summabrowse.WithPageURL("https://example.com/post"),
        summabrowse.WithTimeout(time.Second*10),
    )

    stats, err := ext.Statistics(htmlString, nil)
    fmt.Printf("%s: %d words, %d min read\n", stats.Title, stats.WordCount, stats.ReadingTime)

    sel, err := ext.Selection(htmlString, "blockquote")
    fmt.Printf("Selected %d characters\n", sel.Length)

The summabrowse command wraps the library and adds fetching, highlighting,
remote summarization and file upload.
*/
package summabrowse
