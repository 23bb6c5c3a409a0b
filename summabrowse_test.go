package summabrowse_test

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrjoshuak/summabrowse"
)

func quiet() summabrowse.Option {
	return summabrowse.WithLogger(zerolog.Nop())
}

func TestExtractFromHTML(t *testing.T) {
	ext := summabrowse.New(quiet())

	html := `<html><body>
<script type="application/ld+json">{"@type":"NewsArticle","articleBody":"Body from <structured> data."}</script>
<article><p>Article text</p></article>
</body></html>`

	result, err := ext.ExtractFromHTML(html, nil)
	require.NoError(t, err)
	assert.Equal(t, "json-ld", result.ExtractionMethod)
	assert.Equal(t, "Body from <structured> data.", result.Text)
	assert.Equal(t, "<p>Body from &lt;structured&gt; data.</p>", result.HTML)
	assert.Equal(t, 4, result.WordCount)
}

func TestExtractBodyFallback(t *testing.T) {
	ext := summabrowse.New(quiet())

	html := `<html><body><nav>Menu</nav><div class="ad">Buy now</div><div><p>Plain page text.</p></div><footer>foot</footer></body></html>`
	result, err := ext.ExtractFromHTML(html, nil)
	require.NoError(t, err)
	assert.Equal(t, "body-filtered", result.ExtractionMethod)
	assert.Equal(t, "Plain page text.", result.Text)
	assert.NotContains(t, result.HTML, "Menu")
}

func TestSanitizedHTML(t *testing.T) {
	html := `<html><body><article><p onclick="steal()">Hello <b>there</b></p><script>alert(1)</script></article></body></html>`

	raw, err := summabrowse.New(quiet()).ExtractFromHTML(html, nil)
	require.NoError(t, err)
	assert.Contains(t, raw.HTML, "onclick")

	clean, err := summabrowse.New(quiet(), summabrowse.WithSanitizedHTML(true)).ExtractFromHTML(html, nil)
	require.NoError(t, err)
	assert.NotContains(t, clean.HTML, "onclick")
	assert.NotContains(t, clean.HTML, "<script")
	assert.Contains(t, clean.HTML, "<b>there</b>")
	assert.Equal(t, raw.Text, clean.Text)
}

func TestMaxBufferSize(t *testing.T) {
	ext := summabrowse.New(quiet(), summabrowse.WithMaxBufferSize(64))
	big := "<html><body><article>" + strings.Repeat("x", 100) + "</article></body></html>"

	_, err := ext.ExtractFromHTML(big, nil)
	assert.ErrorIs(t, err, summabrowse.ErrDocumentTooLarge)

	_, err = ext.ExtractFromReader(strings.NewReader(big), nil)
	assert.ErrorIs(t, err, summabrowse.ErrDocumentTooLarge)

	opts := summabrowse.DefaultOptions()
	result, err := ext.ExtractFromHTML(big, &opts)
	require.NoError(t, err)
	assert.Equal(t, 1, result.WordCount)
}

func TestStatistics(t *testing.T) {
	ext := summabrowse.New(quiet(), summabrowse.WithPageURL("https://www.example.org/a/b"))
	words := strings.TrimSpace(strings.Repeat("lorem ", 401))
	html := `<html lang="fr-FR"><head><title> Le titre </title></head><body><main>` + words + `</main></body></html>`

	stats, err := ext.Statistics(html, nil)
	require.NoError(t, err)
	assert.Equal(t, "Le titre", stats.Title)
	assert.Equal(t, "https://www.example.org/a/b", stats.URL)
	assert.Equal(t, "www.example.org", stats.Domain)
	assert.Equal(t, 401, stats.WordCount)
	assert.Equal(t, 3, stats.ReadingTime)
	assert.Equal(t, len(words), stats.CharacterCount)
	assert.Equal(t, "main-tag", stats.ExtractionMethod)
	assert.Equal(t, "fr-FR", stats.Language)
}

func TestSelection(t *testing.T) {
	ext := summabrowse.New(quiet())
	html := `<html><body><p>one</p><blockquote>Quoted  <em>words</em></blockquote></body></html>`

	sel, err := ext.Selection(html, "blockquote")
	require.NoError(t, err)
	assert.Equal(t, "Quoted words", sel.Text)
	assert.Equal(t, "<blockquote>Quoted  <em>words</em></blockquote>", sel.HTML)
	assert.Equal(t, 12, sel.Length)

	empty, err := ext.Selection(html, "")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Length)

	_, err = ext.Selection(html, "[[")
	assert.Error(t, err)
}

func TestTimeoutOption(t *testing.T) {
	ext := summabrowse.New(quiet(), summabrowse.WithTimeout(time.Nanosecond))
	page := "<html><body><article>" + strings.Repeat("<p>text</p>", 20000) + "</article></body></html>"

	// The result depends on scheduling; either outcome is valid, but a
	// timeout must be reported as such.
	_, err := ext.ExtractFromHTML(page, nil)
	if err != nil {
		assert.Contains(t, err.Error(), "timed out")
	}

	opts := summabrowse.DefaultOptions()
	opts.Timeout = 0
	result, err := ext.ExtractFromHTML(page, &opts)
	require.NoError(t, err)
	assert.Equal(t, 20000, result.WordCount)
}

func TestBuildInfo(t *testing.T) {
	info := summabrowse.GetBuildInfo()
	assert.Equal(t, "SummaBrowse", info.Name)
	assert.Equal(t, summabrowse.Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}
