package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrjoshuak/summabrowse/internal/dom"
)

const page = `<html><head><title>Go go GO</title></head><body>
<h1>Learning Go</h1>
<p>Go is simple. <em>go</em> routines make GOing concurrent easy.</p>
<script>var go = "go";</script>
<textarea>go here</textarea>
<p>Prices rose 3.5% (a.b) today.</p>
</body></html>`

func render(t *testing.T, doc *dom.Document) string {
	t.Helper()
	out, err := doc.HTML()
	require.NoError(t, err)
	return out
}

func TestApplyAndClearRestoreDocument(t *testing.T) {
	queries := []string{"go", "Go is", "concurrent easy", "3.5%", "(a.b)", "ear"}

	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			doc, err := dom.ParseString(page)
			require.NoError(t, err)
			before := render(t, doc)
			textBefore := doc.Body().Text()

			n := Apply(doc, q)
			assert.Greater(t, n, 0)
			assert.Equal(t, n, Count(doc))

			removed := Clear(doc)
			assert.Equal(t, n, removed)
			assert.Equal(t, 0, Count(doc))
			assert.Equal(t, textBefore, doc.Body().Text())
			assert.Equal(t, before, render(t, doc))
		})
	}
}

func TestApplyIsCaseInsensitiveAndSkipsHiddenText(t *testing.T) {
	doc, err := dom.ParseString(page)
	require.NoError(t, err)

	n := Apply(doc, "go")
	// "Go" in h1, "Go" and "go" and "GO" in the paragraph; never inside
	// title, script or textarea
	assert.Equal(t, 4, n)

	marks, err := doc.QueryAll("mark." + MarkClass)
	require.NoError(t, err)
	var got []string
	for _, node := range marks.Nodes {
		got = append(got, node.FirstChild.Data)
	}
	assert.Equal(t, []string{"Go", "Go", "go", "GO"}, got)

	style, ok := marks.First().Attr("style")
	assert.True(t, ok)
	assert.Equal(t, MarkStyle, style)

	script, err := doc.QueryFirst("script")
	require.NoError(t, err)
	assert.Equal(t, `var go = "go";`, script.Text())
}

func TestApplyTreatsQueryLiterally(t *testing.T) {
	doc, err := dom.ParseString(page)
	require.NoError(t, err)

	assert.Equal(t, 0, Apply(doc, "a+b"))
	assert.Equal(t, 1, Apply(doc, "(A.B)"))
	assert.Equal(t, 0, Apply(doc, ".*"))
}

func TestShortQueryIsNoop(t *testing.T) {
	for _, q := range []string{"", "g", "é"} {
		doc, err := dom.ParseString(page)
		require.NoError(t, err)
		before := render(t, doc)

		assert.Equal(t, 0, Apply(doc, q))
		assert.Equal(t, before, render(t, doc))
	}
}

func TestApplyClearsPreviousHighlights(t *testing.T) {
	doc, err := dom.ParseString(page)
	require.NoError(t, err)
	before := render(t, doc)

	Apply(doc, "go")
	n := Apply(doc, "prices")
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, Count(doc))

	// a too-short query still clears
	assert.Equal(t, 0, Apply(doc, "p"))
	assert.Equal(t, 0, Count(doc))
	assert.Equal(t, before, render(t, doc))
}

func TestClearOnCleanDocument(t *testing.T) {
	doc, err := dom.ParseString(page)
	require.NoError(t, err)
	assert.Equal(t, 0, Clear(doc))
}

func TestInvalidUTF8QueryIsNoop(t *testing.T) {
	doc, err := dom.ParseString(page)
	require.NoError(t, err)
	before := render(t, doc)

	Apply(doc, "go")
	require.Positive(t, Count(doc))

	var n int
	assert.NotPanics(t, func() { n = Apply(doc, "go\xff") })
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, Count(doc))
	assert.Equal(t, before, render(t, doc))
}
