package dom

import (
	"strings"
	"testing"

	"github.com/andybalholm/cascadia"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<html lang="en"><head><title>Sample</title><style>body{color:red}</style></head>
<body><nav>Menu</nav><div id="main"><h1>Heading</h1><p>First paragraph.</p><p>Second<br>line</p>
<script>var hidden = "script text";</script><noscript>enable js</noscript><div hidden>secret</div></div></body></html>`

func TestQueries(t *testing.T) {
	doc, err := ParseString(samplePage)
	require.NoError(t, err)

	paragraphs, err := doc.QueryAll("p")
	require.NoError(t, err)
	assert.Equal(t, 2, paragraphs.Length())

	first, err := doc.QueryFirst("#main p")
	require.NoError(t, err)
	assert.Equal(t, "First paragraph.", first.Text())

	missing, err := doc.QueryFirst("article")
	require.NoError(t, err)
	assert.Equal(t, 0, missing.Length())

	_, err = doc.QueryAll("p[")
	assert.Error(t, err)
}

func TestRenderedText(t *testing.T) {
	doc, err := ParseString(samplePage)
	require.NoError(t, err)

	text := RenderedText(doc.First(cascadia.MustCompile("#main")))
	assert.Contains(t, text, "Heading")
	assert.Contains(t, text, "First paragraph.")
	assert.NotContains(t, text, "script text")
	assert.NotContains(t, text, "enable js")
	assert.NotContains(t, text, "secret")

	// adjacent blocks and <br> never fuse words together
	fields := strings.Fields(text)
	assert.Equal(t, []string{"Heading", "First", "paragraph.", "Second", "line"}, fields)

	body := RenderedText(doc.Body())
	assert.NotContains(t, body, "color:red")
	assert.Contains(t, body, "Menu")
}

func TestCloneBodyAndRemoveAll(t *testing.T) {
	doc, err := ParseString(samplePage)
	require.NoError(t, err)

	clone := doc.CloneBody()
	removed := RemoveAll(clone, cascadia.MustCompile("nav, script"))
	assert.Equal(t, 2, removed)
	assert.NotContains(t, RenderedText(clone), "Menu")

	// the document itself is untouched
	navs, err := doc.QueryAll("nav")
	require.NoError(t, err)
	assert.Equal(t, 1, navs.Length())
}

func TestMarkupAccess(t *testing.T) {
	doc, err := ParseString(`<body><div class="box"><em>hi</em> there</div><div class="box">two</div></body>`)
	require.NoError(t, err)

	boxes, err := doc.QueryAll(".box")
	require.NoError(t, err)
	assert.Equal(t, "<em>hi</em> there", InnerHTML(boxes))
	assert.Equal(t, `<div class="box"><em>hi</em> there</div><div class="box">two</div>`, OuterHTML(boxes))
	assert.Equal(t, "", InnerHTML(nil))
	assert.NotNil(t, doc.Root())
}
