package meteoam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_Queries(t *testing.T) {
	doc, err := ParseDocument([]byte(`<div id="box" class="a  b"><p>one <b>two</b></p><p>three</p><img title="x"></div>`))
	require.NoError(t, err)

	box := doc.FindByID("box")
	require.NotNil(t, box)
	assert.Equal(t, []string{"a", "b"}, box.Classes())
	assert.Equal(t, "one twothree", box.Text())

	paragraphs := box.FindAll("p")
	require.Len(t, paragraphs, 2)
	assert.Equal(t, "one two", paragraphs[0].Text())

	img := box.FindFirst("img")
	require.NotNil(t, img)
	title, ok := img.Attr("title")
	assert.True(t, ok)
	assert.Equal(t, "x", title)
	_, ok = img.Attr("alt")
	assert.False(t, ok)

	assert.Nil(t, doc.FindByID("missing"))
	assert.Nil(t, box.FindFirst("span"))
	assert.Empty(t, box.FindAll("span"))
	assert.Len(t, doc.FindAll("div", "b"), 1)
	assert.Empty(t, doc.FindAll("div", "c"))
	assert.Nil(t, doc.PageHeader())
}

func TestParseDocument_Malformed(t *testing.T) {
	doc, err := ParseDocument([]byte(`<h1 class="page-header">Previsioni Meteorologiche per Roma (RM)<table id="oggi"><tr><th>12:00<td>unclosed`))
	require.NoError(t, err)

	header := doc.PageHeader()
	require.NotNil(t, header)
	assert.NotNil(t, doc.FindByID("oggi"))
}
