package pdf

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gompdf/pagedoc/internal/pagination"
)

func TestRenderWritesOnePDFPagePerPage(t *testing.T) {
	pages := []pagination.Page{
		{ID: "a", Content: "<p>first page</p>"},
		{ID: "b", Content: strings.Repeat("word ", 2000)},
		{ID: "c", Content: ""},
	}

	r := NewRenderer()
	r.PageNumbers = true
	var buf bytes.Buffer
	err := r.Render(pages, pagination.DefaultGeometry(), &buf, RenderOptions{Title: "test"})
	require.NoError(t, err)

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	pageObjects := bytes.Count(out, []byte("/Type /Page")) - bytes.Count(out, []byte("/Type /Pages"))
	assert.Equal(t, 3, pageObjects)
}

func TestRenderLandscape(t *testing.T) {
	g := pagination.DefaultGeometry()
	g.PageSize = g.PageSize.Landscape()

	var buf bytes.Buffer
	require.NoError(t, NewRenderer().Render([]pagination.Page{{ID: "a", Content: "x"}}, g, &buf, RenderOptions{}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestRenderRejectsBadGeometry(t *testing.T) {
	g := pagination.DefaultGeometry()
	g.LineHeight = 0

	var buf bytes.Buffer
	err := NewRenderer().Render(nil, g, &buf, RenderOptions{})
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestRenderFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.pdf")
	require.NoError(t, NewRenderer().RenderFile([]pagination.Page{{ID: "a", Content: "hello"}}, pagination.DefaultGeometry(), path, RenderOptions{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestParseColor(t *testing.T) {
	valid := map[string][3]int{
		"#ff0010":       {255, 0, 16},
		"#abc":          {170, 187, 204},
		"rgb(1, 2, 3)":  {1, 2, 3},
		"rgb(10,20,30)": {10, 20, 30},
		"":              {0, 0, 0},
		"  #000000  ":   {0, 0, 0},
	}
	for in, want := range valid {
		got, err := ParseColor(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"teal", "#12", "#ggg", "rgb(1,2)", "rgb(300,0,0)"} {
		_, err := ParseColor(in)
		assert.Error(t, err, in)
	}
}

func TestRenderStyling(t *testing.T) {
	pages := []pagination.Page{{ID: "a", Content: "styled text"}}
	render := func(r *Renderer) []byte {
		var buf bytes.Buffer
		require.NoError(t, r.Render(pages, pagination.DefaultGeometry(), &buf, RenderOptions{}))
		return buf.Bytes()
	}

	plain := render(NewRenderer())

	boxed := NewRenderer()
	boxed.DebugDrawBoxes = true
	assert.Greater(t, len(render(boxed)), len(plain), "content box outline adds drawing operators")

	colored := NewRenderer()
	colored.TextColor = "rgb(200, 30, 30)"
	assert.True(t, bytes.HasPrefix(render(colored), []byte("%PDF")))

	invalid := NewRenderer()
	invalid.TextColor = "not-a-color"
	assert.True(t, bytes.HasPrefix(render(invalid), []byte("%PDF")), "bad colors fall back to black")
}

func TestBaselineOffset(t *testing.T) {
	assert.InDelta(t, 11.6, baselineOffset(12, 16), 1e-9)
	assert.InDelta(t, 8.0, baselineOffset(20, 10), 1e-9)
}
