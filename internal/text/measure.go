// Package text measures how much vertical space page content occupies once
// laid out at a given width.
//
// Measurement is the only place the pagination engine touches a rendering
// surface. Everything that decides where pages break takes a Measurer, so a
// deterministic implementation such as Monospace can stand in for a real
// surface.
package text

import (
	"strings"
	"unicode"

	"github.com/gompdf/pagedoc/internal/parser/html"
)

// Measurer reports the rendered height of a content block laid out at width.
// ok is false when the block cannot be measured, for example because the
// surface it would render on is not attached yet. Callers must treat an
// unknown height as "fits".
type Measurer interface {
	Measure(content string, width float64) (height float64, ok bool)
}

// MeasurerFunc adapts a function to the Measurer interface.
type MeasurerFunc func(content string, width float64) (float64, bool)

// Measure calls f(content, width).
func (f MeasurerFunc) Measure(content string, width float64) (float64, bool) {
	return f(content, width)
}

// Visible returns the plain-text projection of content with trailing
// whitespace removed. Whitespace at the end of a page is never rendered, so
// it must not count towards the page's height.
func Visible(content string) string {
	return strings.TrimRightFunc(html.PlainText(content), unicode.IsSpace)
}

// wrappedHeight is the height of content wrapped at width with a fixed line
// height.
func wrappedHeight(content string, width, lineHeight float64, widthOf WidthFunc) float64 {
	visible := Visible(content)
	if visible == "" {
		return 0
	}
	return float64(len(Wrap(visible, width, widthOf))) * lineHeight
}
