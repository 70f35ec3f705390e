package text

import (
	"github.com/mattn/go-runewidth"
)

// Monospace measures content as if every display column had the same width.
// With CharWidth 1 the width passed to Measure is the number of columns per
// line, which makes it a convenient "N characters per line" measurer.
type Monospace struct {
	CharWidth  float64
	LineHeight float64
}

// NewMonospace creates a monospace measurer
func NewMonospace(charWidth, lineHeight float64) *Monospace {
	return &Monospace{CharWidth: charWidth, LineHeight: lineHeight}
}

// Measure implements Measurer.
func (m *Monospace) Measure(content string, width float64) (float64, bool) {
	if m.CharWidth <= 0 || m.LineHeight <= 0 || width < m.CharWidth {
		return 0, false
	}
	return wrappedHeight(content, width, m.LineHeight, m.width), true
}

// Lines returns content wrapped at width.
func (m *Monospace) Lines(content string, width float64) []string {
	return Wrap(Visible(content), width, m.width)
}

func (m *Monospace) width(s string) float64 {
	return float64(runewidth.StringWidth(s)) * m.CharWidth
}
