package text

import (
	"strings"
	"sync"

	"codeberg.org/go-pdf/fpdf"
)

// Font describes a core PDF font used for measurement and export
type Font struct {
	Family string
	Style  string
	Size   float64
}

// DefaultFont is Helvetica 12pt
var DefaultFont = Font{Family: "Helvetica", Size: 12}

// ResolveFamily maps CSS-like family names to the core PDF font families
func ResolveFamily(family string) string {
	first := strings.Split(family, ",")[0]
	first = strings.TrimSpace(strings.Trim(first, "'\""))
	switch strings.ToLower(first) {
	case "times", "times new roman", "serif":
		return "Times"
	case "courier", "courier new", "monospace":
		return "Courier"
	default:
		return "Helvetica"
	}
}

// ResolveStyle normalizes a style string to the fpdf "B", "I", "BI" form
func ResolveStyle(style string) string {
	style = strings.ToUpper(style)
	out := ""
	if strings.Contains(style, "B") {
		out += "B"
	}
	if strings.Contains(style, "I") {
		out += "I"
	}
	return out
}

// FontMeasurer measures content with go-pdf/fpdf core font metrics. Lines
// are broken the same way the PDF renderer breaks them, so measured pages
// and printed pages agree.
type FontMeasurer struct {
	font       Font
	lineHeight float64

	mu        sync.Mutex
	pdf       *fpdf.Fpdf
	translate func(string) string
}

// NewFontMeasurer creates a measurer for the given font and line height
func NewFontMeasurer(font Font, lineHeight float64) *FontMeasurer {
	pdf := fpdf.New("P", "pt", "", "")
	pdf.SetFont(ResolveFamily(font.Family), ResolveStyle(font.Style), font.Size)
	return &FontMeasurer{
		font:       font,
		lineHeight: lineHeight,
		pdf:        pdf,
		translate:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

// Measure implements Measurer.
func (m *FontMeasurer) Measure(content string, width float64) (float64, bool) {
	if width <= 0 || m.lineHeight <= 0 || m.font.Size <= 0 {
		return 0, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pdf.Err() {
		return 0, false
	}
	return wrappedHeight(content, width, m.lineHeight, m.stringWidth), true
}

// StringWidth returns the width of s in points
func (m *FontMeasurer) StringWidth(s string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stringWidth(s)
}

func (m *FontMeasurer) stringWidth(s string) float64 {
	if s == "" {
		return 0
	}
	return m.pdf.GetStringWidth(m.translate(s))
}
