package pagination

import (
	"math"

	"github.com/gompdf/pagedoc/internal/text"
)

// Detector decides whether a page's content exceeds the geometry's line
// capacity. It has no state of its own.
type Detector struct {
	Geometry Geometry
	Measurer text.Measurer
}

// Lines returns the number of lines content occupies at the content width.
// ok is false when the measurer cannot tell.
func (d Detector) Lines(content string) (int, bool) {
	if d.Measurer == nil || d.Geometry.LineHeight <= 0 {
		return 0, false
	}
	height, ok := d.Measurer.Measure(content, d.Geometry.ContentWidth())
	if !ok {
		return 0, false
	}
	return int(math.Ceil(height/d.Geometry.LineHeight - 1e-9)), true
}

// IsOverflowing reports whether content needs more lines than a page holds.
// Unknown measurements never overflow.
func (d Detector) IsOverflowing(content string) bool {
	lines, ok := d.Lines(content)
	return ok && lines > d.Geometry.MaxLines()
}
