// Package cursor maps the edit cursor between a character offset in a page's
// plain text and a (node, local offset) selection on a rendering surface.
//
// Offsets count grapheme clusters, so a cursor never lands inside a combined
// character or an emoji sequence.
package cursor

import (
	"github.com/rivo/uniseg"

	"github.com/gompdf/pagedoc/internal/parser/html"
)

// Surface is the text a page renders as, seen as a sequence of text nodes,
// plus the current selection within it.
type Surface interface {
	Segments() []string
	Selection() (node, local int, ok bool)
	Select(node, local int)
}

// Position is a selection point on a surface
type Position struct {
	Node  int
	Local int
}

// Length returns the total number of characters across segments
func Length(segments []string) int {
	n := 0
	for _, seg := range segments {
		n += uniseg.GraphemeClusterCount(seg)
	}
	return n
}

// Locate walks segments accumulating their lengths and returns the first
// node whose cumulative length reaches offset. Negative offsets clamp to the
// start and offsets past the end clamp to the end of the last node.
func Locate(segments []string, offset int) Position {
	if offset < 0 {
		offset = 0
	}
	cum := 0
	for i, seg := range segments {
		n := uniseg.GraphemeClusterCount(seg)
		if cum+n >= offset {
			return Position{Node: i, Local: offset - cum}
		}
		cum += n
	}
	if len(segments) == 0 {
		return Position{}
	}
	last := len(segments) - 1
	return Position{Node: last, Local: uniseg.GraphemeClusterCount(segments[last])}
}

// Offset is the inverse of Locate for a position inside segments
func Offset(segments []string, pos Position) int {
	if len(segments) == 0 || pos.Node < 0 {
		return 0
	}
	if pos.Node >= len(segments) {
		return Length(segments)
	}
	cum := Length(segments[:pos.Node])
	local := pos.Local
	if n := uniseg.GraphemeClusterCount(segments[pos.Node]); local > n {
		local = n
	}
	if local < 0 {
		local = 0
	}
	return cum + local
}

// Capture returns the character offset of the surface's selection, or 0
// when nothing is selected.
func Capture(s Surface) int {
	node, local, ok := s.Selection()
	if !ok {
		return 0
	}
	return Offset(s.Segments(), Position{Node: node, Local: local})
}

// Restore places the surface's selection at offset, clamped to the text.
func Restore(s Surface, offset int) {
	pos := Locate(s.Segments(), offset)
	s.Select(pos.Node, pos.Local)
}

// Clamp limits offset to the valid range for markup
func Clamp(markup string, offset int) int {
	s := FromMarkup(markup)
	Restore(s, offset)
	return Capture(s)
}

// TextSurface is an in-memory Surface over fixed text segments
type TextSurface struct {
	segments []string
	pos      Position
	selected bool
}

// NewTextSurface creates a surface over segments with no selection
func NewTextSurface(segments []string) *TextSurface {
	return &TextSurface{segments: segments}
}

// FromMarkup creates a surface over the projected text of markup
func FromMarkup(markup string) *TextSurface {
	return NewTextSurface(html.Segments(markup))
}

// Segments implements Surface.
func (s *TextSurface) Segments() []string {
	return s.segments
}

// Selection implements Surface.
func (s *TextSurface) Selection() (int, int, bool) {
	return s.pos.Node, s.pos.Local, s.selected
}

// Select implements Surface. Out-of-range positions are clamped.
func (s *TextSurface) Select(node, local int) {
	if len(s.segments) == 0 {
		s.pos = Position{}
		s.selected = true
		return
	}
	if node < 0 {
		node, local = 0, 0
	}
	if node >= len(s.segments) {
		node = len(s.segments) - 1
		local = uniseg.GraphemeClusterCount(s.segments[node])
	}
	if n := uniseg.GraphemeClusterCount(s.segments[node]); local > n {
		local = n
	}
	if local < 0 {
		local = 0
	}
	s.pos = Position{Node: node, Local: local}
	s.selected = true
}
