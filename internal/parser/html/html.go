// Package html projects serialized page markup onto the plain text that is
// measured, counted and walked by the cursor.
//
// The projection keeps text nodes in document order with entities decoded.
// <br> produces a newline and block-level elements are separated by a single
// newline. Content without markup is returned unchanged.
package html

import (
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/net/html"
)

// blockTags lists the elements that start a new line in the projection
var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "tr": true, "table": true,
	"section": true, "article": true, "header": true, "footer": true,
}

// Segment is a run of projected text and the byte range of the markup it
// came from. Synthetic newlines for block boundaries have an empty range.
type Segment struct {
	Text  string
	Start int
	End   int
	// Exact is true when the markup bytes equal Text, so offsets inside the
	// segment map one to one onto markup bytes.
	Exact bool
}

// IsMarkup reports whether content contains anything the projection would
// interpret.
func IsMarkup(content string) bool {
	return strings.ContainsAny(content, "<&")
}

// Parse projects markup into segments.
func Parse(markup string) []Segment {
	if markup == "" {
		return nil
	}
	if !IsMarkup(markup) {
		return []Segment{{Text: markup, Start: 0, End: len(markup), Exact: true}}
	}

	var (
		segs         []Segment
		pos          int
		skipDepth    int
		pendingBreak bool
		lastByte     byte
		written      bool
	)

	emit := func(seg Segment) {
		segs = append(segs, seg)
		written = true
		lastByte = seg.Text[len(seg.Text)-1]
	}

	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		raw := string(z.Raw())
		start := pos
		pos += len(raw)

		switch tt {
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			text := string(z.Text())
			if text == "" {
				continue
			}
			if strings.TrimSpace(text) == "" && (pendingBreak || !written || lastByte == '\n') {
				continue
			}
			if pendingBreak && written && lastByte != '\n' {
				emit(Segment{Text: "\n", Start: start, End: start})
			}
			pendingBreak = false
			emit(Segment{Text: text, Start: start, End: pos, Exact: text == raw})

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := strings.ToLower(string(name))
			switch {
			case tag == "script" || tag == "style":
				if tt == html.StartTagToken {
					skipDepth++
				}
			case skipDepth > 0:
			case tag == "br":
				emit(Segment{Text: "\n", Start: start, End: pos})
				pendingBreak = false
			case blockTags[tag]:
				pendingBreak = true
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := strings.ToLower(string(name))
			switch {
			case tag == "script" || tag == "style":
				if skipDepth > 0 {
					skipDepth--
				}
			case skipDepth > 0:
			case blockTags[tag]:
				pendingBreak = true
			}
		}
	}

	return segs
}

// PlainText returns the plain-text projection of markup
func PlainText(markup string) string {
	if !IsMarkup(markup) {
		return markup
	}
	var b strings.Builder
	for _, seg := range Parse(markup) {
		b.WriteString(seg.Text)
	}
	return b.String()
}

// Segments returns the projected text of each segment in document order
func Segments(markup string) []string {
	segs := Parse(markup)
	out := make([]string, len(segs))
	for i, seg := range segs {
		out[i] = seg.Text
	}
	return out
}

// IsBlank reports whether markup projects to whitespace only
func IsBlank(markup string) bool {
	return strings.TrimSpace(PlainText(markup)) == ""
}

// Len returns the number of characters (grapheme clusters) in the projection
func Len(markup string) int {
	return uniseg.GraphemeClusterCount(PlainText(markup))
}

// IndexOf maps a character offset in the projection of markup onto a byte
// index in markup. Offsets past the end map to the end of the last text, so
// inserting there stays inside any open element.
func IndexOf(markup string, offset int) int {
	segs := Parse(markup)
	if len(segs) == 0 {
		return len(markup)
	}
	if offset <= 0 {
		return segs[0].Start
	}

	cum := 0
	for _, seg := range segs {
		n := uniseg.GraphemeClusterCount(seg.Text)
		if offset <= cum+n {
			local := offset - cum
			switch {
			case seg.Exact:
				return seg.Start + graphemeToByteOffset(seg.Text, local)
			case local == 0:
				return seg.Start
			default:
				return seg.End
			}
		}
		cum += n
	}
	return segs[len(segs)-1].End
}

// graphemeToByteOffset converts a grapheme index to a byte offset in s.
func graphemeToByteOffset(s string, graphemeIdx int) int {
	if graphemeIdx <= 0 {
		return 0
	}

	idx := 0
	state := -1
	original := s
	for len(s) > 0 {
		_, rest, _, newState := uniseg.StepString(s, state)
		idx++
		if idx == graphemeIdx {
			return len(original) - len(rest)
		}
		s = rest
		state = newState
	}
	return len(original)
}
