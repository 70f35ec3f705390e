package pagination

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gompdf/pagedoc/internal/text"
)

// heightEpsilon absorbs float noise when comparing heights to a capacity
const heightEpsilon = 1e-6

// Result is the outcome of splitting a page's content
type Result struct {
	Keep     string
	Overflow string
	// Measured is false when the measurer could not measure the content, in
	// which case nothing was split.
	Measured bool
}

// Tokenize breaks content into words, each carrying the whitespace that
// follows it. Leading whitespace belongs to the first token and whitespace
// inside a markup tag never separates tokens, so joining the tokens always
// reproduces content exactly. A bare '<' in text is an ordinary character.
func Tokenize(content string) []string {
	if content == "" {
		return nil
	}

	var tokens []string
	start := 0
	inTag := false
	inWord := false
	trailing := false

	for i, r := range content {
		if inTag {
			if r == '>' {
				inTag = false
			}
			continue
		}

		if unicode.IsSpace(r) {
			if inWord {
				trailing = true
			}
			continue
		}

		if trailing {
			tokens = append(tokens, content[start:i])
			start = i
			trailing = false
		}
		inWord = true
		if r == '<' && opensTag(content[i+1:]) {
			inTag = true
		}
	}

	return append(tokens, content[start:])
}

// opensTag reports whether a '<' followed by rest starts markup. Like the
// html tokenizer, a '<' not followed by a letter, '/', '!' or '?' is text.
func opensTag(rest string) bool {
	if rest == "" {
		return false
	}
	c := rest[0]
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c == '/' || c == '!' || c == '?'
}

// prefixOffsets returns the byte offset in the joined tokens where each
// prefix ends, offsets[k] being the length of tokens[:k].
func prefixOffsets(tokens []string) []int {
	offsets := make([]int, len(tokens)+1)
	for i, tok := range tokens {
		offsets[i+1] = offsets[i] + len(tok)
	}
	return offsets
}

// FitPrefix finds the largest k such that base followed by tokens[:k] is no
// taller than capacity at width. It binary searches the token index space,
// so it measures O(log n) times for n tokens. ok is false if a measurement
// was unknown.
func FitPrefix(base string, tokens []string, m text.Measurer, width, capacity float64) (k int, ok bool) {
	joined := strings.Join(tokens, "")
	offsets := prefixOffsets(tokens)

	lo, hi := 0, len(tokens)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		height, known := m.Measure(base+joined[:offsets[mid]], width)
		if !known {
			return 0, false
		}
		if height <= capacity+heightEpsilon {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, true
}

// Split divides content into the longest word-preserving prefix that fits
// capacity and the rest. Keep+Overflow always equals content. Content that
// fits is returned whole as Keep, and when even the first word is too tall
// Keep is empty.
func Split(content string, m text.Measurer, width, capacity float64) Result {
	height, ok := m.Measure(content, width)
	if !ok {
		return Result{Keep: content}
	}
	if height <= capacity+heightEpsilon {
		return Result{Keep: content, Measured: true}
	}

	tokens := Tokenize(content)
	k, ok := FitPrefix("", tokens, m, width, capacity)
	if !ok {
		return Result{Keep: content}
	}
	n := prefixOffsets(tokens)[k]
	return Result{Keep: content[:n], Overflow: content[n:], Measured: true}
}

// needsSeam reports whether joining a and b would glue two words together
func needsSeam(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(a)
	first, _ := utf8.DecodeRuneInString(b)
	return !unicode.IsSpace(last) && !unicode.IsSpace(first)
}

// joinSeam prepends overflow to the content of the page it moves onto
func joinSeam(overflow, next string) string {
	if needsSeam(overflow, next) {
		return overflow + " " + next
	}
	return overflow + next
}
