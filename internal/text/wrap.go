package text

import (
	"strings"

	"github.com/rivo/uniseg"
)

// WidthFunc reports the rendered width of a run of text
type WidthFunc func(s string) float64

// Wrap breaks text into lines no wider than maxWidth using greedy word
// wrapping. Explicit newlines always start a new line, runs of whitespace
// collapse to a single space, and a word wider than maxWidth is broken
// between grapheme clusters.
func Wrap(text string, maxWidth float64, width WidthFunc) []string {
	if maxWidth <= 0 {
		return []string{text}
	}

	spaceWidth := width(" ")
	var lines []string

	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		var current strings.Builder
		currentWidth := 0.0

		flush := func() {
			lines = append(lines, current.String())
			current.Reset()
			currentWidth = 0
		}

		for _, word := range words {
			wordWidth := width(word)

			if currentWidth > 0 && currentWidth+spaceWidth+wordWidth <= maxWidth {
				current.WriteByte(' ')
				current.WriteString(word)
				currentWidth += spaceWidth + wordWidth
				continue
			}

			if currentWidth > 0 {
				flush()
			}

			if wordWidth <= maxWidth {
				current.WriteString(word)
				currentWidth = wordWidth
				continue
			}

			// extremely long word: hard-break between graphemes
			state := -1
			rest := word
			for len(rest) > 0 {
				var cluster string
				cluster, rest, _, state = uniseg.StepString(rest, state)
				clusterWidth := width(cluster)
				if currentWidth > 0 && currentWidth+clusterWidth > maxWidth {
					flush()
				}
				current.WriteString(cluster)
				currentWidth += clusterWidth
			}
		}

		if current.Len() > 0 {
			flush()
		}
	}

	return lines
}
