package memegen

import (
	"strings"

	"golang.org/x/image/font"
)

// Wrap greedily breaks text at whitespace into lines no wider than maxWidth
// pixels under face. A single word wider than maxWidth is kept whole on its
// own line.
func Wrap(text string, face font.Face, maxWidth int) []string {
	var (
		lines   []string
		current string
	)
	for _, word := range strings.Fields(text) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if measure(face, candidate) <= maxWidth {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

func measure(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}
