package caption

import (
	"strings"
)

// Parse extracts a caption from a model response. It reads "TOP:" and
// "BOTTOM:" markers, falls back to the first two non-empty lines, and as a
// last resort uses the uppercased topic.
func Parse(response, topic string, lines int) Caption {
	var c Caption
	rows := strings.Split(response, "\n")
	for _, row := range rows {
		row = strings.TrimSpace(row)
		switch {
		case strings.HasPrefix(row, "TOP:"):
			c.TopText = strings.TrimSpace(strings.TrimPrefix(row, "TOP:"))
		case strings.HasPrefix(row, "BOTTOM:"):
			c.BottomText = strings.TrimSpace(strings.TrimPrefix(row, "BOTTOM:"))
		}
	}

	if c.TopText == "" && c.BottomText == "" {
		var nonEmpty []string
		for _, row := range rows {
			if row = strings.TrimSpace(row); row != "" {
				nonEmpty = append(nonEmpty, row)
			}
		}
		if len(nonEmpty) > 0 {
			c.TopText = nonEmpty[0]
			if lines == 2 && len(nonEmpty) > 1 {
				c.BottomText = nonEmpty[1]
			}
		}
	}

	if c.TopText == "" {
		c.TopText = truncate(strings.ToUpper(topic), maxFallbackLen)
	}
	return c
}
