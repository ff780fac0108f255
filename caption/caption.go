// Package caption produces top/bottom meme captions for a topic.
package caption

import (
	"context"
	"strings"
)

const (
	StyleFunny     = "funny"
	StyleSarcastic = "sarcastic"
	StyleWholesome = "wholesome"
	StyleDark      = "dark"
)

// maxFallbackLen is the rune limit of a fallback top text.
const maxFallbackLen = 60

// Caption is a pair of texts rendered at the top and bottom of a template.
type Caption struct {
	TopText    string `json:"top_text"`
	BottomText string `json:"bottom_text"`
}

// Request describes the caption wanted.
type Request struct {
	Topic        string
	TemplateName string
	Style        string
	Lines        int
}

func (r Request) withDefaults() Request {
	if r.Style == "" {
		r.Style = StyleFunny
	}
	if r.Lines <= 0 || r.Lines > 2 {
		r.Lines = 2
	}
	return r
}

// Captioner generates captions. Implementations never fail: upstream errors
// are replaced by a deterministic fallback caption.
type Captioner interface {
	Generate(ctx context.Context, req Request) Caption
}

// Fallback returns the caption used when a captioning upstream fails.
func Fallback(topic string, lines int) Caption {
	c := Caption{TopText: truncate(strings.ToUpper(topic), maxFallbackLen)}
	if lines == 2 {
		c.BottomText = "SOMETHING WENT WRONG"
	}
	return c
}

// Variations generates count captions, rotating through the funny,
// sarcastic and wholesome styles.
func Variations(ctx context.Context, c Captioner, topic, templateName string, count int) []Caption {
	styles := []string{StyleFunny, StyleSarcastic, StyleWholesome}
	captions := make([]Caption, 0, count)
	for i := range count {
		captions = append(captions, c.Generate(ctx, Request{
			Topic:        topic,
			TemplateName: templateName,
			Style:        styles[i%len(styles)],
		}))
	}
	return captions
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
