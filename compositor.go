package memegen

import (
	"image"
	"image/draw"
	"log/slog"
)

// Slot is a fixed placement region for one caption block.
type Slot int

const (
	SlotTop Slot = iota
	SlotBottom
)

func (s Slot) String() string {
	switch s {
	case SlotTop:
		return "top"
	case SlotBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

const (
	// horizontalPadding is subtracted from the canvas width when wrapping.
	horizontalPadding = 20
	// edgeMargin is the fraction of canvas height kept between a block and the edge.
	edgeMargin = 0.05
)

// Compositor places caption blocks on a canvas.
type Compositor struct {
	fonts   *FontResolver
	outline Outline
	logger  *slog.Logger
}

func NewCompositor(fonts *FontResolver, logger *slog.Logger) *Compositor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Compositor{
		fonts:   fonts,
		outline: DefaultOutline,
		logger:  logger,
	}
}

// FontSize returns the pixel font size used for a canvas of the given height.
func FontSize(height int) int {
	return height / 10
}

// Composite draws text into slot of canvas in place. Empty text draws nothing.
func (c *Compositor) Composite(canvas draw.Image, slot Slot, text string) {
	if text == "" {
		return
	}
	b := canvas.Bounds()
	f := c.fonts.Resolve(FontSize(b.Dy()))
	lines := Wrap(text, f.Face, b.Dx()-horizontalPadding)
	w, h := MeasureBlock(f.Face, lines)

	x := b.Min.X + (b.Dx()-w)/2
	var y int
	switch slot {
	case SlotBottom:
		y = b.Min.Y + int(float64(b.Dy())*(1-edgeMargin)) - h
	default:
		y = b.Min.Y + int(float64(b.Dy())*edgeMargin)
	}
	DrawOutlined(canvas, image.Pt(x, y), lines, f.Face, c.outline)
	c.logger.Info("drew caption",
		slog.String("slot", slot.String()),
		slog.Int("lines", len(lines)),
		slog.Int("font_size", f.Size),
		slog.String("font", f.Source),
	)
}
