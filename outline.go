package memegen

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// lineSpacing is the gap in pixels between wrapped lines.
const lineSpacing = 4

// Outline describes how a text block is stroked.
type Outline struct {
	Fill   color.Color
	Stroke color.Color
	Width  int
}

// DefaultOutline is white text with a two pixel black stroke.
var DefaultOutline = Outline{
	Fill:   color.White,
	Stroke: color.Black,
	Width:  2,
}

// MeasureBlock returns the bounding box size of lines drawn under face.
func MeasureBlock(face font.Face, lines []string) (width, height int) {
	if len(lines) == 0 {
		return 0, 0
	}
	for _, l := range lines {
		if w := measure(face, l); w > width {
			width = w
		}
	}
	lh := face.Metrics().Height.Ceil()
	height = len(lines)*lh + (len(lines)-1)*lineSpacing
	return width, height
}

// DrawOutlined draws lines with their top-left corner at at. Each line is
// centered within the block. The block is drawn in the stroke color once per
// offset around the origin, then once in the fill color on top.
func DrawOutlined(dst draw.Image, at image.Point, lines []string, face font.Face, o Outline) {
	if len(lines) == 0 {
		return
	}
	width, _ := MeasureBlock(face, lines)
	for _, off := range strokeOffsets(o.Width) {
		c := o.Stroke
		if off == (image.Point{}) {
			c = o.Fill
		}
		drawBlock(dst, at.Add(off), lines, face, width, c)
	}
}

// strokeOffsets returns every offset in the square of radius width, excluding
// the origin, followed by the origin itself.
func strokeOffsets(width int) []image.Point {
	if width < 0 {
		width = 0
	}
	offsets := make([]image.Point, 0, (2*width+1)*(2*width+1))
	for dx := -width; dx <= width; dx++ {
		for dy := -width; dy <= width; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			offsets = append(offsets, image.Pt(dx, dy))
		}
	}
	return append(offsets, image.Point{})
}

func drawBlock(dst draw.Image, at image.Point, lines []string, face font.Face, blockWidth int, c color.Color) {
	m := face.Metrics()
	lh := m.Height.Ceil()
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
	}
	for i, line := range lines {
		x := at.X + (blockWidth-measure(face, line))/2
		y := at.Y + i*(lh+lineSpacing) + m.Ascent.Ceil()
		d.Dot = fixed.P(x, y)
		d.DrawString(line)
	}
}
