package memegen

import (
	"image"
	"image/color"
	"testing"
)

func TestStrokeOffsets(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{-1, 1},
		{0, 1},
		{1, 9},
		{2, 25},
		{3, 49},
	}
	for _, tt := range tests {
		got := strokeOffsets(tt.width)
		if len(got) != tt.want {
			t.Errorf("strokeOffsets(%d) has %d offsets, want %d", tt.width, len(got), tt.want)
		}
		if got[len(got)-1] != (image.Point{}) {
			t.Errorf("strokeOffsets(%d) last = %v, want origin", tt.width, got[len(got)-1])
		}
		for _, p := range got[:len(got)-1] {
			if p == (image.Point{}) {
				t.Errorf("strokeOffsets(%d) has origin before the end", tt.width)
			}
		}
	}
}

func TestMeasureBlock(t *testing.T) {
	face := testFace(t, 30)
	lh := face.Metrics().Height.Ceil()
	if w, h := MeasureBlock(face, nil); w != 0 || h != 0 {
		t.Errorf("MeasureBlock(nil) = %d, %d", w, h)
	}
	w, h := MeasureBlock(face, []string{"A", "LONGER LINE", "B"})
	if want := 3*lh + 2*lineSpacing; h != want {
		t.Errorf("height = %d, want %d", h, want)
	}
	if want := measure(face, "LONGER LINE"); w != want {
		t.Errorf("width = %d, want %d", w, want)
	}
}

func TestDrawOutlined(t *testing.T) {
	face := testFace(t, 40)
	gray := color.RGBA{128, 128, 128, 255}
	canvas := fill(400, 200, gray)
	DrawOutlined(canvas, image.Pt(20, 20), []string{"HELLO"}, face, DefaultOutline)

	var white, black int
	b := canvas.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			switch canvas.RGBAAt(x, y) {
			case color.RGBA{255, 255, 255, 255}:
				white++
			case color.RGBA{0, 0, 0, 255}:
				black++
			}
		}
	}
	if white == 0 {
		t.Error("no fill pixels drawn")
	}
	if black == 0 {
		t.Error("no stroke pixels drawn")
	}
	for x := b.Min.X; x < b.Max.X; x++ {
		if c := canvas.RGBAAt(x, b.Max.Y-1); c != gray {
			t.Fatalf("pixel (%d, %d) = %v, want untouched", x, b.Max.Y-1, c)
		}
	}
}
