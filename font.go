package memegen

import (
	"log/slog"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

const (
	fontSourceBuiltin  = "builtin:gobold"
	fontSourceFallback = "builtin:basicfont"
)

// Font is a typeface at one fixed pixel size.
type Font struct {
	Face   font.Face
	Size   int
	Source string // file path, or a builtin name
}

// FontResolver locates a usable bold font for a requested pixel size.
type FontResolver struct {
	paths  []string
	logger *slog.Logger
}

func NewFontResolver(paths []string, logger *slog.Logger) *FontResolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FontResolver{
		paths:  paths,
		logger: logger,
	}
}

// Resolve returns the first candidate font that loads at size, then the
// embedded Go Bold font, then the fixed-size basic font. It never fails.
func (r *FontResolver) Resolve(size int) *Font {
	if size > 0 {
		for _, p := range r.paths {
			face, err := loadFace(p, size)
			if err != nil {
				r.logger.Debug("skip font", slog.String("path", p), slog.String("error", err.Error()))
				continue
			}
			return &Font{Face: face, Size: size, Source: p}
		}
		if face, err := parseFace(gobold.TTF, size); err == nil {
			return &Font{Face: face, Size: size, Source: fontSourceBuiltin}
		}
	}
	r.logger.Warn("no scalable font available, using fallback font", slog.Int("size", size))
	return &Font{
		Face:   basicfont.Face7x13,
		Size:   basicfont.Face7x13.Height,
		Source: fontSourceFallback,
	}
}

func loadFace(path string, size int) (font.Face, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseFace(b, size)
}

func parseFace(b []byte, size int) (font.Face, error) {
	f, err := opentype.Parse(b)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
