package memegen

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/k1LoW/errors"
	_ "golang.org/x/image/webp"
)

const (
	// maxImageSize limits how much of a template response is read.
	maxImageSize = 32 << 20
	// maxImagePixels limits the declared dimensions of a template before decoding.
	maxImagePixels = 40_000_000
)

// Fetcher loads template bitmaps from URLs or local paths.
type Fetcher struct {
	client *http.Client
}

func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = NewHTTPClient(nil, defaultTimeout, 0)
	}
	return &Fetcher{client: client}
}

// NormalizeLocator treats a protocol-relative locator as https.
func NormalizeLocator(locator string) string {
	if strings.HasPrefix(locator, "//") {
		return "https:" + locator
	}
	return locator
}

// Fetch downloads (or reads) the image at locator and returns it as an
// opaque RGBA bitmap the caller owns.
func (f *Fetcher) Fetch(ctx context.Context, locator string) (_ *image.RGBA, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	locator = NormalizeLocator(locator)
	var r io.Reader
	if strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image from URL %s: %w", locator, err)
		}
		res, err := f.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image from URL %s: %w", locator, err)
		}
		defer res.Body.Close()
		if res.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("failed to fetch image from URL %s: status code %d", locator, res.StatusCode)
		}
		r = res.Body
	} else {
		file, err := os.Open(locator)
		if err != nil {
			return nil, fmt.Errorf("failed to open image file %s: %w", locator, err)
		}
		defer file.Close()
		r = file
	}
	b, err := io.ReadAll(io.LimitReader(r, maxImageSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", locator, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > maxImagePixels/cfg.Height {
		return nil, fmt.Errorf("%w: %s is %dx%d", ErrImageTooLarge, locator, cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", locator, err)
	}
	return toRGB(img), nil
}

// toRGB converts img to an opaque RGBA bitmap anchored at the origin.
// Transparent areas become black.
func toRGB(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}
