package memegen

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNormalizeLocator(t *testing.T) {
	tests := []struct {
		locator string
		want    string
	}{
		{"//i.imgflip.com/30b1gx.jpg", "https://i.imgflip.com/30b1gx.jpg"},
		{"https://i.imgflip.com/30b1gx.jpg", "https://i.imgflip.com/30b1gx.jpg"},
		{"http://example.com/a.png", "http://example.com/a.png"},
		{"testdata/a.png", "testdata/a.png"},
		{"/tmp/a.png", "/tmp/a.png"},
	}
	for _, tt := range tests {
		if got := NormalizeLocator(tt.locator); got != tt.want {
			t.Errorf("NormalizeLocator(%q) = %q, want %q", tt.locator, got, tt.want)
		}
	}
}

func TestFetchURL(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	src.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	src.Set(1, 0, color.NRGBA{0, 0, 255, 0})
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, src); err != nil {
		t.Fatal(err)
	}
	ts := serveImage(t, buf.Bytes())

	got, err := NewFetcher(ts.Client()).Fetch(context.Background(), ts.URL+"/a.png")
	if err != nil {
		t.Fatal(err)
	}
	if got.Bounds() != image.Rect(0, 0, 4, 2) {
		t.Errorf("bounds = %v", got.Bounds())
	}
	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, color.RGBA{255, 0, 0, 255}},
		{1, 0, color.RGBA{0, 0, 0, 255}},
		{3, 1, color.RGBA{0, 0, 0, 255}},
	}
	for _, tt := range tests {
		if c := got.RGBAAt(tt.x, tt.y); c != tt.want {
			t.Errorf("pixel (%d, %d) = %v, want %v", tt.x, tt.y, c, tt.want)
		}
	}
}

func TestFetchFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "template.png")
	if err := os.WriteFile(p, solidPNG(t, 8, 6, color.NRGBA{10, 20, 30, 255}), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := NewFetcher(nil).Fetch(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if got.Bounds().Dx() != 8 || got.Bounds().Dy() != 6 {
		t.Errorf("bounds = %v", got.Bounds())
	}
	if c := got.RGBAAt(7, 5); c != (color.RGBA{10, 20, 30, 255}) {
		t.Errorf("pixel = %v", c)
	}
}

func TestFetchErrors(t *testing.T) {
	notFound := httptest.NewServer(http.NotFoundHandler())
	defer notFound.Close()
	garbage := serveImage(t, []byte("<html>not an image</html>"))

	tests := []struct {
		name    string
		locator string
	}{
		{"not found", notFound.URL + "/missing.jpg"},
		{"not an image", garbage.URL + "/a.png"},
		{"missing file", filepath.Join(t.TempDir(), "missing.png")},
	}
	f := NewFetcher(notFound.Client())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.Fetch(context.Background(), tt.locator); err == nil {
				t.Error("Fetch() error = nil, want error")
			}
		})
	}
}

// resizedPNG rewrites the IHDR dimensions of a valid PNG.
func resizedPNG(t *testing.T, w, h uint32) []byte {
	t.Helper()
	b := solidPNG(t, 4, 4, color.Black)
	binary.BigEndian.PutUint32(b[16:20], w)
	binary.BigEndian.PutUint32(b[20:24], h)
	binary.BigEndian.PutUint32(b[29:33], crc32.ChecksumIEEE(b[12:29]))
	return b
}

func TestFetchTooLarge(t *testing.T) {
	p := filepath.Join(t.TempDir(), "huge.png")
	if err := os.WriteFile(p, resizedPNG(t, 100_000, 100_000), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := NewFetcher(nil).Fetch(context.Background(), p)
	if !errors.Is(err, ErrImageTooLarge) {
		t.Errorf("Fetch() error = %v, want %v", err, ErrImageTooLarge)
	}
}

func TestFetchTimeout(t *testing.T) {
	done := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(ts.Close)
	t.Cleanup(func() { close(done) })

	timeout := 300 * time.Millisecond
	f := NewFetcher(NewHTTPClient(nil, timeout, 2))
	start := time.Now()
	_, err := f.Fetch(context.Background(), ts.URL+"/hang.png")
	elapsed := time.Since(start)
	if err == nil {
		t.Fatal("Fetch() error = nil, want error")
	}
	if elapsed > 3*timeout {
		t.Errorf("Fetch() took %s, want about %s", elapsed, timeout)
	}
}
