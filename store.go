package memegen

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/k1LoW/errors"
)

// Store persists generated memes to a directory.
type Store struct {
	dir     string
	quality int
	now     func() time.Time
}

func NewStore(dir string, quality int) *Store {
	return &Store{
		dir:     dir,
		quality: quality,
		now:     time.Now,
	}
}

// FileName returns the timestamped name used when no name is given.
func FileName(t time.Time) string {
	return fmt.Sprintf("meme_%s.jpg", t.Format("20060102_150405"))
}

// Save writes img as a JPEG under the output directory and returns its path.
func (s *Store) Save(img image.Image, filename string) (_ string, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if filename == "" {
		filename = FileName(s.now())
	}
	p, err := s.Path(filename)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", s.dir, err)
	}
	if err := imaging.Save(img, p, imaging.JPEGQuality(s.quality)); err != nil {
		return "", fmt.Errorf("failed to save meme %s: %w", p, err)
	}
	return p, nil
}

// Path resolves filename inside the output directory. Names that would
// escape the directory are rejected.
func (s *Store) Path(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return "", fmt.Errorf("invalid file name: %q", filename)
	}
	return filepath.Join(s.dir, filename), nil
}
