// Package catalog holds meme templates loaded once at startup.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/k1LoW/errors"
)

const (
	defaultBoxCount = 2
	maxExamples     = 3
	// popularPoolSize is how many leading templates a topic without a keyword match picks from.
	popularPoolSize = 30
)

// Template is a base image plus its metadata.
type Template struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	BoxCount int    `json:"box_count"`
	Examples []any  `json:"examples"`
}

// ID is a template identifier. Datasets encode it as a number or a string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	if bytes.HasPrefix(b, []byte(`"`)) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid template id %s: %w", b, err)
	}
	*id = ID(n.String())
	return nil
}

// Catalog is an ordered, read-only list of templates. Earlier templates are more popular.
type Catalog struct {
	templates []*Template
	intN      func(n int) int
}

type Option func(*Catalog)

// WithRand sets the source used for random picks.
func WithRand(intN func(n int) int) Option {
	return func(c *Catalog) {
		c.intN = intN
	}
}

func New(templates []*Template, opts ...Option) *Catalog {
	c := &Catalog{
		templates: templates,
		intN:      rand.IntN,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// datasetEntry is one record of the local memes.json dataset.
type datasetEntry struct {
	ID             ID     `json:"id"`
	Name           string `json:"name"`
	BaseImg        string `json:"base_img"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	TextBox        *int   `json:"text_box"`
	GeneratedMemes []any  `json:"generated_memes"`
}

// Load reads the local dataset at path. When the file does not exist the
// remote catalog is fetched instead.
func Load(ctx context.Context, path string, remote *Imgflip, logger *slog.Logger, opts ...Option) (_ *Catalog, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if _, err := os.Stat(path); err == nil || !os.IsNotExist(err) || remote == nil {
		templates, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded templates from local dataset", slog.Int("count", len(templates)), slog.String("path", path))
		return New(templates, opts...), nil
	}
	logger.Warn("local dataset not found, falling back to Imgflip API", slog.String("path", path))
	templates, err := remote.GetMemes(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("fetched templates from Imgflip API", slog.Int("count", len(templates)))
	return New(templates, opts...), nil
}

// LoadFile parses a memes.json dataset.
func LoadFile(path string) (_ []*Template, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []datasetEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", path, err)
	}
	templates := make([]*Template, 0, len(entries))
	for _, e := range entries {
		boxCount := defaultBoxCount
		if e.TextBox != nil {
			boxCount = *e.TextBox
		}
		examples := e.GeneratedMemes
		if len(examples) > maxExamples {
			examples = examples[:maxExamples]
		}
		templates = append(templates, &Template{
			ID:       e.ID,
			Name:     e.Name,
			URL:      fixURL(e.BaseImg),
			Width:    e.Width,
			Height:   e.Height,
			BoxCount: boxCount,
			Examples: examples,
		})
	}
	return templates, nil
}

func fixURL(u string) string {
	switch {
	case strings.HasPrefix(u, "//"):
		return "https:" + u
	case !strings.HasPrefix(u, "http"):
		return "https://" + u
	default:
		return u
	}
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	return len(c.templates)
}

// Random returns a random template, or nil when the catalog is empty.
func (c *Catalog) Random() *Template {
	if len(c.templates) == 0 {
		return nil
	}
	return c.templates[c.intN(len(c.templates))]
}

// ByName finds a template by case-insensitive exact name, then by substring.
func (c *Catalog) ByName(name string) *Template {
	name = strings.ToLower(name)
	for _, t := range c.templates {
		if strings.ToLower(t.Name) == name {
			return t
		}
	}
	for _, t := range c.templates {
		if strings.Contains(strings.ToLower(t.Name), name) {
			return t
		}
	}
	return nil
}

// ByID finds a template by id.
func (c *Catalog) ByID(id string) *Template {
	for _, t := range c.templates {
		if string(t.ID) == id {
			return t
		}
	}
	return nil
}

// Search returns up to limit templates whose name contains query, case-insensitively.
func (c *Catalog) Search(query string, limit int) []*Template {
	query = strings.ToLower(query)
	matches := []*Template{}
	for _, t := range c.templates {
		if len(matches) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(t.Name), query) {
			matches = append(matches, t)
		}
	}
	return matches
}

// Popular returns the first limit templates.
func (c *Catalog) Popular(limit int) []*Template {
	if limit < 0 {
		limit = 0
	}
	if limit > len(c.templates) {
		limit = len(c.templates)
	}
	return append([]*Template{}, c.templates[:limit]...)
}

// Names returns every template name.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.templates))
	for _, t := range c.templates {
		names = append(names, t.Name)
	}
	return names
}

// Info returns a human readable description of t.
func Info(t *Template) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Template: %s\n", t.Name)
	fmt.Fprintf(&b, "ID: %s\n", t.ID)
	fmt.Fprintf(&b, "Dimensions: %dx%d\n", t.Width, t.Height)
	fmt.Fprintf(&b, "Text boxes: %d\n", t.BoxCount)
	fmt.Fprintf(&b, "URL: %s", t.URL)
	return b.String()
}
