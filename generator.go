package memegen

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/corona10/goimagehash"
	"github.com/k1LoW/errors"
	"github.com/k1LoW/memegen/caption"
	"github.com/k1LoW/memegen/catalog"
)

// MemeURLPrefix is the path generated memes are served under.
const MemeURLPrefix = "/generated_memes/"

// Generator turns a topic into a captioned meme image.
type Generator struct {
	catalog    *catalog.Catalog
	captioner  caption.Captioner
	fetcher    *Fetcher
	fonts      *FontResolver
	compositor *Compositor
	store      *Store
	imgflip    *catalog.Imgflip
	logger     *slog.Logger
}

type Option func(*Generator) error

func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) error {
		g.logger = logger
		return nil
	}
}

func WithFetcher(f *Fetcher) Option {
	return func(g *Generator) error {
		g.fetcher = f
		return nil
	}
}

func WithStore(s *Store) Option {
	return func(g *Generator) error {
		g.store = s
		return nil
	}
}

func WithFontResolver(r *FontResolver) Option {
	return func(g *Generator) error {
		g.fonts = r
		return nil
	}
}

// WithImgflip enables remote rendering for requests that ask for it.
func WithImgflip(i *catalog.Imgflip) Option {
	return func(g *Generator) error {
		g.imgflip = i
		return nil
	}
}

// Request describes the meme wanted.
type Request struct {
	Topic        string
	TemplateName string
	Style        string
	UseImgflip   bool
	Filename     string
}

// Meme is a generated meme.
type Meme struct {
	URL      string            `json:"meme_url"`
	Path     string            `json:"path,omitempty"`
	Caption  caption.Caption   `json:"caption"`
	Template *catalog.Template `json:"template"`
	PHash    string            `json:"phash,omitempty"`
	Remote   bool              `json:"remote"`
}

// New returns a Generator. A nil catalog leaves meme generation uninitialized
// while captions still work.
func New(cat *catalog.Catalog, captioner caption.Captioner, opts ...Option) (_ *Generator, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	g := &Generator{
		catalog:   cat,
		captioner: captioner,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	if g.fetcher == nil {
		g.fetcher = NewFetcher(NewHTTPClient(g.logger, defaultTimeout, 1))
	}
	if g.fonts == nil {
		g.fonts = NewFontResolver(nil, g.logger)
	}
	g.compositor = NewCompositor(g.fonts, g.logger)
	if g.store == nil {
		g.store = NewStore("generated_memes", 95)
	}
	return g, nil
}

// Catalog returns the template catalog, which may be nil.
func (g *Generator) Catalog() *catalog.Catalog {
	return g.catalog
}

// Store returns the output store.
func (g *Generator) Store() *Store {
	return g.store
}

// Caption generates a caption only.
func (g *Generator) Caption(ctx context.Context, req Request) (_ caption.Caption, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if g.captioner == nil {
		return caption.Caption{}, ErrNotInitialized
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return caption.Caption{}, ErrTopicRequired
	}
	return g.captioner.Generate(ctx, caption.Request{
		Topic:        topic,
		TemplateName: req.TemplateName,
		Style:        req.Style,
	}), nil
}

// Generate selects a template, captions it and renders the meme. Caption
// failures never abort generation; template download or decode failures do.
func (g *Generator) Generate(ctx context.Context, req Request) (_ *Meme, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if g.catalog == nil || g.captioner == nil {
		return nil, ErrNotInitialized
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, ErrTopicRequired
	}

	var tmpl *catalog.Template
	if req.TemplateName != "" {
		tmpl = g.catalog.ByName(req.TemplateName)
		if tmpl == nil {
			return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, req.TemplateName)
		}
	} else {
		tmpl = g.catalog.ForTopic(topic)
	}
	if tmpl == nil {
		return nil, ErrNoTemplates
	}
	g.logger.Info("selected template", slog.String("template", tmpl.Name), slog.String("id", string(tmpl.ID)))

	c := g.captioner.Generate(ctx, caption.Request{
		Topic:        topic,
		TemplateName: tmpl.Name,
		Style:        req.Style,
		Lines:        min(tmpl.BoxCount, 2),
	})
	meme := &Meme{
		Caption:  c,
		Template: tmpl,
	}

	if req.UseImgflip && g.imgflip.CanCaption() {
		u, err := g.imgflip.Caption(ctx, string(tmpl.ID), c.TopText, c.BottomText)
		if err == nil {
			g.logger.Info("created meme with Imgflip", slog.String("url", u))
			meme.URL = u
			meme.Remote = true
			return meme, nil
		}
		g.logger.Warn("failed to create meme with Imgflip, rendering locally", slog.String("error", err.Error()))
	}

	p, phash, err := g.Render(ctx, tmpl.URL, c, req.Filename)
	if err != nil {
		return nil, err
	}
	meme.Path = p
	meme.URL = MemeURLPrefix + filepath.Base(p)
	meme.PHash = phash
	return meme, nil
}

// Render draws c onto the image at locator and persists it. It returns the
// written path and the perceptual hash of the result.
func (g *Generator) Render(ctx context.Context, locator string, c caption.Caption, filename string) (_ string, _ string, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	canvas, err := g.fetcher.Fetch(ctx, locator)
	if err != nil {
		g.logger.Error("failed to fetch template", slog.String("locator", locator), slog.String("error", err.Error()))
		return "", "", fmt.Errorf("failed to create meme: %w", err)
	}
	g.logger.Info("fetched template", slog.String("locator", locator), slog.Int("width", canvas.Bounds().Dx()), slog.Int("height", canvas.Bounds().Dy()))

	g.compositor.Composite(canvas, SlotTop, c.TopText)
	g.compositor.Composite(canvas, SlotBottom, c.BottomText)

	p, err := g.store.Save(canvas, filename)
	if err != nil {
		g.logger.Error("failed to save meme", slog.String("error", err.Error()))
		return "", "", err
	}
	var phash string
	if h, err := goimagehash.PerceptionHash(canvas); err == nil {
		phash = h.ToString()
	}
	g.logger.Info("saved meme", slog.String("path", p), slog.String("phash", phash))
	return p, phash, nil
}
