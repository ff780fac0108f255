package dot

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/k1LoW/errors"
	"github.com/mattn/go-colorable"
)

var (
	yellow = color.New(color.FgYellow, color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

var _ slog.Handler = (*dotHandler)(nil)

// symbols maps progress messages to the mark printed for them.
var symbols = map[string]func(a ...any) string{
	"selected template":         cyan,
	"fetched template":          gray,
	"drew caption":              yellow,
	"saved meme":                green,
	"created meme with Imgflip": green,
}

var marks = map[string]string{
	"selected template":         "*",
	"fetched template":          ".",
	"drew caption":              ".",
	"saved meme":                "o",
	"created meme with Imgflip": "o",
}

type dotHandler struct {
	handler slog.Handler
	spinner *spinner.Spinner
	stdout  io.Writer
	prefix  []byte
}

type Option func(*dotHandler)

// WithWriter sets where progress marks are written. Defaults to stdout.
func WithWriter(w io.Writer) Option {
	return func(h *dotHandler) {
		h.stdout = w
	}
}

func New(h slog.Handler, opts ...Option) (_ *dotHandler, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()

	d := &dotHandler{
		handler: h,
		stdout:  colorable.NewColorableStdout(),
	}
	for _, opt := range opts {
		opt(d)
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(d.stdout))
	if err := s.Color("yellow"); err != nil {
		return nil, err
	}
	s.Start()
	s.Disable()
	d.spinner = s
	return d, nil
}

func (h *dotHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *dotHandler) Handle(ctx context.Context, r slog.Record) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()

	if strings.HasPrefix(r.Message, "retrying") {
		if !h.spinner.Enabled() {
			h.spinner.Enable()
		}
		return nil
	}
	if h.spinner.Enabled() {
		h.spinner.Disable()
		_, _ = h.stdout.Write(h.prefix)
	}
	if c, ok := symbols[r.Message]; ok {
		return h.write([]byte(c(marks[r.Message])))
	}
	if strings.Contains(r.Message, "failed to") {
		return h.write([]byte(red("!")))
	}
	return nil
}

func (h *dotHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &dotHandler{handler: h.handler.WithAttrs(attrs), spinner: h.spinner, stdout: h.stdout}
}

func (h *dotHandler) WithGroup(name string) slog.Handler {
	return &dotHandler{handler: h.handler.WithGroup(name), spinner: h.spinner, stdout: h.stdout}
}

// Stop halts the spinner.
func (h *dotHandler) Stop() {
	h.spinner.Stop()
}

func (h *dotHandler) write(s []byte) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()

	_, err = h.stdout.Write(s)
	if err != nil {
		return err
	}
	h.prefix = append(h.prefix, s...)
	return nil
}
