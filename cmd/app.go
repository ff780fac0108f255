/*
Copyright © 2025 Ken'ichiro Oyama <k1lowxb@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/fatih/color"
	"github.com/k1LoW/memegen"
	"github.com/k1LoW/memegen/caption"
	"github.com/k1LoW/memegen/catalog"
	"github.com/k1LoW/memegen/config"
	"github.com/spf13/cobra"
)

const retryMax = 2

type app struct {
	cfg       *config.Config
	gen       *memegen.Generator
	captioner caption.Captioner
	mode      string
}

// newApp builds the generator from the configuration. Configuration problems
// are printed as warnings. When strict is false a catalog that cannot be
// loaded leaves meme generation uninitialized instead of failing.
func newApp(ctx context.Context, cmd *cobra.Command, logger *slog.Logger, strict bool) (*app, error) {
	cfg, err := config.Load(profile)
	if err != nil {
		return nil, err
	}
	yellow := color.New(color.FgYellow)
	for _, e := range cfg.Validate() {
		_, _ = yellow.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", e)
		logger.Warn("invalid configuration", slog.String("error", e.Error()))
	}

	client := memegen.NewHTTPClient(logger, cfg.Timeout, retryMax)
	captioner, mode, err := newCaptioner(cfg, client, logger)
	if err != nil {
		return nil, err
	}
	imgflip := catalog.NewImgflip(client, config.ImgflipGetMemesURL, config.ImgflipCaptionURL, cfg.ImgflipUsername, cfg.ImgflipPassword)
	cat, err := catalog.Load(ctx, cfg.DatasetPath, imgflip, logger)
	if err != nil {
		if strict {
			return nil, err
		}
		logger.Error("failed to load templates", slog.String("error", err.Error()))
	}

	gen, err := memegen.New(cat, captioner,
		memegen.WithLogger(logger),
		memegen.WithFetcher(memegen.NewFetcher(client)),
		memegen.WithStore(memegen.NewStore(cfg.OutputDir, cfg.JPEGQuality)),
		memegen.WithFontResolver(memegen.NewFontResolver(cfg.FontPaths, logger)),
		memegen.WithImgflip(imgflip),
	)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:       cfg,
		gen:       gen,
		captioner: captioner,
		mode:      mode,
	}, nil
}

// newCaptioner returns the OpenAI captioner when it is configured, and the
// static demo captioner otherwise.
func newCaptioner(cfg *config.Config, client *http.Client, logger *slog.Logger) (caption.Captioner, string, error) {
	static, err := caption.NewStatic(caption.WithRules(cfg.Captions))
	if err != nil {
		return nil, "", err
	}
	if cfg.LLMProvider != config.ProviderOpenAI || cfg.OpenAIAPIKey == "" {
		logger.Info("using demo captions")
		return static, config.ProviderDemo, nil
	}
	o, err := caption.NewOpenAI(cfg, caption.WithHTTPClient(client), caption.WithLogger(logger))
	if err != nil {
		return nil, "", err
	}
	return o, config.ProviderOpenAI, nil
}
