package caption

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/k1LoW/errors"
	"github.com/k1LoW/memegen/config"
)

const systemPrompt = "You are a witty meme caption generator who understands internet humor and meme culture."

const promptTemplate = `You are a creative meme caption writer. Generate a %s meme caption about "%s"%s.

Requirements:
- The caption should be humorous and relatable
- Use %d line(s) of text
- Keep each line under 60 characters
- Use internet/meme culture references when appropriate
- Be concise and punchy

Format your response as:
TOP: <top text>
BOTTOM: <bottom text>

If only 1 line is needed, leave BOTTOM empty.`

var _ Captioner = (*OpenAI)(nil)

// OpenAI generates captions with the chat completions API.
type OpenAI struct {
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	client      *http.Client
	logger      *slog.Logger
}

type Option func(*OpenAI)

func WithHTTPClient(c *http.Client) Option {
	return func(o *OpenAI) {
		if c != nil {
			o.client = c
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *OpenAI) {
		o.logger = l
	}
}

// NewOpenAI returns an OpenAI captioner. It fails when no API key is configured.
func NewOpenAI(cfg *config.Config, opts ...Option) (_ *OpenAI, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OpenAI API key not configured. Please set OPENAI_API_KEY")
	}
	o := &OpenAI{
		apiKey:      cfg.OpenAIAPIKey,
		baseURL:     strings.TrimSuffix(cfg.OpenAIBaseURL, "/"),
		model:       cfg.LLMModel,
		maxTokens:   cfg.MaxCaptionTokens,
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: cfg.Timeout},
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Generate asks the model for a caption. Any failure yields Fallback.
func (o *OpenAI) Generate(ctx context.Context, req Request) Caption {
	req = req.withDefaults()
	text, err := o.complete(ctx, buildPrompt(req))
	if err != nil {
		o.logger.Warn("failed to generate caption with OpenAI", slog.String("topic", req.Topic), slog.String("error", err.Error()))
		return Fallback(req.Topic, req.Lines)
	}
	return Parse(text, req.Topic, req.Lines)
}

func buildPrompt(req Request) string {
	var templateContext string
	if req.TemplateName != "" {
		templateContext = fmt.Sprintf(" for the '%s' meme template", req.TemplateName)
	}
	return fmt.Sprintf(promptTemplate, req.Style, req.Topic, templateContext, req.Lines)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (o *OpenAI) complete(ctx context.Context, prompt string) (_ string, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	body, err := json.Marshal(&chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   o.maxTokens,
		Temperature: o.temperature,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	res, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call chat completions: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return "", fmt.Errorf("chat completions failed with status %d: %s", res.StatusCode, string(b))
	}
	var cr chatResponse
	if err := json.NewDecoder(res.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("failed to decode chat completions response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("chat completions returned no choices")
	}
	return strings.TrimSpace(cr.Choices[0].Message.Content), nil
}
