// Package server exposes the meme generator over HTTP.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/k1LoW/memegen"
	"github.com/k1LoW/memegen/caption"
	"github.com/k1LoW/memegen/catalog"
	"github.com/k1LoW/memegen/config"
)

const (
	defaultTemplateLimit = 50
	requestIDHeader      = "X-Request-Id"
)

type Server struct {
	gen    *memegen.Generator
	mode   string
	logger *slog.Logger
	engine *gin.Engine
}

type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMode sets the captioning mode reported by the health endpoint.
func WithMode(mode string) Option {
	return func(s *Server) {
		s.mode = mode
	}
}

// New returns a Server. A nil generator is reported as an uninitialized
// component on every endpoint that needs it.
func New(gen *memegen.Generator, opts ...Option) *Server {
	s := &Server{
		gen:    gen,
		mode:   config.ProviderDemo,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())
	r.POST("/api/generate", s.handleGenerate)
	r.GET("/api/templates", s.handleTemplates)
	r.POST("/api/caption", s.handleCaption)
	r.GET("/api/demo-topics", s.handleDemoTopics)
	r.GET("/api/health", s.handleHealth)
	r.GET(memegen.MemeURLPrefix+":filename", s.handleMeme)
	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "Endpoint not found")
	})
	s.engine = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

type generateRequest struct {
	Topic        string `json:"topic"`
	TemplateName string `json:"template_name"`
	Style        string `json:"style"`
	UseImgflip   bool   `json:"use_imgflip"`
}

type templateSummary struct {
	ID   catalog.ID `json:"id"`
	Name string     `json:"name"`
	URL  string     `json:"url"`
}

func (s *Server) handleGenerate(c *gin.Context) {
	if s.gen == nil || s.gen.Catalog() == nil {
		fail(c, http.StatusInternalServerError, "System components not initialized. Please check configuration.")
		return
	}
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	meme, err := s.gen.Generate(c.Request.Context(), memegen.Request{
		Topic:        req.Topic,
		TemplateName: req.TemplateName,
		Style:        req.Style,
		UseImgflip:   req.UseImgflip,
	})
	if err != nil {
		s.logger.Error("failed to generate meme", slog.String("error", err.Error()))
		fail(c, statusOf(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"meme_url": meme.URL,
		"caption":  meme.Caption,
		"template": templateSummary{
			ID:   meme.Template.ID,
			Name: meme.Template.Name,
			URL:  meme.Template.URL,
		},
		"phash": meme.PHash,
	})
}

func (s *Server) handleTemplates(c *gin.Context) {
	if s.gen == nil || s.gen.Catalog() == nil {
		fail(c, http.StatusInternalServerError, "Template selector not initialized")
		return
	}
	limit := defaultTemplateLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			fail(c, http.StatusBadRequest, "Invalid limit: "+v)
			return
		}
		limit = n
	}
	cat := s.gen.Catalog()
	var templates []*catalog.Template
	if q := c.Query("search"); q != "" {
		templates = cat.Search(q, limit)
	} else {
		templates = cat.Popular(limit)
	}
	if templates == nil {
		templates = []*catalog.Template{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"templates": templates,
		"count":     len(templates),
	})
}

func (s *Server) handleCaption(c *gin.Context) {
	if s.gen == nil {
		fail(c, http.StatusInternalServerError, "Caption generator not initialized")
		return
	}
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	cp, err := s.gen.Caption(c.Request.Context(), memegen.Request{
		Topic:        req.Topic,
		TemplateName: req.TemplateName,
		Style:        req.Style,
	})
	if err != nil {
		fail(c, statusOf(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"caption": cp,
	})
}

func (s *Server) handleDemoTopics(c *gin.Context) {
	topics := caption.Topics()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"topics":  topics,
		"count":   len(topics),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	var (
		loaded      int
		hasCatalog  bool
		hasCaptions = s.gen != nil
	)
	if s.gen != nil && s.gen.Catalog() != nil {
		hasCatalog = true
		loaded = s.gen.Catalog().Len()
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"mode":   s.mode,
		"components": gin.H{
			"caption_generator": hasCaptions,
			"template_selector": hasCatalog,
			"meme_creator":      s.gen != nil,
		},
		"templates_loaded": loaded,
		"demo_topics":      len(caption.Topics()),
	})
}

func (s *Server) handleMeme(c *gin.Context) {
	if s.gen == nil {
		fail(c, http.StatusInternalServerError, "Meme creator not initialized")
		return
	}
	p, err := s.gen.Store().Path(c.Param("filename"))
	if err != nil {
		fail(c, http.StatusNotFound, "File not found")
		return
	}
	if fi, err := os.Stat(p); err != nil || fi.IsDir() {
		fail(c, http.StatusNotFound, "File not found")
		return
	}
	c.File(p)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		start := time.Now()
		c.Next()
		s.logger.Info("handled request",
			slog.String("request_id", id),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, memegen.ErrTopicRequired):
		return http.StatusBadRequest
	case errors.Is(err, memegen.ErrTemplateNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   msg,
	})
}
