// Package server exposes a trained tokenizer over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/axiomdb/axiom/internal/tokenizer"
)

const shutdownTimeout = 5 * time.Second

// Server serves encode, decode and merge-table queries for one tokenizer.
type Server struct {
	tok    *tokenizer.BPETokenizer
	logger *slog.Logger
	router *gin.Engine
}

// EncodeRequest carries a single text or a batch of texts.
type EncodeRequest struct {
	Text  *string  `json:"text,omitempty"`
	Texts []string `json:"texts,omitempty"`
}

// DecodeRequest carries the token IDs to decode.
type DecodeRequest struct {
	IDs []int32 `json:"ids"`
}

// DecodeResponse is the decoded text and the number of unknown IDs replaced.
type DecodeResponse struct {
	Text    string `json:"text"`
	Unknown int    `json:"unknown"`
}

// MergeEntry is one learned merge with its token rendered for display.
type MergeEntry struct {
	Rank  int    `json:"rank"`
	Left  int32  `json:"left"`
	Right int32  `json:"right"`
	ID    int32  `json:"id"`
	Token string `json:"token"`
}

// MergesResponse lists merges in rank order; Total counts all of them.
type MergesResponse struct {
	Total  int          `json:"total"`
	Merges []MergeEntry `json:"merges"`
}

// New creates a Server for tok. A nil logger means slog.Default().
func New(tok *tokenizer.BPETokenizer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{tok: tok, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests())

	r.GET("/healthz", s.HealthHandler)
	r.POST("/api/encode", s.EncodeHandler)
	r.POST("/api/decode", s.DecodeHandler)
	r.GET("/api/merges", s.MergesHandler)
	return r
}

// Serve runs the HTTP server on ln until ctx is cancelled, then shuts it down.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String(), "vocab_size", s.tok.VocabSize())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// HealthHandler reports liveness and the vocabulary size.
func (s *Server) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "vocab_size": s.tok.VocabSize()})
}

// EncodeHandler encodes "text" to "ids" or "texts" to "batch".
func (s *Server) EncodeHandler(c *gin.Context) {
	var req EncodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch {
	case req.Texts != nil:
		batch, err := s.tok.EncodeBatch(req.Texts)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		for i := range batch {
			if batch[i] == nil {
				batch[i] = []int32{}
			}
		}
		c.JSON(http.StatusOK, gin.H{"batch": batch})
	case req.Text != nil:
		ids, err := s.tok.Encode(*req.Text)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if ids == nil {
			ids = []int32{}
		}
		c.JSON(http.StatusOK, gin.H{"ids": ids})
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "text or texts is required"})
	}
}

// DecodeHandler decodes "ids"; unknown IDs become U+FFFD and are counted.
func (s *Server) DecodeHandler(c *gin.Context) {
	var req DecodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text, unknown := s.tok.DecodeWithReport(req.IDs)
	c.JSON(http.StatusOK, DecodeResponse{Text: text, Unknown: unknown})
}

// MergesHandler lists merges, at most "limit" of them when that query is set.
func (s *Server) MergesHandler(c *gin.Context) {
	table := s.tok.Table()
	records := table.Records()

	limit := len(records)
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = min(n, len(records))
	}

	merges := make([]MergeEntry, 0, limit)
	for i, rec := range records[:limit] {
		merges = append(merges, MergeEntry{
			Rank:  i,
			Left:  rec.Pair.Left,
			Right: rec.Pair.Right,
			ID:    rec.ID,
			Token: table.Display(rec.ID),
		})
	}
	c.JSON(http.StatusOK, MergesResponse{Total: len(records), Merges: merges})
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
