// Package server exposes the analysis pipeline over HTTP: a trigger
// endpoint that runs (or reuses) an analysis, and a read endpoint over
// the persisted per-workspace results.
package server

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/sycomix/inpoint-ai-backend/internal/pipeline"
	"github.com/sycomix/inpoint-ai-backend/internal/store"
)

type Server struct {
	pipeline *pipeline.Pipeline
	store    store.Store
	logger   *log.Logger
}

func NewServer(p *pipeline.Pipeline, st store.Store, logger *log.Logger) *Server {
	return &Server{pipeline: p, store: st, logger: logger}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.POST("/api/analyze", s.Analyze)
	r.GET("/api/results", s.Results)

	return r
}

// Analyze triggers a run. A throttled call answers 429 with the previous
// results so clients always get a usable payload.
func (s *Server) Analyze(c *gin.Context) {
	status, results, err := s.pipeline.Analyze(c.Request.Context(), false)
	if err != nil {
		s.logger.Error("analysis request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
		return
	}

	switch status {
	case pipeline.StatusThrottled:
		c.JSON(http.StatusTooManyRequests, gin.H{
			"status":  "throttled",
			"results": results,
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"results": results,
		})
	}
}

// Results returns stored analyses, optionally filtered with
// ?ids=<id>,<id>. No match answers 404.
func (s *Server) Results(c *gin.Context) {
	var ids []string
	if raw := c.Query("ids"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}

	results, err := s.store.Results(c.Request.Context(), ids)
	if err != nil {
		s.logger.Error("failed to read results", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read results"})
		return
	}
	if len(results) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no analysis results found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}
