// Package server exposes slowly over a small local JSON API
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dori/slowly/internal/app"
	"github.com/gin-gonic/gin"
)

// Server is the slowly API server
type Server struct {
	app    *app.App
	router *gin.Engine
	log    *slog.Logger
}

// NewServer creates a new API server
func NewServer(a *app.App) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		app:    a,
		router: router,
		log:    a.Log,
	}
	router.Use(s.logRequests)

	api := router.Group("/api")
	{
		api.GET("/dashboard", s.handleDashboard)
		api.GET("/history", s.handleHistory)
		api.GET("/quote", s.handleQuote)
		api.GET("/tags", s.handleTags)
		api.POST("/tasks", s.handleCreateTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)
		api.POST("/tasks/:id/complete", s.handleComplete)
		api.POST("/tasks/:id/subtasks/:sid/complete", s.handleComplete)
	}

	return s
}

// Handler returns the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is done. It loads the store first when no
// snapshot has arrived yet, so the first request never sees an empty mirror.
func (s *Server) Run(ctx context.Context, addr string) error {
	if err := s.ensureReady(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.log.Info("api listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) ensureReady(ctx context.Context) error {
	if s.app.Mirror.Ready() {
		return nil
	}
	if err := s.app.Sync(ctx); err != nil {
		return fmt.Errorf("initial load: %w", err)
	}
	return nil
}

func (s *Server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.log.Debug("request",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", c.Writer.Status(),
		"elapsed", time.Since(start),
	)
}
