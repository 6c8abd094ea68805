// Package server exposes the chatbot over HTTP.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cherry-ai/domain"
	"cherry-ai/infrastructure/config"
)

// ChatService is what the HTTP layer needs from the application.
type ChatService interface {
	Ask(ctx context.Context, query string) (*domain.ChatMessage, error)
	History() []string
}

// Server wraps the gin router and the underlying http.Server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
}

// New builds the router and server for the given service.
func New(cfg config.ServerConfig, svc ChatService) *Server {
	router := NewRouter(svc)
	return &Server{
		router: router,
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout(),
			WriteTimeout: cfg.WriteTimeout(),
		},
	}
}

// NewRouter registers every route on a fresh gin engine.
func NewRouter(svc ChatService) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("Recovered from panic: %v\n", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: internalErrorMessage})
	}))

	h := &handler{svc: svc}
	router.GET("/healthz", h.health)

	api := router.Group("/api")
	api.POST("/query", h.query)
	api.GET("/history", h.history)
	api.GET("/schema", h.schema)

	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Listening on %s\n", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
