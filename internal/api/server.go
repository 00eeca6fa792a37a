// Package api exposes the dashboard's REST surface: channel lifecycle,
// message routing, AI and automation settings, and the chat responder.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alleyops/switchboard/internal/ai"
	"github.com/alleyops/switchboard/internal/relay"
	"github.com/alleyops/switchboard/internal/store"
)

// Server bundles the collaborators the handlers need.
type Server struct {
	store     *store.Store
	manager   *relay.Manager
	responder *ai.Responder // nil when no API key is configured
}

// Opts holds configuration for the API server.
type Opts struct {
	Store   *store.Store
	Manager *relay.Manager

	// Responder powers POST /api/chat. Optional; the endpoint answers 503
	// when absent.
	Responder *ai.Responder

	Port int
	Out  io.Writer
}

// NewRouter builds the Gin engine with all routes registered. Split out
// from Start so tests can drive handlers through httptest.
func NewRouter(opts Opts) (*gin.Engine, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("api: store is required")
	}
	if opts.Manager == nil {
		return nil, fmt.Errorf("api: manager is required")
	}

	s := &Server{store: opts.Store, manager: opts.Manager, responder: opts.Responder}

	router := gin.New()
	router.Use(gin.Recovery())
	s.registerRoutes(router)
	return router, nil
}

// Start launches the API server. It blocks until ctx is cancelled, then
// shuts down gracefully.
func Start(ctx context.Context, opts Opts) error {
	if opts.Port <= 0 {
		opts.Port = 8080
	}

	gin.SetMode(gin.ReleaseMode)
	router, err := NewRouter(opts)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "API running at http://localhost:%d\n", opts.Port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}
