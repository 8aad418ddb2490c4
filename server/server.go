// Package server exposes a scanned dependency graph over HTTP for interactive
// viewing. The graph snapshot is built once by the caller and never mutated,
// so request handlers read it without locking.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"

	"go.interactor.dev/blastradius"
	"go.interactor.dev/blastradius/encoding"
)

// Service serves the interactive viewer for one immutable graph snapshot.
type Service struct {
	ctx context.Context
	log *slog.Logger

	doc  encoding.Graph
	page []byte

	httpServer *http.Server

	Host string
	Port int
}

// Option configures the Service.
type Option func(*Service) error

// New creates a Service for the given graph. Host and port default to the
// viper keys "web.host" and "web.port" when no option overrides them.
func New(ctx context.Context, log *slog.Logger, graph *blastradius.Graph, opts ...Option) (*Service, error) {
	page, err := encoding.RenderPage(graph)
	if err != nil {
		return nil, fmt.Errorf("rendering viewer page: %w", err)
	}

	s := &Service{
		ctx:  ctx,
		log:  log,
		doc:  encoding.FromGraph(graph),
		page: page,
		Host: viper.GetString("web.host"),
		Port: viper.GetInt("web.port"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// WithAddress sets the listen host and port.
func WithAddress(host string, port int) Option {
	return func(s *Service) error {
		if host != "" {
			s.Host = host
		}
		if port != 0 {
			s.Port = port
		}
		return nil
	}
}

// Router builds the gin engine with all viewer routes registered.
func (s *Service) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(s.requestLogger(), gin.Recovery())

	router.GET("/", s.index)
	router.GET("/api/graph", s.apiGraph)
	router.StaticFS("/static", http.FS(encoding.StaticFS()))

	return router
}

// Start runs the HTTP server until it fails or Shutdown is called.
func (s *Service) Start() error {
	s.httpServer = s.buildServer()

	s.log.Info("starting web server",
		slog.String("address", "http://"+s.httpServer.Addr),
		slog.Int("nodes", len(s.doc.Nodes)),
		slog.Int("edges", len(s.doc.Links)))

	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// buildServer wires the router and the service context, so request contexts
// derive from the context New was given.
func (s *Service) buildServer() *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort(s.Host, strconv.Itoa(s.Port)),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return s.ctx
		},
	}
}

// Shutdown gracefully stops a started server.
func (s *Service) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Service) index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", s.page)
}

func (s *Service) apiGraph(c *gin.Context) {
	c.JSON(http.StatusOK, s.doc)
}

func (s *Service) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)))
	}
}
