package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/JacobCoffee/debug-toolbar/internal/platform/config"
)

// Server runs the demo application behind the toolbar middleware. It is a
// thin lifecycle wrapper: listen, serve, drain on shutdown. Connection
// timeouts come straight from config so the demo endpoints can be tuned
// without code changes.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// NewServer builds the demo server around the fully assembled handler chain.
func NewServer(cfg config.ServerConfig, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		srv: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		logger: logger,
	}
}

// Start serves requests until Shutdown is called. A clean shutdown returns
// nil; anything else is a real serve failure.
func (s *Server) Start() error {
	s.logger.Info("demo server listening", slog.String("addr", s.srv.Addr))

	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting new connections and waits for in-flight requests
// to drain, bounded by the caller's context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("demo server shutting down")
	return s.srv.Shutdown(ctx)
}
