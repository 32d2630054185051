// Package httpserver runs an http.Handler with timeouts and graceful shutdown
// on context cancellation or SIGINT/SIGTERM.
package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrymomot/modelguard/pkg/logger"
)

var (
	// ErrStart is returned when the listener cannot be opened or serving fails.
	ErrStart = errors.New("httpserver: failed to start")
	// ErrShutdown is returned when graceful shutdown does not finish in time.
	ErrShutdown = errors.New("httpserver: failed to shut down gracefully")
)

// Config holds listener settings. Field tags are read by config.Load.
type Config struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Option adjusts a Server.
type Option func(*Server)

// WithLogger sets the logger for lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithListener serves on an already opened listener instead of Config.Addr.
func WithListener(ln net.Listener) Option {
	return func(s *Server) { s.ln = ln }
}

// WithReadyHook is called with the bound address once the server accepts connections.
func WithReadyHook(fn func(addr string)) Option {
	return func(s *Server) { s.onReady = fn }
}

// Server wraps http.Server.
type Server struct {
	cfg     Config
	log     *slog.Logger
	ln      net.Listener
	onReady func(addr string)
}

// New returns a Server for cfg. Zero durations fall back to sane defaults.
func New(cfg Config, opts ...Option) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	s := &Server{cfg: cfg, log: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run serves handler until ctx is cancelled or the process receives
// SIGINT or SIGTERM, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln := s.ln
	if ln == nil {
		var err error
		if ln, err = net.Listen("tcp", s.cfg.Addr); err != nil {
			return errors.Join(ErrStart, err)
		}
	}

	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(s.log.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	addr := ln.Addr().String()
	s.log.Info("http server started", slog.String("addr", addr))
	if s.onReady != nil {
		s.onReady(addr)
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Join(ErrStart, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Join(ErrShutdown, err)
	}
	s.log.Info("http server stopped")

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(ErrStart, err)
	}
	return nil
}
