package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"mediadock/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Listener runs one surface on its bind address.
type Listener struct {
	name   string
	bind   string
	logger *slog.Logger
	server *http.Server

	mu       sync.Mutex
	listener net.Listener
}

// NewListener returns nil when bind is empty, which disables the surface.
func NewListener(name, bind string, handler http.Handler, logger *slog.Logger) *Listener {
	bind = strings.TrimSpace(bind)
	if bind == "" || handler == nil {
		return nil
	}
	return &Listener{
		name:   name,
		bind:   bind,
		logger: logging.NewComponentLogger(logger, name+"-server"),
		server: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       60 * time.Second,
			WriteTimeout:      120 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Name returns the surface name.
func (l *Listener) Name() string {
	if l == nil {
		return ""
	}
	return l.name
}

// Start binds the address and serves in the background until ctx is done or
// Stop is called.
func (l *Listener) Start(ctx context.Context) error {
	if l == nil {
		return nil
	}
	listener, err := net.Listen("tcp", l.bind)
	if err != nil {
		return fmt.Errorf("%s listen: %w", l.name, err)
	}
	l.mu.Lock()
	l.listener = listener
	l.mu.Unlock()

	go func() {
		if err := l.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.logger.Error("server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		l.Stop()
	}()

	l.logger.Info("server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Bind returns the configured bind address.
func (l *Listener) Bind() string {
	if l == nil {
		return ""
	}
	return l.bind
}

// Addr returns the bound address, or "" before Start.
func (l *Listener) Addr() string {
	if l == nil {
		return ""
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.listener == nil {
		return ""
	}
	return l.listener.Addr().String()
}

// Stop drains in-flight requests for up to five seconds.
func (l *Listener) Stop() {
	if l == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = l.server.Shutdown(shutdownCtx)
}
