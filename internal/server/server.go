package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/refranero/hangedgame/internal/room"
)

// Config holds the TCP listener settings.
type Config struct {
	Host       string
	Port       int
	MaxClients int
}

// DefaultConfig returns the default listener configuration.
func DefaultConfig() Config {
	return Config{
		Host:       "0.0.0.0",
		Port:       2050,
		MaxClients: 64,
	}
}

// Server owns the TCP listener and spawns one connection handler per
// accepted client. The number of concurrently served clients is bounded by
// a semaphore: excess connections wait in the accept backlog instead of
// being dropped.
type Server struct {
	cfg        Config
	dispatcher *Dispatcher
	registry   *room.Registry
	logger     *slog.Logger

	mu       sync.Mutex
	listener net.Listener
	closed   bool

	slots chan struct{}
	wg    sync.WaitGroup
}

// New creates a server over an already-built dispatcher table.
func New(cfg Config, dispatcher *Dispatcher, registry *room.Registry, logger *slog.Logger) *Server {
	if cfg.MaxClients <= 0 {
		cfg.MaxClients = DefaultConfig().MaxClients
	}
	return &Server{
		cfg:        cfg,
		dispatcher: dispatcher,
		registry:   registry,
		logger:     logger,
		slots:      make(chan struct{}, cfg.MaxClients),
	}
}

// Addr returns the listener address once the server has started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	}
	return s.listener.Addr().String()
}

// Start binds the listener and serves until Shutdown. A bind failure is
// returned to the caller; it is fatal at startup.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port))
	if err != nil {
		return fmt.Errorf("binding listener: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.logger.Info("server listening",
		slog.String("addr", listener.Addr().String()),
		slog.Int("max_clients", s.cfg.MaxClients))

	for {
		// Take a slot before accepting so that excess connections queue
		// in the listener backlog rather than being accepted and dropped.
		select {
		case s.slots <- struct{}{}:
		case <-ctx.Done():
			return nil
		}

		conn, err := listener.Accept()
		if err != nil {
			<-s.slots
			if s.isClosed() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Warn("accept failed", slog.String("error", err.Error()))
			continue
		}

		client := NewClient(conn, s.dispatcher, s.registry, s.logger)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer func() { <-s.slots }()
			client.Handle(ctx)
		}()
	}
}

// Shutdown closes the listener and waits for in-flight connections to
// finish their teardown.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		if err := listener.Close(); err != nil {
			return err
		}
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
