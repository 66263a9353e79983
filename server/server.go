// Package server exposes the command language over a plain-text TCP
// line protocol: one command per line in, response lines out, errors as
// "Error: <message>" lines. Each connection gets its own session.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"sync"

	"onetable/config"
	"onetable/storage"
)

// Server accepts TCP connections and spawns a goroutine per client.
type Server struct {
	cfg      *config.Config
	reg      *storage.Registry
	auth     *Authenticator // nil = no auth
	mu       sync.Mutex     // protects listener
	listener net.Listener
	wg       sync.WaitGroup
	quit     chan struct{}
}

// New creates a server. With a non-empty cfg.Password every connection
// must answer the password challenge before its first command.
func New(cfg *config.Config, reg *storage.Registry) (*Server, error) {
	s := &Server{
		cfg:  cfg,
		reg:  reg,
		quit: make(chan struct{}),
	}
	if cfg.Password != "" {
		auth, err := NewAuthenticator(cfg.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		s.auth = auth
	}
	return s, nil
}

// ListenAndServe starts accepting connections. It blocks until Shutdown
// is called or an unrecoverable error occurs.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	log.Printf("onetable listening on %s", addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-s.quit:
				return nil
			default:
				log.Printf("accept error: %v", err)
				continue
			}
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			c := newConnection(conn, s.cfg, s.reg, s.auth)
			c.Handle()
		}()
	}
}

// Addr returns the listener's network address, or nil if not yet listening.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln != nil {
		return ln.Addr()
	}
	return nil
}

// Shutdown stops accepting new connections and waits for existing ones
// to finish, respecting the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.quit)
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln != nil {
		ln.Close()
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
