// Package tcpserver accepts TCP connections, reads the first request line of
// each and answers it with a single response before closing.
package tcpserver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"dewpoint-server/internal/response"
)

// ErrServerClosed is returned by Serve and ListenAndServe after Shutdown.
var ErrServerClosed = errors.New("tcpserver: server closed")

var errInvalidLine = errors.New("request line is not valid UTF-8")

type Handler interface {
	Handle(ctx context.Context, line string) response.Response
}

type HandlerFunc func(ctx context.Context, line string) response.Response

func (f HandlerFunc) Handle(ctx context.Context, line string) response.Response {
	return f(ctx, line)
}

// Server handles one connection at a time on the accepting goroutine. A
// client that never completes its first line holds the server until
// ReadTimeout elapses; a zero ReadTimeout waits forever.
type Server struct {
	Addr        string
	Handler     Handler
	ReadTimeout time.Duration
	Logger      *slog.Logger

	mu       sync.Mutex
	listener net.Listener
	active   net.Conn
	closed   bool
	ctx      context.Context
	cancel   context.CancelFunc
}

func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.Addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown is called. Accept errors
// are logged and the loop continues.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = ln.Close()
		return ErrServerClosed
	}
	s.listener = ln
	s.ensureContextLocked()
	ctx := s.ctx
	s.mu.Unlock()

	var backoff time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isClosed() {
				return ErrServerClosed
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			if backoff == 0 {
				backoff = 5 * time.Millisecond
			} else {
				backoff *= 2
			}
			if backoff > time.Second {
				backoff = time.Second
			}
			s.logger().Error("could not accept connection", "error", err, "retry_in", backoff)
			time.Sleep(backoff)
			continue
		}
		backoff = 0
		if s.isClosed() {
			_ = conn.Close()
			return ErrServerClosed
		}
		s.serveConn(ctx, conn)
	}
}

// Shutdown stops accepting connections and waits for the connection in
// progress to finish. When ctx ends first the connection is closed and
// ctx.Err() is returned.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	s.mu.Unlock()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		if !s.busy() {
			return err
		}
		select {
		case <-ctx.Done():
			s.mu.Lock()
			if s.cancel != nil {
				s.cancel()
			}
			if s.active != nil {
				_ = s.active.Close()
			}
			s.mu.Unlock()
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	start := time.Now()
	remote := conn.RemoteAddr().String()
	s.setActive(conn)
	defer s.setActive(nil)
	defer func() {
		if err := conn.Close(); err != nil {
			s.logger().Debug("close connection", "remote", remote, "error", err)
		}
	}()

	if s.ReadTimeout > 0 {
		if err := conn.SetReadDeadline(start.Add(s.ReadTimeout)); err != nil {
			s.logger().Warn("set read deadline failed", "remote", remote, "error", err)
		}
	}

	line, err := readRequestLine(conn)
	if err != nil {
		s.logger().Warn("read request line failed", "remote", remote, "error", err)
		return
	}

	resp := s.Handler.Handle(ctx, line)
	if err := response.Write(conn, resp); err != nil {
		s.logger().Warn("write response failed", "remote", remote, "error", err)
		return
	}

	s.logger().Info("tcp request",
		"remote", remote,
		"line", line,
		"status", resp.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// readRequestLine returns the first line of r without its line ending. A
// final line terminated by EOF instead of a newline is accepted.
func readRequestLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	if !utf8.ValidString(line) {
		return "", errInvalidLine
	}
	return line, nil
}

func (s *Server) ensureContextLocked() {
	if s.ctx == nil {
		s.ctx, s.cancel = context.WithCancel(context.Background())
	}
}

func (s *Server) setActive(c net.Conn) {
	s.mu.Lock()
	s.active = c
	s.mu.Unlock()
}

func (s *Server) busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != nil
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
