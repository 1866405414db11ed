// Package server implements the TCP front end: a single accept loop hands
// each connection to a worker pool, which decodes one request, dispatches
// it to a shared engine handle, and writes one response.
package server

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"net"

	"github.com/jassi-singh/kvs/internal/engine"
	"github.com/jassi-singh/kvs/internal/kverrors"
	"github.com/jassi-singh/kvs/internal/pool"
	"github.com/jassi-singh/kvs/internal/proto"
)

// Server binds a listener and dispatches accepted connections to a fixed
// worker pool, each job operating against a shared engine handle.
type Server struct {
	engine   engine.Engine
	pool     *pool.Pool
	listener net.Listener
}

// New constructs a Server over eng, running poolSize workers.
func New(eng engine.Engine, poolSize int) *Server {
	return &Server{engine: eng, pool: pool.New(poolSize)}
}

// ListenAndServe binds addr and runs the accept loop until Close is called.
func (s *Server) ListenAndServe(addr string) error {
	if err := s.Listen(addr); err != nil {
		return err
	}
	return s.Serve()
}

// Listen binds addr without starting the accept loop.
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return kverrors.InvalidAddress(addr, err)
	}
	s.listener = ln
	slog.Info("server: listening", "addr", ln.Addr())
	return nil
}

// Addr returns the bound listener address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve runs the accept loop on the bound listener. A failed Accept is
// logged and the loop continues; Serve returns only once the listener
// itself has been closed.
func (s *Server) Serve() error {
	ln := s.listener
	for {
		conn, err := ln.Accept()
		if err != nil {
			if isClosedErr(err) {
				return nil
			}
			slog.Error("server: accept failed, continuing", "error", err)
			continue
		}
		s.pool.Submit(func() { s.handleConn(conn) })
	}
}

// Close stops accepting new connections and shuts down the worker pool.
// Already-enqueued jobs may be discarded per the pool's shutdown contract.
func (s *Server) Close() error {
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	s.pool.Shutdown()
	return err
}

func isClosedErr(err error) bool {
	return errors.Is(err, net.ErrClosed)
}

// handleConn reads exactly one request frame, dispatches it, writes at most
// one response (none for a successful Set or Remove), and closes the
// connection.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	line, err := reader.ReadBytes('\n')
	if err != nil {
		// An unterminated request line is treated as EOF and the connection
		// is dropped without a response, since no request was identified.
		if err != io.EOF {
			slog.Error("server: failed reading request", "error", err)
		}
		return
	}

	req, err := proto.DecodeRequest(line)
	if err != nil {
		slog.Error("server: request decode failed", "error", err)
		s.writeResponse(conn, proto.Err(err.Error()))
		return
	}

	switch req.Op {
	case proto.OpSet:
		if err := s.engine.Set(req.Key, req.Value); err != nil {
			slog.Error("server: set failed", "key", req.Key, "error", err)
			s.writeResponse(conn, proto.Err(err.Error()))
			return
		}
		// Set succeeds silently: no response body, just close.

	case proto.OpGet:
		value, found, err := s.engine.Get(req.Key)
		if err != nil {
			slog.Error("server: get failed", "key", req.Key, "error", err)
			s.writeResponse(conn, proto.Err(err.Error()))
			return
		}
		if !found {
			s.writeResponse(conn, proto.OK(nil))
			return
		}
		s.writeResponse(conn, proto.OK(&value))

	case proto.OpRemove:
		if err := s.engine.Remove(req.Key); err != nil {
			if kverrors.IsKeyNotFound(err) {
				s.writeResponse(conn, proto.Err("Key not found"))
				return
			}
			slog.Error("server: remove failed", "key", req.Key, "error", err)
			s.writeResponse(conn, proto.Err(err.Error()))
			return
		}
		// Remove succeeds silently, matching Set's convention.
	}
}

func (s *Server) writeResponse(conn net.Conn, resp proto.Response) {
	buf, err := proto.EncodeResponse(resp)
	if err != nil {
		slog.Error("server: failed to encode response", "error", err)
		return
	}
	if _, err := conn.Write(buf); err != nil {
		slog.Error("server: failed to write response", "error", err)
	}
}
