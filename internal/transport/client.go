// Package transport implements the client side of the wire protocol: dial,
// send one request frame, read the response up to EOF.
package transport

import (
	"bufio"
	"io"
	"net"

	"github.com/jassi-singh/kvs/internal/kverrors"
	"github.com/jassi-singh/kvs/internal/proto"
)

// Send dials addr, writes req as a single newline-terminated frame, and
// reads the response up to EOF. TCP_NODELAY is set on the client socket to
// minimize request latency for this one-shot request/response exchange.
func Send(addr string, req proto.Request) (proto.Response, error) {
	raddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return proto.Response{}, kverrors.InvalidAddress(addr, err)
	}

	conn, err := net.DialTCP("tcp", nil, raddr)
	if err != nil {
		return proto.Response{}, kverrors.IO(err)
	}
	defer conn.Close()

	if err := conn.SetNoDelay(true); err != nil {
		return proto.Response{}, kverrors.IO(err)
	}

	frame, err := proto.EncodeRequest(req)
	if err != nil {
		return proto.Response{}, err
	}
	if _, err := conn.Write(frame); err != nil {
		return proto.Response{}, kverrors.IO(err)
	}
	if err := conn.CloseWrite(); err != nil {
		return proto.Response{}, kverrors.IO(err)
	}

	body, err := io.ReadAll(bufio.NewReader(conn))
	if err != nil {
		return proto.Response{}, kverrors.IO(err)
	}
	if len(body) == 0 {
		// Set succeeds silently: no frame, just EOF.
		return proto.OK(nil), nil
	}
	return proto.DecodeResponse(body)
}
