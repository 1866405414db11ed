// Package proto defines the client/server wire protocol: a single
// newline-terminated JSON request, answered by a JSON response with no
// terminator — the connection's EOF is the response's terminator.
package proto

import (
	"bytes"
	"encoding/json"

	"github.com/jassi-singh/kvs/internal/kverrors"
)

// Op identifies the requested operation.
type Op string

const (
	OpGet    Op = "get"
	OpSet    Op = "set"
	OpRemove Op = "remove"
)

// Request is the single frame a client sends per connection.
type Request struct {
	Op    Op     `json:"op"`
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

func NewGet(key string) Request       { return Request{Op: OpGet, Key: key} }
func NewSet(key, value string) Request { return Request{Op: OpSet, Key: key, Value: value} }
func NewRemove(key string) Request    { return Request{Op: OpRemove, Key: key} }

// Status classifies a Response.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Response is the single frame a server sends per connection, unterminated;
// the client relies on EOF to know the frame is complete.
type Response struct {
	Status Status  `json:"status"`
	Value  *string `json:"value,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// OK builds a success response. value is nil for a Remove/Set acknowledgement
// or a Get that found nothing.
func OK(value *string) Response {
	return Response{Status: StatusOK, Value: value}
}

// Err builds an error response carrying msg.
func Err(msg string) Response {
	return Response{Status: StatusError, Error: msg}
}

// EncodeRequest serializes req as a single newline-terminated JSON line.
func EncodeRequest(req Request) ([]byte, error) {
	buf, err := json.Marshal(req)
	if err != nil {
		return nil, kverrors.Codec(err)
	}
	return append(buf, '\n'), nil
}

// DecodeRequest parses one newline-terminated request line.
func DecodeRequest(line []byte) (Request, error) {
	line = bytes.TrimRight(line, "\n")
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return Request{}, kverrors.Codec(err)
	}
	switch req.Op {
	case OpGet, OpSet, OpRemove:
	default:
		return Request{}, kverrors.Codec(errUnknownOp(req.Op))
	}
	return req, nil
}

// EncodeResponse serializes resp with no terminator — the caller closes the
// connection to signal completion.
func EncodeResponse(resp Response) ([]byte, error) {
	buf, err := json.Marshal(resp)
	if err != nil {
		return nil, kverrors.Codec(err)
	}
	return buf, nil
}

// DecodeResponse parses a full response buffer read up to EOF.
func DecodeResponse(data []byte) (Response, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return Response{}, kverrors.Codec(err)
	}
	return resp, nil
}
