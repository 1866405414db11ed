package server

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/jassi-singh/kvs/internal/engine"
	"github.com/jassi-singh/kvs/internal/proto"
	"github.com/jassi-singh/kvs/internal/transport"
)

func startTestServer(t *testing.T) string {
	t.Helper()
	eng, err := engine.Open(t.TempDir(), engine.Config{
		CompactionThreshold: engine.DefaultCompactionThreshold,
		CompactionInterval:  time.Hour,
	})
	if err != nil {
		t.Fatalf("engine.Open() error = %v", err)
	}
	srv := New(eng, 4)
	if err := srv.Listen("127.0.0.1:0"); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	go srv.Serve()
	t.Cleanup(func() {
		srv.Close()
		eng.Close()
	})
	return srv.Addr().String()
}

func TestSetGetRemoveOverTCP(t *testing.T) {
	addr := startTestServer(t)

	resp, err := transport.Send(addr, proto.NewSet("x", "y"))
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if resp.Status != proto.StatusOK {
		t.Fatalf("set: unexpected response %+v", resp)
	}

	resp, err = transport.Send(addr, proto.NewGet("x"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.Status != proto.StatusOK || resp.Value == nil || *resp.Value != "y" {
		t.Fatalf("get: unexpected response %+v", resp)
	}

	resp, err = transport.Send(addr, proto.NewRemove("x"))
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if resp.Status != proto.StatusOK {
		t.Fatalf("remove: unexpected response %+v", resp)
	}

	resp, err = transport.Send(addr, proto.NewGet("x"))
	if err != nil {
		t.Fatalf("get after remove: %v", err)
	}
	if resp.Status != proto.StatusOK || resp.Value != nil {
		t.Fatalf("get after remove: unexpected response %+v", resp)
	}
}

func TestRemoveMissingKeyReturnsWireError(t *testing.T) {
	addr := startTestServer(t)

	resp, err := transport.Send(addr, proto.NewRemove("missing"))
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if resp.Status != proto.StatusError || resp.Error != "Key not found" {
		t.Fatalf("expected Key not found error, got %+v", resp)
	}
}

func TestMalformedRequestGetsErrorResponse(t *testing.T) {
	addr := startTestServer(t)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("{\"op\":\"bogus\"}\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	body, err := io.ReadAll(conn)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	resp, err := proto.DecodeResponse(body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != proto.StatusError {
		t.Fatalf("expected error response, got %+v", resp)
	}
}

func TestUnterminatedRequestDropsConnection(t *testing.T) {
	addr := startTestServer(t)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// No trailing newline: the server treats the truncated line as EOF and
	// drops the connection without writing a response.
	if _, err := conn.Write([]byte("{\"op\":\"get\",\"key\":\"x\"}")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		tcp.CloseWrite()
	}
	body, err := io.ReadAll(conn)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(body) != 0 {
		t.Fatalf("expected no response bytes, got %q", body)
	}
}

func TestConcurrentClients(t *testing.T) {
	addr := startTestServer(t)

	const clients = 8
	done := make(chan error, clients)
	for i := 0; i < clients; i++ {
		go func(id int) {
			key := string(rune('a' + id))
			value := key + "-value"
			if _, err := transport.Send(addr, proto.NewSet(key, value)); err != nil {
				done <- err
				return
			}
			resp, err := transport.Send(addr, proto.NewGet(key))
			if err != nil {
				done <- err
				return
			}
			if resp.Value == nil || *resp.Value != value {
				done <- io.ErrUnexpectedEOF
				return
			}
			done <- nil
		}(i)
	}
	for i := 0; i < clients; i++ {
		if err := <-done; err != nil {
			t.Fatalf("client %d failed: %v", i, err)
		}
	}
}
