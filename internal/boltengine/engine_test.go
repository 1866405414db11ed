package boltengine

import (
	"testing"

	"github.com/jassi-singh/kvs/internal/kverrors"
)

func openTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

func TestSetGetRemove(t *testing.T) {
	e := openTestEngine(t)

	if err := e.Set("a", "1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	value, found, err := e.Get("a")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found || value != "1" {
		t.Fatalf("Get() = (%q, %v), want (\"1\", true)", value, found)
	}

	if err := e.Remove("a"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	_, found, err = e.Get("a")
	if err != nil {
		t.Fatalf("Get() after remove error = %v", err)
	}
	if found {
		t.Fatalf("expected key to be gone after Remove")
	}
}

func TestRemoveMissingKeyReturnsKeyNotFound(t *testing.T) {
	e := openTestEngine(t)

	err := e.Remove("missing")
	if !kverrors.IsKeyNotFound(err) {
		t.Fatalf("Remove() error = %v, want key-not-found", err)
	}
}

func TestOverwriteKeepsLatestValue(t *testing.T) {
	e := openTestEngine(t)

	if err := e.Set("k", "v1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := e.Set("k", "v2"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	value, found, err := e.Get("k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found || value != "v2" {
		t.Fatalf("Get() = (%q, %v), want (\"v2\", true)", value, found)
	}
}

func TestReopenPreservesData(t *testing.T) {
	dir := t.TempDir()

	e, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := e.Set("persist", "yes"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	e2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer e2.Close()
	value, found, err := e2.Get("persist")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found || value != "yes" {
		t.Fatalf("Get() = (%q, %v), want (\"yes\", true)", value, found)
	}
}
