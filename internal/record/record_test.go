package record

import (
	"strings"
	"testing"

	"github.com/jassi-singh/kvs/internal/kverrors"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []Record{
		NewSet("alpha", "1"),
		NewSet("weird", "line1\nline2\t\"quoted\""),
		NewRemove("alpha"),
	}
	for _, want := range cases {
		encoded, err := want.Encode()
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		if !strings.HasSuffix(string(encoded), "\n") {
			t.Fatalf("Encode() missing trailing newline: %q", encoded)
		}
		if strings.Count(string(encoded), "\n") != 1 {
			t.Fatalf("Encode() must produce exactly one literal newline, got %q", encoded)
		}
		got, err := Decode(encoded)
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if got != want {
			t.Fatalf("round trip mismatch: got %+v want %+v", got, want)
		}
	}
}

func TestDecodeRejectsEmptyLine(t *testing.T) {
	_, err := Decode([]byte("\n"))
	if err == nil || !kverrors.IsCodec(err) {
		t.Fatalf("expected codec error for empty line, got %v", err)
	}
}

func TestDecodeRejectsUnknownOp(t *testing.T) {
	_, err := Decode([]byte(`{"op":"bogus","key":"k"}`))
	if err == nil || !kverrors.IsCodec(err) {
		t.Fatalf("expected codec error for unknown op, got %v", err)
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, err := Decode([]byte(`{not json`))
	if err == nil || !kverrors.IsCodec(err) {
		t.Fatalf("expected codec error for malformed json, got %v", err)
	}
}
