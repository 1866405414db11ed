package proto

import "testing"

func TestRequestRoundTrip(t *testing.T) {
	want := NewSet("k", "v")
	line, err := EncodeRequest(want)
	if err != nil {
		t.Fatalf("EncodeRequest() error = %v", err)
	}
	got, err := DecodeRequest(line)
	if err != nil {
		t.Fatalf("DecodeRequest() error = %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, want)
	}
}

func TestDecodeRequestRejectsUnknownOp(t *testing.T) {
	_, err := DecodeRequest([]byte(`{"op":"bogus","key":"k"}`))
	if err == nil {
		t.Fatalf("expected error for unknown op")
	}
}

func TestResponseRoundTripFound(t *testing.T) {
	v := "value"
	want := OK(&v)
	buf, err := EncodeResponse(want)
	if err != nil {
		t.Fatalf("EncodeResponse() error = %v", err)
	}
	got, err := DecodeResponse(buf)
	if err != nil {
		t.Fatalf("DecodeResponse() error = %v", err)
	}
	if got.Status != StatusOK || got.Value == nil || *got.Value != v {
		t.Fatalf("unexpected response: %+v", got)
	}
}

func TestResponseRoundTripNotFound(t *testing.T) {
	want := OK(nil)
	buf, _ := EncodeResponse(want)
	got, err := DecodeResponse(buf)
	if err != nil {
		t.Fatalf("DecodeResponse() error = %v", err)
	}
	if got.Status != StatusOK || got.Value != nil {
		t.Fatalf("expected not-found OK response, got %+v", got)
	}
}

func TestErrResponse(t *testing.T) {
	want := Err("boom")
	buf, _ := EncodeResponse(want)
	got, err := DecodeResponse(buf)
	if err != nil {
		t.Fatalf("DecodeResponse() error = %v", err)
	}
	if got.Status != StatusError || got.Error != "boom" {
		t.Fatalf("unexpected response: %+v", got)
	}
}
