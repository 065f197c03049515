package qso

import (
	"errors"
	"testing"
)

type searchParams struct {
	Query string   `qs:"q"`
	Page  int      `qs:"page"`
	Tags  []string `qs:"tags"`
}

func TestCodecEncode(t *testing.T) {
	codec := New()

	data, err := codec.Encode(searchParams{Query: "go lang", Page: 2, Tags: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}

	expected := "q=go%20lang&page=2&tags=a&tags=b"
	if string(data) != expected {
		t.Errorf("Expected '%s', got '%s'", expected, string(data))
	}
}

func TestCodecDecode(t *testing.T) {
	codec := New()

	var result searchParams
	err := codec.Decode([]byte("q=go%20lang&page=2&tags=a&tags=b"), &result)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}

	if result.Query != "go lang" {
		t.Errorf("Expected query 'go lang', got '%s'", result.Query)
	}
	if result.Page != 2 {
		t.Errorf("Expected page 2, got %d", result.Page)
	}
	if len(result.Tags) != 2 || result.Tags[0] != "a" || result.Tags[1] != "b" {
		t.Errorf("Expected tags [a b], got %v", result.Tags)
	}
}

func TestCodecEncodeDecodeRoundTrip(t *testing.T) {
	codec := New()

	original := searchParams{Query: "roundtrip", Page: 7, Tags: []string{"x", "y"}}
	encoded, err := codec.Encode(original)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}

	var decoded searchParams
	if err := codec.Decode(encoded, &decoded); err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}

	if decoded.Query != original.Query || decoded.Page != original.Page {
		t.Errorf("Expected %+v, got %+v", original, decoded)
	}
}

func TestCodecPrefix(t *testing.T) {
	codec := &Codec{Prefix: "filter"}

	data, err := codec.Encode(map[string]string{"status": "open"})
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	if string(data) != "filter.status=open" {
		t.Errorf("Expected 'filter.status=open', got '%s'", string(data))
	}

	var result map[string]any
	if err := codec.Decode([]byte("filter.status=open&page=2"), &result); err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if len(result) != 1 || result["status"] != "open" {
		t.Errorf("Expected map[status:open], got %v", result)
	}
}

func TestCodecStrict(t *testing.T) {
	_, err := (&Codec{Strict: true}).Encode(map[string]any{"c": make(chan int)})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("Expected ErrUnsupportedType, got %v", err)
	}

	data, err := New().Encode(map[string]any{"c": make(chan int), "d": "1"})
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	if string(data) != "d=1" {
		t.Errorf("Expected 'd=1', got '%s'", string(data))
	}
}

func TestCodecDecodeInvalid(t *testing.T) {
	var result searchParams
	err := New().Decode([]byte("a&b=1"), &result)
	if !errors.Is(err, ErrInvalidQueryString) {
		t.Errorf("Expected ErrInvalidQueryString, got %v", err)
	}
}

func TestTranscode(t *testing.T) {
	out, err := Transcode([]byte("b=2&a=1"), New(), New())
	if err != nil {
		t.Fatalf("Transcode() failed: %v", err)
	}
	if string(out) != "a=1&b=2" {
		t.Errorf("Expected 'a=1&b=2', got '%s'", string(out))
	}

	out, err = Transcode([]byte("x.y=1"), New(), &Codec{Prefix: "p"})
	if err != nil {
		t.Fatalf("Transcode() failed: %v", err)
	}
	if string(out) != "p.x.y=1" {
		t.Errorf("Expected 'p.x.y=1', got '%s'", string(out))
	}
}

func TestTranscodeInvalid(t *testing.T) {
	_, err := Transcode([]byte("a=1=2"), New(), New())
	if !errors.Is(err, ErrInvalidQueryString) {
		t.Errorf("Expected ErrInvalidQueryString, got %v", err)
	}
}
