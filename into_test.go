package qso

import (
	"reflect"
	"regexp"
	"testing"
	"time"
)

type intoTarget struct {
	At      time.Time      `qs:"at"`
	Timeout time.Duration  `qs:"timeout"`
	Pattern *regexp.Regexp `qs:"pattern"`
	Tags    []string       `qs:"tags"`
	Limit   int            `qs:"limit"`
	Verbose bool           `qs:"verbose"`
	Nested  struct {
		Name string `qs:"name"`
	} `qs:"nested"`
}

func TestInto(t *testing.T) {
	v, err := Decode("at=2024-01-02T03:04:05.006Z&timeout=1m30s&pattern=%5Ea%2B%24&tags=only&limit=10&verbose=true&nested.name=ann")
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}

	var result intoTarget
	if err := v.Into(&result); err != nil {
		t.Fatalf("Into() failed: %v", err)
	}

	expectedAt := time.Date(2024, 1, 2, 3, 4, 5, 6e6, time.UTC)
	if !result.At.Equal(expectedAt) {
		t.Errorf("Expected time %v, got %v", expectedAt, result.At)
	}
	if result.Timeout != 90*time.Second {
		t.Errorf("Expected timeout 1m30s, got %v", result.Timeout)
	}
	if result.Pattern == nil || result.Pattern.String() != "^a+$" {
		t.Errorf("Expected pattern '^a+$', got %v", result.Pattern)
	}
	if len(result.Tags) != 1 || result.Tags[0] != "only" {
		t.Errorf("Expected tags [only], got %v", result.Tags)
	}
	if result.Limit != 10 {
		t.Errorf("Expected limit 10, got %d", result.Limit)
	}
	if !result.Verbose {
		t.Error("Expected verbose to be true")
	}
	if result.Nested.Name != "ann" {
		t.Errorf("Expected nested name 'ann', got '%s'", result.Nested.Name)
	}
}

func TestIntoInvalidScalar(t *testing.T) {
	var result intoTarget
	if err := Mapping(Entry{"limit", Scalar("many")}).Into(&result); err == nil {
		t.Error("Expected error for non-numeric limit")
	}
	if err := Mapping(Entry{"pattern", Scalar("(")}).Into(&result); err == nil {
		t.Error("Expected error for invalid pattern")
	}
}

func TestIntoValue(t *testing.T) {
	v := Mapping(Entry{"a", Strings("1", "2")})

	var copied Value
	if err := v.Into(&copied); err != nil {
		t.Fatalf("Into(*Value) failed: %v", err)
	}
	if !copied.Equal(v) {
		t.Errorf("Expected %s, got %s", v, &copied)
	}

	var target *Value
	if err := v.Into(&target); err != nil {
		t.Fatalf("Into(**Value) failed: %v", err)
	}
	if target == v || !target.Equal(v) {
		t.Errorf("Expected an equal copy, got %s", target)
	}

	target.Get("a").Append(Scalar("3"))
	if v.Get("a").Len() != 2 {
		t.Error("Expected the original to be unchanged")
	}
}

func TestIntoNilTarget(t *testing.T) {
	v := Scalar("x")

	if err := v.Into((*Value)(nil)); err == nil {
		t.Error("Expected error for nil *Value target")
	}
	if err := v.Into((**Value)(nil)); err == nil {
		t.Error("Expected error for nil **Value target")
	}
}

func TestIntoAny(t *testing.T) {
	var result any
	if err := Strings("a", "b").Into(&result); err != nil {
		t.Fatalf("Into(*any) failed: %v", err)
	}

	expected := []any{"a", "b"}
	if !reflect.DeepEqual(result, expected) {
		t.Errorf("Expected %v, got %v", expected, result)
	}
}

func TestIntoAbsent(t *testing.T) {
	var v *Value

	result := intoTarget{Limit: 3}
	if err := v.Into(&result); err != nil {
		t.Fatalf("Into() failed: %v", err)
	}
	if result.Limit != 3 {
		t.Errorf("Expected limit to stay 3, got %d", result.Limit)
	}

	copied := *Scalar("x")
	if err := v.Into(&copied); err != nil {
		t.Fatalf("Into(*Value) failed: %v", err)
	}
	if !copied.IsAbsent() {
		t.Errorf("Expected absent value, got %s", &copied)
	}
}
