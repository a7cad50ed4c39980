package utils

import (
	"reflect"
	"testing"
)

func TestTruncate(t *testing.T) {
	if Truncate("hello", 10) != "hello" {
		t.Error("short string unchanged")
	}
	if Truncate("hello world", 5) != "hello..." {
		t.Errorf("got %s", Truncate("hello world", 5))
	}
	if Truncate("x", 0) != "x" {
		t.Error("maxLen 0 returns as-is")
	}
	if got := Truncate("ééééé", 2); got != "éé..." {
		t.Errorf("rune truncation: got %q", got)
	}
}

func TestCapitalize(t *testing.T) {
	tests := map[string]string{
		"":        "",
		"mobile":  "Mobile",
		"Already": "Already",
		"élan":    "Élan",
	}
	for in, want := range tests {
		if got := Capitalize(in); got != want {
			t.Errorf("Capitalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAppendUnique(t *testing.T) {
	got := AppendUnique([]string{"a", "b"}, "b", "c", "c", "a", "d")
	want := []string{"a", "b", "c", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCap(t *testing.T) {
	if len(Cap([]string{"a", "b", "c"}, 2)) != 2 {
		t.Error("expected cap to 2")
	}
	if len(Cap([]string{"a"}, 5)) != 1 {
		t.Error("short slice unchanged")
	}
	if !ContainsAny("user research", "customer", "user") {
		t.Error("ContainsAny should match")
	}
}
