package env

import "testing"

func TestGetFallsBackWhenUnset(t *testing.T) {
	t.Setenv("MARKETPLACE_TEST_VALUE", "")
	if got := Get("MARKETPLACE_TEST_VALUE", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	t.Setenv("MARKETPLACE_TEST_VALUE", "set")
	if got := Get("MARKETPLACE_TEST_VALUE", "fallback"); got != "set" {
		t.Fatalf("expected set, got %q", got)
	}
}

func TestBool(t *testing.T) {
	t.Setenv("MARKETPLACE_TEST_BOOL", "true")
	if !Bool("MARKETPLACE_TEST_BOOL", false) {
		t.Fatal("expected true")
	}
	t.Setenv("MARKETPLACE_TEST_BOOL", "nope")
	if Bool("MARKETPLACE_TEST_BOOL", false) {
		t.Fatal("malformed value should use fallback")
	}
}
