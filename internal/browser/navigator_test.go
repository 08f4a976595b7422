package browser

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestNavigatorURL(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"http://localhost:3000", "/checkout", "http://localhost:3000/checkout"},
		{"http://localhost:3000/", "/checkout", "http://localhost:3000/checkout"},
		{"https://shop.example", "checkout", "https://shop.example/checkout"},
	}
	for _, tt := range tests {
		n := &Navigator{BaseURL: tt.base}
		if got := n.URL(tt.path); got != tt.want {
			t.Errorf("URL(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}

func TestNavigate_OpensURL(t *testing.T) {
	var opened string
	n := &Navigator{
		BaseURL: "https://shop.example",
		Open:    func(u string) error { opened = u; return nil },
	}

	if err := n.Navigate("/checkout"); err != nil {
		t.Fatalf("Navigate() error: %v", err)
	}
	if opened != "https://shop.example/checkout" {
		t.Errorf("opened = %q, want checkout URL", opened)
	}
}

func TestNavigate_FallbackPrintsURL(t *testing.T) {
	var buf bytes.Buffer
	n := &Navigator{
		BaseURL:  "https://shop.example",
		Open:     func(string) error { return errors.New("no display") },
		Fallback: &buf,
	}

	if err := n.Navigate("/checkout"); err != nil {
		t.Fatalf("Navigate() error: %v", err)
	}
	if !strings.Contains(buf.String(), "https://shop.example/checkout") {
		t.Errorf("fallback output = %q, want URL", buf.String())
	}
}

func TestNavigate_NoFallbackReturnsError(t *testing.T) {
	n := &Navigator{
		BaseURL: "https://shop.example",
		Open:    func(string) error { return errors.New("no display") },
	}

	if err := n.Navigate("/checkout"); err == nil {
		t.Fatal("expected error without fallback")
	}
}
