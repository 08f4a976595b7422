package tui

import (
	"strings"
	"testing"
)

func TestEditRune(t *testing.T) {
	tests := []struct {
		name  string
		start string
		key   string
		want  string
	}{
		{"append to empty", "", "W", "W"},
		{"append letter", "WELCOME1", "0", "WELCOME10"},
		{"append space", "oak", " ", "oak "},
		{"backspace", "B2B20", "backspace", "B2B2"},
		{"backspace on empty", "", "backspace", ""},
		{"backspace multibyte", "château", "backspace", "châtea"},
		{"backspace trailing accent", "rosé", "backspace", "ros"},
		{"multi-rune key ignored", "", "Margaux", ""},
		{"enter ignored", "oak", "enter", "oak"},
		{"esc ignored", "oak", "esc", "oak"},
		{"ctrl combo ignored", "oak", "ctrl+c", "oak"},
		{"arrow ignored", "oak", "left", "oak"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := editRune(tc.start, tc.key); got != tc.want {
				t.Errorf("editRune(%q, %q) = %q, want %q", tc.start, tc.key, got, tc.want)
			}
		})
	}
}

func TestEditRuneMaxInputLen(t *testing.T) {
	atLimit := strings.Repeat("a", maxInputLen)
	belowLimit := strings.Repeat("a", maxInputLen-1)

	if got := editRune(atLimit, "b"); got != atLimit {
		t.Errorf("at limit: accepted a new rune (len %d)", len([]rune(got)))
	}
	if got := editRune(belowLimit, "b"); got != belowLimit+"b" {
		t.Errorf("below limit: rejected a new rune")
	}
	if got := editRune(atLimit, "backspace"); got != atLimit[:len(atLimit)-1] {
		t.Errorf("at limit: backspace did not remove a rune")
	}
}

func TestTruncateToHeight(t *testing.T) {
	input := "line1\nline2\nline3\nline4\nline5\n"

	result := truncateToHeight(input, 3)
	if n := strings.Count(result, "\n"); n > 3 {
		t.Errorf("truncateToHeight(5 lines, 3) produced %d newlines, want <= 3", n)
	}
	if !strings.Contains(result, "line3") || strings.Contains(result, "line4") {
		t.Errorf("truncateToHeight(5 lines, 3) = %q", result)
	}

	for _, maxLines := range []int{0, -1, 10} {
		if got := truncateToHeight(input, maxLines); got != input {
			t.Errorf("truncateToHeight(input, %d) = %q, want input unchanged", maxLines, got)
		}
	}
}

func TestRenderInput(t *testing.T) {
	focused := renderInput("promo", "WELC", "WELCOME10", true)
	if !strings.Contains(focused, "WELC█") {
		t.Errorf("focused input missing cursor: %q", focused)
	}

	empty := renderInput("promo", "", "WELCOME10", false)
	if !strings.Contains(empty, "WELCOME10") {
		t.Errorf("empty input should show placeholder: %q", empty)
	}

	filled := renderInput("promo", "B2B20", "WELCOME10", false)
	if !strings.Contains(filled, "B2B20") || strings.Contains(filled, "█") {
		t.Errorf("unfocused input = %q", filled)
	}
}
