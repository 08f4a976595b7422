package tui

import (
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"
)

// formatPrice renders an amount in euros with two decimals.
func formatPrice(v float64) string {
	return fmt.Sprintf("%.2f €", v)
}

// formatVolume renders a volume in liters without trailing zeros.
func formatVolume(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " L"
}

// formatRemaining renders the time left until t, relative to now.
func formatRemaining(t, now time.Time) string {
	d := t.Sub(now)
	switch {
	case d <= 0:
		return "expired"
	case d < time.Minute:
		return "expires in <1m"
	case d < time.Hour:
		return fmt.Sprintf("expires in %dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("expires in %dh", int(d.Hours()))
	default:
		return fmt.Sprintf("expires in %dd", int(d.Hours()/24))
	}
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}
