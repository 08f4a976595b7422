package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvalPromo(t *testing.T) {
	tests := []struct {
		code     string
		success  bool
		discount float64
	}{
		{"WELCOME10", true, 100},
		{"welcome10", true, 100},
		{"Welcome10", true, 100},
		{"B2B20", true, 200},
		{"b2b20", true, 200},
		{"SUMMER50", false, 0},
		{"", false, 0},
		{" WELCOME10", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got := evalPromo(tt.code, 1000)
			assert.Equal(t, tt.success, got.Success)
			assert.InDelta(t, tt.discount, got.Discount, 1e-9)
			assert.NotEmpty(t, got.Message)
		})
	}
}

func TestEvalPromo_CaseInsensitiveIdentical(t *testing.T) {
	assert.Equal(t, evalPromo("WELCOME10", 640), evalPromo("welcome10", 640))
}
