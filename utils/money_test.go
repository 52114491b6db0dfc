package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		base, pct, want string
	}{
		{"300", "10", "30"},
		{"270", "9", "24.3"},
		{"100", "0", "0"},
		{"0", "18", "0"},
		{"99.99", "12.5", "12.49875"}, // full precision, no rounding
	}
	for _, tt := range tests {
		got := Percent(decimal.RequireFromString(tt.base), decimal.RequireFromString(tt.pct))
		require.True(t, got.Equal(decimal.RequireFromString(tt.want)),
			"Percent(%s, %s) = %s, want %s", tt.base, tt.pct, got, tt.want)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"24.296", "24.3"},
		{"24.295", "24.3"},
		{"24.294", "24.29"},
		{"318.6", "318.6"},
		{"-1.005", "-1.01"},
	}
	for _, tt := range tests {
		got := Round2(decimal.RequireFromString(tt.in))
		require.True(t, got.Equal(decimal.RequireFromString(tt.want)),
			"Round2(%s) = %s, want %s", tt.in, got, tt.want)
	}
}
