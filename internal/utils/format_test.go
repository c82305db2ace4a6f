package utils

import (
	"math"
	"testing"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{name: "integral", in: 1234, want: "1234"},
		{name: "negative integral", in: -1234, want: "-1234"},
		{name: "fraction", in: 15.7, want: "15.7"},
		{name: "small negative", in: -0.1, want: "-0.1"},
		{name: "zero", in: 0, want: "0"},
		{name: "negative zero", in: math.Copysign(0, -1), want: "-0"},
		{name: "boundary", in: 80.0001, want: "80.0001"},
		{name: "large without exponent", in: 1e21, want: "1000000000000000000000"},
		{name: "tiny without exponent", in: 1e-7, want: "0.0000001"},
		{name: "positive infinity", in: math.Inf(1), want: "inf"},
		{name: "negative infinity", in: math.Inf(-1), want: "-inf"},
		{name: "nan", in: math.NaN(), want: "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatFloat(tt.in); got != tt.want {
				t.Errorf("FormatFloat(%v) = %q; want %q", tt.in, got, tt.want)
			}
		})
	}
}
