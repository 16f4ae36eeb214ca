package flow

import (
	"testing"
)

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0, "Rp0"},
		{500, "Rp500"},
		{1500, "Rp1.500"},
		{23500, "Rp23.500"},
		{1234567, "Rp1.234.567"},
		{1780000, "Rp1.780.000"},
		{999999999, "Rp999.999.999"},
	}

	for _, tt := range tests {
		if got := FormatRupiah(tt.value); got != tt.want {
			t.Errorf("FormatRupiah(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}
