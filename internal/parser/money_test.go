package parser

import "testing"

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"$150.52", 15052},
		{"$8", 800},
		{"", 0},
		{"$47.00", 4700},
		{"$2.5", 250},
		{"$1,234.56", 123456},
		{"1,000,000", 100000000},
		{"49.82", 4982},
		{"  $ 12.30 ", 1230},
		{"-$5.00", -500},
		{"$-5.25", -525},
		{"free", 0},
		{"$12.345", 0},
		{"$1,23.00", 0},
		{"$9999999999999999", 0},
	}
	for _, tt := range tests {
		if got := ToMinorUnits(tt.in); got != tt.want {
			t.Fatalf("ToMinorUnits(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestIsPriceLine(t *testing.T) {
	for _, line := range []string{"2", "12", "1,000", "4.5.6", "Nugget Tray"} {
		if isPriceLine(line) {
			t.Fatalf("%q should not be a price line", line)
		}
	}
	for _, line := range []string{"$40.00", "-$3", "40.00", "1,234.5", "-0.75"} {
		if !isPriceLine(line) {
			t.Fatalf("%q should be a price line", line)
		}
	}
}
