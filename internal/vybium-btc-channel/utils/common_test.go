package utils

import "testing"

// TestIsPowerOfTwo tests the IsPowerOfTwo function
func TestIsPowerOfTwo(t *testing.T) {
	tests := []struct {
		n        int
		expected bool
	}{
		{0, false},
		{1, true},
		{2, true},
		{3, false},
		{1024, true},
		{1023, false},
		{-4, false},
	}

	for _, tt := range tests {
		if got := IsPowerOfTwo(tt.n); got != tt.expected {
			t.Errorf("IsPowerOfTwo(%d) = %v, want %v", tt.n, got, tt.expected)
		}
	}
}

// TestLog2 tests the Log2 function
func TestLog2(t *testing.T) {
	tests := []struct {
		n        int
		expected int
	}{
		{1, 0},
		{2, 1},
		{32768, 15},
		{1 << 30, 30},
		{3, -1},
		{0, -1},
	}

	for _, tt := range tests {
		if got := Log2(tt.n); got != tt.expected {
			t.Errorf("Log2(%d) = %d, want %d", tt.n, got, tt.expected)
		}
	}
}
