package core

import "testing"

// TestM31Arithmetic tests basic field operations
func TestM31Arithmetic(t *testing.T) {
	a := NewM31(P - 1)
	b := NewM31(2)

	if got := a.Add(b).Uint32(); got != 1 {
		t.Errorf("(P-1) + 2 = %d, want 1", got)
	}
	if got := b.Sub(a).Uint32(); got != 3 {
		t.Errorf("2 - (P-1) = %d, want 3", got)
	}
	if got := a.Neg().Uint32(); got != 1 {
		t.Errorf("-(P-1) = %d, want 1", got)
	}
	if got := Zero().Neg(); !got.IsZero() {
		t.Errorf("-0 = %s, want 0", got)
	}
	if got := a.Mul(a).Uint32(); got != 1 {
		t.Errorf("(P-1)^2 = %d, want 1", got)
	}
	if got := b.Exp(31).Uint32(); got != 1 {
		t.Errorf("2^31 = %d, want 1", got)
	}
}

// TestM31Reduction tests that inputs are reduced into [0, P)
func TestM31Reduction(t *testing.T) {
	tests := []struct {
		name string
		in   uint64
		want uint32
	}{
		{"zero", 0, 0},
		{"modulus", uint64(P), 0},
		{"modulus plus one", uint64(P) + 1, 1},
		{"max uint32", 0xffffffff, 1},
		{"max uint64", ^uint64(0), 3},
		{"two moduli", 2 * uint64(P), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReduceU64(tt.in).Uint32(); got != tt.want {
				t.Errorf("ReduceU64(%d) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}

	if got := NewM31(P).Uint32(); got != 0 {
		t.Errorf("NewM31(P) = %d, want 0", got)
	}
}

// TestM31Inverse tests inversion
func TestM31Inverse(t *testing.T) {
	for _, v := range []uint32{1, 2, 12345, P - 1} {
		a := NewM31(v)
		inv, err := a.Inverse()
		if err != nil {
			t.Fatalf("Inverse(%d) failed: %v", v, err)
		}
		if got := a.Mul(inv); got != One() {
			t.Errorf("%d * inverse = %s, want 1", v, got)
		}
	}

	if _, err := Zero().Inverse(); err == nil {
		t.Error("Expected error inverting zero")
	}
}

// TestM31Bytes tests the little-endian encoding
func TestM31Bytes(t *testing.T) {
	got := NewM31(0x01020304).Bytes()
	want := [4]byte{0x04, 0x03, 0x02, 0x01}
	if got != want {
		t.Errorf("Bytes() = %x, want %x", got, want)
	}
}
