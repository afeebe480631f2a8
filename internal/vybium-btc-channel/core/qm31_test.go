package core

import (
	"bytes"
	"testing"
)

// TestQM31Bytes tests that serialization puts c3 first and c0 last
func TestQM31Bytes(t *testing.T) {
	x := FromM31(1, 2, 3, 0x7ffffffe)
	got := x.Bytes()
	want := []byte{
		0xfe, 0xff, 0xff, 0x7f,
		0x03, 0x00, 0x00, 0x00,
		0x02, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00,
	}
	if !bytes.Equal(got[:], want) {
		t.Errorf("Bytes() = %x, want %x", got, want)
	}
}

// TestQM31Order tests the construction and push orders
func TestQM31Order(t *testing.T) {
	x := FromM31(10, 11, 12, 13)
	if x.A.A != 10 || x.A.B != 11 || x.B.A != 12 || x.B.B != 13 {
		t.Errorf("Unexpected layout %+v", x)
	}
	if got := x.Coordinates(); got != [4]M31{10, 11, 12, 13} {
		t.Errorf("Coordinates() = %v", got)
	}
	if got := x.PushOrder(); got != [4]M31{13, 12, 11, 10} {
		t.Errorf("PushOrder() = %v", got)
	}
	if !x.Equal(FromM31(10, 11, 12, 13)) || x.Equal(FromM31(13, 12, 11, 10)) {
		t.Error("Equal is not coordinate-wise")
	}
	if x.String() != "(10 + 11i) + (12 + 13i)u" {
		t.Errorf("String() = %q", x.String())
	}
}
