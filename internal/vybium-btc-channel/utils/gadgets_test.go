package utils

import (
	"fmt"
	"testing"

	"github.com/btcsuite/btcd/txscript"

	"github.com/vybium/vybium-btc-channel/internal/vybium-btc-channel/core"
	"github.com/vybium/vybium-btc-channel/internal/vybium-btc-channel/script"
)

// TestTrimM31 tests the host-side bit trimming
func TestTrimM31(t *testing.T) {
	tests := []struct {
		v    uint32
		bits int
		want uint32
	}{
		{0x7ffffffe, 15, 0x7ffe},
		{0x7ffffffe, 31, 0x7ffffffe},
		{0x12345678, 1, 0},
		{0x12345679, 1, 1},
		{0xffffffff, 32, 0xffffffff},
	}
	for _, tt := range tests {
		if got := TrimM31(tt.v, tt.bits); got != tt.want {
			t.Errorf("TrimM31(%x, %d) = %x, want %x", tt.v, tt.bits, got, tt.want)
		}
	}
}

// TestTrimM31Gadget tests that the script agrees with TrimM31
func TestTrimM31Gadget(t *testing.T) {
	prng := NewPRNG(1)
	for _, bits := range []int{1, 8, 15, 16, 30, 31} {
		t.Run(fmt.Sprintf("bits=%d", bits), func(t *testing.T) {
			gadget, err := TrimM31Gadget(bits)
			if err != nil {
				t.Fatalf("TrimM31Gadget failed: %v", err)
			}

			values := []uint32{0, 1, core.P - 1, 1 << 30, (1 << 30) - 1}
			for i := 0; i < 50; i++ {
				values = append(values, prng.M31().Uint32())
			}
			for _, v := range values {
				s := script.Concat(
					script.NewBuilder().AddInt64(int64(v)).MustScript(),
					gadget,
					script.NewBuilder().AddInt64(int64(TrimM31(v, bits))).
						AddOp(txscript.OP_EQUALVERIFY, txscript.OP_DEPTH, txscript.OP_NOT).MustScript(),
				)
				if res := script.Execute(s, script.DefaultLimits()); !res.Success {
					t.Fatalf("trim of %d to %d bits failed: %v", v, bits, res.Err)
				}
			}
		})
	}

	for _, bits := range []int{0, 32} {
		if _, err := TrimM31Gadget(bits); err == nil {
			t.Errorf("TrimM31Gadget(%d) should fail", bits)
		}
	}
}

// TestSerializeQM31Gadget tests that the script produces QM31.Bytes
func TestSerializeQM31Gadget(t *testing.T) {
	prng := NewPRNG(2)
	elements := []core.QM31{
		core.FromM31(0, 0, 0, 0),
		core.FromM31(1, 0x80, 0x8000, 0x800000),
		core.FromM31(0x7f, 0xff, 0xffff, core.M31(core.P-1)),
	}
	for i := 0; i < 20; i++ {
		elements = append(elements, prng.QM31())
	}

	gadget := SerializeQM31Gadget()
	for _, x := range elements {
		b := script.NewBuilder()
		for _, c := range x.PushOrder() {
			b.AddInt64(int64(c.Uint32()))
		}
		s := script.Concat(
			b.MustScript(),
			gadget,
			script.NewBuilder().AddBytes(SerializeQM31(x)).
				AddOp(txscript.OP_EQUALVERIFY, txscript.OP_DEPTH, txscript.OP_NOT).MustScript(),
		)
		if res := script.Execute(s, script.DefaultLimits()); !res.Success {
			t.Fatalf("serialize %s failed: %v", x, res.Err)
		}
	}
}

// TestSerializeM31 tests the host encoding of a base element
func TestSerializeM31(t *testing.T) {
	got := SerializeM31(core.NewM31(0x80))
	if len(got) != 4 || got[0] != 0x80 || got[1] != 0 || got[2] != 0 || got[3] != 0 {
		t.Errorf("SerializeM31(0x80) = %x", got)
	}
}

// TestPRNG tests that the stream only depends on the seed
func TestPRNG(t *testing.T) {
	a, b, c := NewPRNG(7), NewPRNG(7), NewPRNG(8)
	da, db, dc := a.Digest(), b.Digest(), c.Digest()
	if da != db {
		t.Error("Same seed should give the same stream")
	}
	if da == dc {
		t.Error("Different seeds should give different streams")
	}
	if a.Digest() == da {
		t.Error("Consecutive digests should differ")
	}
	for i := 0; i < 100; i++ {
		if v := a.M31().Uint32(); v >= core.P {
			t.Fatalf("M31 out of range: %d", v)
		}
	}
}
