package channel

import (
	"bytes"
	"errors"
	"testing"

	"github.com/vybium/vybium-btc-channel/internal/vybium-btc-channel/core"
	"github.com/vybium/vybium-btc-channel/internal/vybium-btc-channel/utils"
)

// TestNewChannel tests that a channel starts from its seed
func TestNewChannel(t *testing.T) {
	seed := utils.NewPRNG(0).Digest()
	ch := NewChannel(seed)
	if ch.Digest() != seed {
		t.Errorf("Expected digest %s, got %s", seed, ch.Digest())
	}
	if len(ch.Transcript()) != 0 {
		t.Error("New channel should have an empty transcript")
	}
}

// TestChannelAbsorbDigest tests digest <- SHA256(x || digest)
func TestChannelAbsorbDigest(t *testing.T) {
	prng := utils.NewPRNG(1)
	seed := prng.Digest()
	x := prng.Digest()

	ch := NewChannel(seed)
	ch.AbsorbDigest(x)

	want := core.Sha256(append(x[:], seed[:]...))
	if ch.Digest() != want {
		t.Errorf("Expected %s, got %s", want, ch.Digest())
	}
}

// TestChannelAbsorbElement tests the 16-byte serialization order
func TestChannelAbsorbElement(t *testing.T) {
	seed := utils.NewPRNG(2).Digest()
	x := core.FromM31(1, 2, 3, 4)

	ch := NewChannel(seed)
	ch.AbsorbElement(x)

	msg := []byte{
		4, 0, 0, 0,
		3, 0, 0, 0,
		2, 0, 0, 0,
		1, 0, 0, 0,
	}
	want := core.Sha256(msg, seed[:])
	if ch.Digest() != want {
		t.Errorf("Expected %s, got %s", want, ch.Digest())
	}
}

// TestChannelAbsorbElements tests that a batch absorbs in order
func TestChannelAbsorbElements(t *testing.T) {
	prng := utils.NewPRNG(3)
	seed := prng.Digest()
	xs := []core.QM31{prng.QM31(), prng.QM31(), prng.QM31()}

	batch := NewChannel(seed)
	batch.AbsorbElements(xs)

	single := NewChannel(seed)
	for _, x := range xs {
		single.AbsorbElement(x)
	}
	if batch.Digest() != single.Digest() {
		t.Error("AbsorbElements should match absorbing one by one")
	}

	reversed := NewChannel(seed)
	for i := len(xs) - 1; i >= 0; i-- {
		reversed.AbsorbElement(xs[i])
	}
	if batch.Digest() == reversed.Digest() {
		t.Error("Absorb order should matter")
	}
}

// TestChannelSqueezeDigestEvolution tests h = SHA256(d), d' = SHA256(h || 0x00)
func TestChannelSqueezeDigestEvolution(t *testing.T) {
	seed := utils.NewPRNG(4).Digest()
	h := core.Sha256(seed[:])
	next := core.Sha256(h[:], []byte{0x00})

	t.Run("element", func(t *testing.T) {
		ch := NewChannel(seed)
		_, hints := ch.SqueezeElement()
		if ch.Digest() != next {
			t.Errorf("Expected next digest %s, got %s", next, ch.Digest())
		}
		if !bytes.Equal(hints.Remainder, h[16:]) {
			t.Errorf("Expected remainder %x, got %x", h[16:], hints.Remainder)
		}
	})

	t.Run("indices", func(t *testing.T) {
		ch := NewChannel(seed)
		_, hints, err := ch.SqueezeIndices(15)
		if err != nil {
			t.Fatalf("SqueezeIndices failed: %v", err)
		}
		if ch.Digest() != next {
			t.Errorf("Expected next digest %s, got %s", next, ch.Digest())
		}
		if len(hints.Remainder) != 12 {
			t.Errorf("Expected 12 byte remainder, got %d", len(hints.Remainder))
		}
	})

	t.Run("consecutive draws differ", func(t *testing.T) {
		ch := NewChannel(seed)
		a, _ := ch.SqueezeElement()
		b, _ := ch.SqueezeElement()
		if a.Equal(b) {
			t.Error("Consecutive squeezes returned the same element")
		}
	})
}

// TestChannelDeterminism tests that identical histories give identical outputs
func TestChannelDeterminism(t *testing.T) {
	prng := utils.NewPRNG(5)
	seed := prng.Digest()
	commit := prng.Digest()
	x := prng.QM31()

	replay := func() (core.QM31, [QueryCount]uint32, DrawHints, core.Digest) {
		ch := NewChannel(seed)
		ch.AbsorbDigest(commit)
		ch.AbsorbElement(x)
		e, _ := ch.SqueezeElement()
		idx, hints, err := ch.SqueezeIndices(10)
		if err != nil {
			t.Fatalf("SqueezeIndices failed: %v", err)
		}
		return e, idx, hints, ch.Digest()
	}

	e1, idx1, h1, d1 := replay()
	e2, idx2, h2, d2 := replay()
	if !e1.Equal(e2) || idx1 != idx2 || !h1.Equal(h2) || d1 != d2 {
		t.Error("Channel is not deterministic")
	}
}

// TestChannelSqueezeElementRange tests that every coordinate is below P
func TestChannelSqueezeElementRange(t *testing.T) {
	ch := NewChannel(utils.NewPRNG(6).Digest())
	for i := 0; i < 200; i++ {
		x, hints := ch.SqueezeElement()
		if err := hints.Validate(); err != nil {
			t.Fatalf("Invalid hints: %v", err)
		}
		for _, c := range x.Coordinates() {
			if c.Uint32() > core.P-1 {
				t.Fatalf("Coordinate %d out of range", c.Uint32())
			}
		}
	}
}

// TestChannelSqueezeIndices tests ranges and bit width validation
func TestChannelSqueezeIndices(t *testing.T) {
	tests := []struct {
		name    string
		bits    int
		wantErr bool
	}{
		{"one bit", 1, false},
		{"fifteen bits", 15, false},
		{"thirty one bits", 31, false},
		{"zero bits", 0, true},
		{"thirty two bits", 32, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := NewChannel(utils.NewPRNG(7).Digest())
			before := ch.Digest()
			idx, _, err := ch.SqueezeIndices(tt.bits)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error")
				}
				if ch.Digest() != before {
					t.Error("Failed squeeze must not advance the channel")
				}
				return
			}
			if err != nil {
				t.Fatalf("SqueezeIndices failed: %v", err)
			}
			for _, v := range idx {
				if uint64(v) >= uint64(1)<<uint(tt.bits) {
					t.Errorf("Index %d does not fit in %d bits", v, tt.bits)
				}
			}
		})
	}
}

// TestChannelSqueezeM31s tests the generic draw and its shape errors
func TestChannelSqueezeM31s(t *testing.T) {
	for n := 1; n <= MaxDrawWords; n++ {
		ch := NewChannel(utils.NewPRNG(8).Digest())
		values, hints, err := ch.SqueezeM31s(n)
		if err != nil {
			t.Fatalf("SqueezeM31s(%d) failed: %v", n, err)
		}
		if len(values) != n || hints.N() != n {
			t.Errorf("SqueezeM31s(%d): got %d values and %d hints", n, len(values), hints.N())
		}
		if len(hints.Remainder) != core.DigestSize-4*n {
			t.Errorf("SqueezeM31s(%d): remainder is %d bytes", n, len(hints.Remainder))
		}
	}

	ch := NewChannel(utils.NewPRNG(8).Digest())
	before := ch.Digest()
	for _, n := range []int{0, 9} {
		if _, _, err := ch.SqueezeM31s(n); !errors.Is(err, ErrHintShape) {
			t.Errorf("SqueezeM31s(%d): expected ErrHintShape, got %v", n, err)
		}
	}
	if ch.Digest() != before {
		t.Error("Rejected draws must not advance the channel")
	}
}

// TestChannelTranscript tests the recorded history
func TestChannelTranscript(t *testing.T) {
	prng := utils.NewPRNG(9)
	ch := NewChannel(prng.Digest())
	ch.AbsorbDigest(prng.Digest())
	ch.AbsorbElement(prng.QM31())
	ch.SqueezeElement()

	tr := ch.Transcript()
	if len(tr) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(tr))
	}
	tr[0] = "changed"
	if ch.Transcript()[0] == "changed" {
		t.Error("Transcript should return a copy")
	}
	if ch.String() == "" {
		t.Error("String should not be empty")
	}
}

// TestGenerateHints tests the values and reduced elements for known words
func TestGenerateHints(t *testing.T) {
	var h core.Digest
	copy(h[0:4], []byte{0xff, 0xff, 0xff, 0x7f})
	copy(h[4:8], []byte{0xff, 0xff, 0xff, 0xff})
	copy(h[8:12], []byte{0x00, 0x00, 0x00, 0x80})
	copy(h[12:16], []byte{0x02, 0x00, 0x00, 0x00})
	for i := 16; i < len(h); i++ {
		h[i] = byte(i)
	}

	values, hints, err := GenerateHints(h, 4)
	if err != nil {
		t.Fatalf("GenerateHints failed: %v", err)
	}

	wantValues := []int64{0x7fffffff, -0x7fffffff, 0, 2}
	wantReduced := []uint32{core.P - 1, core.P - 1, 0, 1}
	for i := range wantValues {
		if hints.Values[i] != wantValues[i] {
			t.Errorf("value %d: expected %d, got %d", i, wantValues[i], hints.Values[i])
		}
		if values[i].Uint32() != wantReduced[i] {
			t.Errorf("reduced %d: expected %d, got %d", i, wantReduced[i], values[i].Uint32())
		}
	}
	if !bytes.Equal(hints.Remainder, h[16:]) {
		t.Errorf("Expected remainder %x, got %x", h[16:], hints.Remainder)
	}

	_, full, err := GenerateHints(h, 8)
	if err != nil {
		t.Fatalf("GenerateHints failed: %v", err)
	}
	if len(full.Remainder) != 0 {
		t.Errorf("Expected empty remainder for 8 words, got %d bytes", len(full.Remainder))
	}

	// the remainder must not alias the digest
	hints.Remainder[0] ^= 0xff
	if h[16] != 16 {
		t.Error("Remainder aliases the digest")
	}
}

// TestReduceMagnitude tests the field reduction rule
func TestReduceMagnitude(t *testing.T) {
	tests := []struct {
		mag  uint32
		want uint32
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{core.P, core.P - 1},
		{1 << 30, (1 << 30) - 1},
	}
	for _, tt := range tests {
		if got := ReduceMagnitude(tt.mag).Uint32(); got != tt.want {
			t.Errorf("ReduceMagnitude(%d) = %d, want %d", tt.mag, got, tt.want)
		}
	}
}
