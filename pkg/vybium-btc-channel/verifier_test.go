package vybiumbtcchannel

import (
	"errors"
	"testing"

	"github.com/vybium/vybium-btc-channel/internal/vybium-btc-channel/utils"
)

func newTestVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier(DefaultConfig())
	if err != nil {
		t.Fatalf("NewVerifier failed: %v", err)
	}
	return v
}

// TestNewVerifier tests configuration handling
func TestNewVerifier(t *testing.T) {
	if _, err := NewVerifier(nil); !errors.Is(err, &ChannelError{Code: ErrInvalidConfig}) {
		t.Errorf("Expected ErrInvalidConfig for nil config, got %v", err)
	}

	bad := DefaultConfig()
	bad.HashFunction = "poseidon"
	_, err := NewVerifier(bad)
	if !errors.Is(err, &ChannelError{Code: ErrInvalidConfig}) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}

	config := DefaultConfig()
	v, err := NewVerifier(config)
	if err != nil {
		t.Fatalf("NewVerifier failed: %v", err)
	}
	config.QueryBits = 3
	if v.config.QueryBits != 15 {
		t.Error("Verifier should not share the caller's config")
	}
}

// TestVerifierAbsorb tests both absorb fragments
func TestVerifierAbsorb(t *testing.T) {
	v := newTestVerifier(t)
	prng := utils.NewPRNG(1)

	res, err := v.AbsorbDigest(prng.Digest(), prng.Digest())
	if err != nil {
		t.Fatalf("AbsorbDigest failed: %v", err)
	}
	if !res.Accepted {
		t.Errorf("absorb digest rejected: %v", res.Reason)
	}

	res, err = v.AbsorbElement(prng.Digest(), prng.QM31())
	if err != nil {
		t.Fatalf("AbsorbElement failed: %v", err)
	}
	if !res.Accepted {
		t.Errorf("absorb element rejected: %v", res.Reason)
	}
	if res.ExecutedOps == 0 || res.ScriptSize == 0 {
		t.Errorf("Result is missing metrics: %+v", res)
	}
}

// TestVerifierSqueezeElement tests acceptance and rejection of a draw
func TestVerifierSqueezeElement(t *testing.T) {
	v := newTestVerifier(t)
	ch := NewChannel(utils.NewPRNG(2).Digest())
	before := ch.Digest()
	x, hint := ch.SqueezeElement()
	next := ch.Digest()

	res, err := v.SqueezeElement(before, hint, x, next)
	if err != nil {
		t.Fatalf("SqueezeElement failed: %v", err)
	}
	if !res.Accepted {
		t.Fatalf("valid draw rejected: %v", res.Reason)
	}

	wrong := NewQM31(x.A.A.Uint32()+1, x.A.B.Uint32(), x.B.A.Uint32(), x.B.B.Uint32())
	res, err = v.SqueezeElement(before, hint, wrong, next)
	if err != nil {
		t.Fatalf("SqueezeElement failed: %v", err)
	}
	if res.Accepted || res.Reason == nil {
		t.Error("wrong element accepted")
	}
	if !errors.Is(res.Err(), &ChannelError{Code: ErrVerificationFailed}) {
		t.Errorf("Expected ErrVerificationFailed, got %v", res.Err())
	}

	short := DrawHints{Values: hint.Values[:3], Remainder: make([]byte, 20)}
	if _, err := v.SqueezeElement(before, short, x, next); !errors.Is(err, &ChannelError{Code: ErrInvalidHint}) {
		t.Errorf("Expected ErrInvalidHint, got %v", err)
	}

	broken := DrawHints{Values: hint.Values, Remainder: hint.Remainder[:15]}
	if _, err := v.SqueezeElement(before, broken, x, next); !errors.Is(err, &ChannelError{Code: ErrInvalidHint}) {
		t.Errorf("Expected ErrInvalidHint, got %v", err)
	}
}

// TestVerifierSqueezeIndices tests the configured bit width
func TestVerifierSqueezeIndices(t *testing.T) {
	config := DefaultConfig().WithQueryBits(10)
	v, err := NewVerifier(config)
	if err != nil {
		t.Fatalf("NewVerifier failed: %v", err)
	}

	ch := NewChannel(utils.NewPRNG(3).Digest())
	before := ch.Digest()
	idx, hint, err := ch.SqueezeIndices(10)
	if err != nil {
		t.Fatalf("SqueezeIndices failed: %v", err)
	}

	res, err := v.SqueezeIndices(before, hint, idx, ch.Digest())
	if err != nil {
		t.Fatalf("Verifier.SqueezeIndices failed: %v", err)
	}
	if !res.Accepted {
		t.Fatalf("valid indices rejected: %v", res.Reason)
	}

	idx[0] = 1 << 10
	if _, err := v.SqueezeIndices(before, hint, idx, ch.Digest()); !errors.Is(err, &ChannelError{Code: ErrInvalidInput}) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

// TestVerifierOpLimit tests that an op ceiling rejects the fragment
func TestVerifierOpLimit(t *testing.T) {
	v, err := NewVerifier(DefaultConfig().WithMaxOps(10))
	if err != nil {
		t.Fatalf("NewVerifier failed: %v", err)
	}
	ch := NewChannel(utils.NewPRNG(4).Digest())
	before := ch.Digest()
	x, hint := ch.SqueezeElement()

	res, err := v.SqueezeElement(before, hint, x, ch.Digest())
	if err != nil {
		t.Fatalf("SqueezeElement failed: %v", err)
	}
	if res.Accepted {
		t.Error("fragment accepted despite a 10 op ceiling")
	}
}

// TestFragments tests the public size report
func TestFragments(t *testing.T) {
	stats, err := Fragments(DefaultConfig())
	if err != nil {
		t.Fatalf("Fragments failed: %v", err)
	}
	if len(stats) == 0 {
		t.Error("Expected fragment stats")
	}

	_, err = Fragments(DefaultConfig().WithQueryBits(40))
	if !errors.Is(err, &ChannelError{Code: ErrInvalidConfig}) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}
