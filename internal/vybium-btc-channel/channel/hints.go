// Package channel implements the SHA-256 Fiat-Shamir channel of the
// Circle-STARK verifier twice: as ordinary host code that also emits hints,
// and as Bitcoin script fragments that check those hints.
package channel

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/vybium/vybium-btc-channel/internal/vybium-btc-channel/core"
)

// MaxDrawWords is the number of 4-byte words in one digest
const MaxDrawWords = core.DigestSize / 4

// ErrHintShape is returned when a hint does not have the layout the
// fragments expect
var ErrHintShape = errors.New("hint shape mismatch")

// DrawHints are the untrusted values a script needs to extract n base
// elements from a digest: one script number per 4-byte word plus the bytes
// that were not drawn.
type DrawHints struct {
	Values    []int64
	Remainder []byte
}

// N returns the number of drawn words
func (h DrawHints) N() int {
	return len(h.Values)
}

// Validate checks the hint layout: 1 to 8 values, and a remainder of exactly
// 32 - 4n bytes (empty when n = 8).
func (h DrawHints) Validate() error {
	n := len(h.Values)
	if n < 1 || n > MaxDrawWords {
		return fmt.Errorf("%w: %d values, want 1 to %d", ErrHintShape, n, MaxDrawWords)
	}
	if want := core.DigestSize - 4*n; len(h.Remainder) != want {
		return fmt.Errorf("%w: remainder is %d bytes, want %d for %d values",
			ErrHintShape, len(h.Remainder), want, n)
	}
	return nil
}

// Equal compares two hints
func (h DrawHints) Equal(o DrawHints) bool {
	if len(h.Values) != len(o.Values) || !bytes.Equal(h.Remainder, o.Remainder) {
		return false
	}
	for i := range h.Values {
		if h.Values[i] != o.Values[i] {
			return false
		}
	}
	return true
}

// ReduceMagnitude maps a 31-bit magnitude to a base element: zero stays
// zero, anything else loses one. The modulus itself is never produced.
func ReduceMagnitude(mag uint32) core.M31 {
	if mag == 0 {
		return core.Zero()
	}
	return core.M31(mag - 1)
}

// wordToHint splits a little-endian word into its signed script value and
// its reduced base element. The top bit is the sign, so the negative zero
// word 00 00 00 80 yields the value 0, whose reconstruction differs from
// the digest and is rejected by the script.
func wordToHint(w [4]byte) (int64, core.M31) {
	raw := binary.LittleEndian.Uint32(w[:])
	mag := raw & 0x7fffffff

	value := int64(mag)
	if raw>>31 == 1 {
		value = -value
	}
	return value, ReduceMagnitude(mag)
}

// GenerateHints derives n base elements from the first n words of h together
// with the hints that let a script re-derive them.
func GenerateHints(h core.Digest, n int) ([]core.M31, DrawHints, error) {
	if n < 1 || n > MaxDrawWords {
		return nil, DrawHints{}, fmt.Errorf("%w: cannot draw %d words from a digest", ErrHintShape, n)
	}

	values := make([]core.M31, n)
	hints := DrawHints{
		Values:    make([]int64, n),
		Remainder: append([]byte{}, h[4*n:]...),
	}
	for i := 0; i < n; i++ {
		hints.Values[i], values[i] = wordToHint(h.Word(i))
	}
	return values, hints, nil
}
