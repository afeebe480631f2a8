// Package core provides the field and digest types shared by the channel
// host model and its script gadgets.
package core

import (
	"encoding/binary"
	"fmt"
)

// P is the Mersenne prime 2^31 - 1
const P uint32 = (1 << 31) - 1

// M31 represents an element of the Mersenne field M31 = 2^31 - 1.
// Values are always kept canonical in [0, P).
type M31 uint32

// NewM31 creates a field element, reducing the value modulo P
func NewM31(v uint32) M31 {
	return M31(reduce32(v))
}

// ReduceU64 reduces an arbitrary 64-bit value into the field
func ReduceU64(v uint64) M31 {
	// Fold twice: 2^31 = 1 mod P
	v = (v >> 31) + (v & uint64(P))
	v = (v >> 31) + (v & uint64(P))
	return M31(reduce32(uint32(v)))
}

func reduce32(v uint32) uint32 {
	v = (v >> 31) + (v & P)
	if v >= P {
		v -= P
	}
	return v
}

// Zero returns the additive identity
func Zero() M31 { return 0 }

// One returns the multiplicative identity
func One() M31 { return 1 }

// Add adds two field elements
func (a M31) Add(b M31) M31 {
	return M31(reduce32(uint32(a) + uint32(b)))
}

// Sub subtracts two field elements
func (a M31) Sub(b M31) M31 {
	return M31(reduce32(uint32(a) + P - uint32(b)))
}

// Neg returns -a
func (a M31) Neg() M31 {
	return M31(reduce32(P - uint32(a)))
}

// Mul multiplies two field elements
func (a M31) Mul(b M31) M31 {
	return ReduceU64(uint64(a) * uint64(b))
}

// Square returns a^2
func (a M31) Square() M31 {
	return a.Mul(a)
}

// Exp raises a to the given power
func (a M31) Exp(e uint64) M31 {
	result := One()
	base := a
	for e > 0 {
		if e&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Square()
		e >>= 1
	}
	return result
}

// Inverse computes the multiplicative inverse using Fermat's little theorem
func (a M31) Inverse() (M31, error) {
	if a.IsZero() {
		return 0, fmt.Errorf("cannot invert zero")
	}
	return a.Exp(uint64(P) - 2), nil
}

// IsZero checks if the element is zero
func (a M31) IsZero() bool {
	return a == 0
}

// Uint32 returns the canonical value
func (a M31) Uint32() uint32 {
	return uint32(a)
}

// Bytes returns the 4-byte little-endian encoding
func (a M31) Bytes() [4]byte {
	var out [4]byte
	binary.LittleEndian.PutUint32(out[:], uint32(a))
	return out
}

// String returns the decimal representation
func (a M31) String() string {
	return fmt.Sprintf("%d", uint32(a))
}
