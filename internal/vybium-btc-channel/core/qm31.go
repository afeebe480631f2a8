package core

import "fmt"

// QM31Size is the serialized length of a QM31 element
const QM31Size = 16

// CM31 is an element of the complex extension M31[i]/(i^2 + 1)
type CM31 struct {
	A M31
	B M31
}

// QM31 is an element of the degree-4 extension CM31[u]/(u^2 - 2 - i).
// Construction order is (A.A, A.B, B.A, B.B).
type QM31 struct {
	A CM31
	B CM31
}

// FromM31 builds a QM31 element from its four coordinates in construction order
func FromM31(c0, c1, c2, c3 M31) QM31 {
	return QM31{
		A: CM31{A: c0, B: c1},
		B: CM31{A: c2, B: c3},
	}
}

// Coordinates returns the four base coordinates in construction order
func (q QM31) Coordinates() [4]M31 {
	return [4]M31{q.A.A, q.A.B, q.B.A, q.B.B}
}

// PushOrder returns the coordinates in the order they are placed on a script
// stack (and hashed): c3 first, c0 last so that c0 ends on top.
func (q QM31) PushOrder() [4]M31 {
	return [4]M31{q.B.B, q.B.A, q.A.B, q.A.A}
}

// Bytes serializes the element as four 4-byte little-endian words in push
// order. This byte string is what the channel absorbs.
func (q QM31) Bytes() [QM31Size]byte {
	var out [QM31Size]byte
	for i, c := range q.PushOrder() {
		w := c.Bytes()
		copy(out[4*i:], w[:])
	}
	return out
}

// Equal checks coordinate-wise equality
func (q QM31) Equal(o QM31) bool {
	return q == o
}

// String returns the string representation
func (q QM31) String() string {
	return fmt.Sprintf("(%s + %si) + (%s + %si)u", q.A.A, q.A.B, q.B.A, q.B.B)
}
