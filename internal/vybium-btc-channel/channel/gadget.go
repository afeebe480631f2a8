package channel

import (
	"fmt"

	"github.com/btcsuite/btcd/txscript"

	"github.com/vybium/vybium-btc-channel/internal/vybium-btc-channel/script"
	"github.com/vybium/vybium-btc-channel/internal/vybium-btc-channel/utils"
)

var (
	negativeZero = []byte{0x80}
	signBit      = []byte{0x80}
	zeroByte     = []byte{0x00}
	zeroWord     = []byte{0x00, 0x00, 0x00, 0x00}
)

// roll moves the item at depth k to the top using the shortest encoding
func roll(b *script.Builder, k int) *script.Builder {
	switch k {
	case 0:
		return b
	case 1:
		return b.AddOp(txscript.OP_SWAP)
	case 2:
		return b.AddOp(txscript.OP_ROT)
	default:
		return b.AddInt64(int64(k)).AddOp(txscript.OP_ROLL)
	}
}

// fromBottom moves the deepest stack item to the top. Hints are placed
// below everything else, so this is how fragments fetch them.
func fromBottom(b *script.Builder) *script.Builder {
	return b.AddOp(txscript.OP_DEPTH, txscript.OP_1SUB, txscript.OP_ROLL)
}

// Reconstruct turns the script number on top of the stack into the 4-byte
// little-endian word it was derived from, with the sign folded into the top
// bit, and leaves its magnitude on the alt stack.
//
// The literal 0x80 (negative zero) is refused by arithmetic opcodes, so it
// is matched by byte equality and mapped to four zero bytes.
func Reconstruct() script.Script {
	return script.NewBuilder().
		AddOp(txscript.OP_DUP).AddBytes(negativeZero).AddOp(txscript.OP_EQUAL).
		AddOp(txscript.OP_IF).
		AddOp(txscript.OP_DROP, txscript.OP_0, txscript.OP_TOALTSTACK).
		AddBytes(zeroWord).
		AddOp(txscript.OP_ELSE).
		AddOp(txscript.OP_DUP, txscript.OP_ABS).
		AddOp(txscript.OP_DUP, txscript.OP_TOALTSTACK).
		AddOp(txscript.OP_SIZE, txscript.OP_4, txscript.OP_LESSTHAN).
		AddOp(txscript.OP_IF).
		// stack: a |a|; the sign is whether a and |a| are the same bytes
		AddOp(txscript.OP_DUP, txscript.OP_ROT, txscript.OP_EQUAL, txscript.OP_TOALTSTACK).
		AddOp(txscript.OP_SIZE, txscript.OP_2, txscript.OP_LESSTHAN, txscript.OP_IF).
		AddBytes([]byte{0x00, 0x00}).AddOp(txscript.OP_CAT).
		AddOp(txscript.OP_ENDIF).
		AddOp(txscript.OP_SIZE, txscript.OP_3, txscript.OP_LESSTHAN, txscript.OP_IF).
		AddBytes(zeroByte).AddOp(txscript.OP_CAT).
		AddOp(txscript.OP_ENDIF).
		AddOp(txscript.OP_FROMALTSTACK, txscript.OP_IF).
		AddBytes(zeroByte).
		AddOp(txscript.OP_ELSE).
		AddBytes(signBit).
		AddOp(txscript.OP_ENDIF).
		AddOp(txscript.OP_CAT).
		AddOp(txscript.OP_ELSE).
		// a 4-byte minimal number already is the word
		AddOp(txscript.OP_DROP).
		AddOp(txscript.OP_ENDIF).
		AddOp(txscript.OP_ENDIF).
		MustScript()
}

// UnpackMultiM31 checks n hinted words against the digest on top of the
// stack and replaces the digest with n base elements, the first word on
// top. The hints (n values, then the remainder when n < 8) must be the
// deepest items of the stack. Any mismatch aborts the script.
func UnpackMultiM31(n int) (script.Script, error) {
	if n < 1 || n > MaxDrawWords {
		return nil, fmt.Errorf("%w: cannot unpack %d words", ErrHintShape, n)
	}

	reconstruct := Reconstruct()
	b := script.NewBuilder()
	for i := 0; i < n; i++ {
		fromBottom(b)
	}
	for i := 0; i < n; i++ {
		roll(b, n-1).AddScript(reconstruct)
	}
	for i := 0; i < n-1; i++ {
		b.AddOp(txscript.OP_CAT)
	}
	if n < MaxDrawWords {
		fromBottom(b).AddOp(txscript.OP_CAT)
	}
	b.AddOp(txscript.OP_EQUALVERIFY)

	for i := 0; i < n; i++ {
		// magnitude 0 stays 0, anything else is decremented
		b.AddOp(txscript.OP_FROMALTSTACK,
			txscript.OP_DUP, txscript.OP_NOT, txscript.OP_NOTIF,
			txscript.OP_1SUB,
			txscript.OP_ENDIF)
	}
	return b.Script()
}

// squeezePrefix hashes the digest on top into h and computes the next
// digest SHA256(h || 0x00), leaving the next digest below h.
func squeezePrefix(b *script.Builder) *script.Builder {
	return b.AddOp(txscript.OP_SHA256, txscript.OP_DUP).
		AddBytes(zeroByte).
		AddOp(txscript.OP_CAT, txscript.OP_SHA256, txscript.OP_SWAP)
}

// AbsorbDigestGadget mixes a commitment.
//
//	input:  x, digest
//	output: SHA256(x || digest)
func AbsorbDigestGadget() script.Script {
	return script.NewBuilder().
		AddOp(txscript.OP_CAT, txscript.OP_SHA256).
		MustScript()
}

// AbsorbElementGadget mixes a QM31 element.
//
//	input:  c3, c2, c1, c0, digest
//	output: SHA256(c3 || c2 || c1 || c0 || digest), each ci as a 4-byte word
func AbsorbElementGadget() script.Script {
	return script.NewBuilder().
		AddOp(txscript.OP_TOALTSTACK).
		AddScript(utils.SerializeQM31Gadget()).
		AddOp(txscript.OP_FROMALTSTACK, txscript.OP_CAT, txscript.OP_SHA256).
		MustScript()
}

// SqueezeElementGadget draws a QM31 element using a 4-word hint.
//
//	hint:   v0, v1, v2, v3, remainder (deepest)
//	input:  digest
//	output: digest', c3, c2, c1, c0
func SqueezeElementGadget() script.Script {
	unpack, err := UnpackMultiM31(4)
	if err != nil {
		panic(err)
	}
	return squeezePrefix(script.NewBuilder()).
		AddScript(unpack).
		MustScript()
}

// SqueezeIndicesGadget draws QueryCount indices of the given bit width
// using a 5-word hint.
//
//	hint:   v0, ..., v4, remainder (deepest)
//	input:  digest
//	output: digest', t0, t1, t2, t3, t4
func SqueezeIndicesGadget(bits int) (script.Script, error) {
	trim, err := utils.TrimM31Gadget(bits)
	if err != nil {
		return nil, err
	}
	unpack, err := UnpackMultiM31(QueryCount)
	if err != nil {
		return nil, err
	}

	// After unpacking the stack is digest', v4, v3, v2, v1, v0. The
	// shuffles below trim each value once and leave them in draw order.
	return squeezePrefix(script.NewBuilder()).
		AddScript(unpack).
		AddScript(trim).
		AddOp(txscript.OP_SWAP).AddScript(trim).
		AddOp(txscript.OP_2SWAP).AddScript(trim).
		AddOp(txscript.OP_SWAP).AddScript(trim).
		AddOp(txscript.OP_4, txscript.OP_ROLL).AddScript(trim).
		Script()
}

// PushDrawHint places a hint on the stack in the order the fragments
// expect: the values first, then the remainder if any. It fails fast on a
// malformed hint rather than producing a script that can only abort.
func PushDrawHint(h DrawHints) (script.Script, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	b := script.NewBuilder()
	for _, v := range h.Values {
		b.AddInt64(v)
	}
	if h.N() < MaxDrawWords {
		b.AddBytes(h.Remainder)
	}
	return b.Script()
}
