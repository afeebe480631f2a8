package utils

import (
	"github.com/btcsuite/btcd/txscript"

	"github.com/vybium/vybium-btc-channel/internal/vybium-btc-channel/core"
	"github.com/vybium/vybium-btc-channel/internal/vybium-btc-channel/script"
)

// SerializeM31Gadget turns the non-negative script number on top of the
// stack into its 4-byte little-endian word by zero padding. Minimal
// encodings of values below 2^31 are at most 4 bytes, so padding is exact.
func SerializeM31Gadget() script.Script {
	return script.NewBuilder().
		AddOp(txscript.OP_SIZE, txscript.OP_2, txscript.OP_LESSTHAN, txscript.OP_IF).
		AddBytes([]byte{0x00, 0x00}).
		AddOp(txscript.OP_CAT, txscript.OP_ENDIF).
		AddOp(txscript.OP_SIZE, txscript.OP_3, txscript.OP_LESSTHAN, txscript.OP_IF).
		AddBytes([]byte{0x00}).
		AddOp(txscript.OP_CAT, txscript.OP_ENDIF).
		AddOp(txscript.OP_SIZE, txscript.OP_4, txscript.OP_LESSTHAN, txscript.OP_IF).
		AddBytes([]byte{0x00}).
		AddOp(txscript.OP_CAT, txscript.OP_ENDIF).
		MustScript()
}

// SerializeQM31Gadget replaces the four coordinates of a QM31 element
// (c3 deepest, c0 on top) with the 16-byte string c3 || c2 || c1 || c0,
// matching core.QM31.Bytes.
func SerializeQM31Gadget() script.Script {
	pad := SerializeM31Gadget()
	return script.NewBuilder().
		// stack: c3 c2 c1 c0
		AddScript(pad).
		AddOp(txscript.OP_SWAP).AddScript(pad).
		// stack: c3 c2 w0 w1
		AddOp(txscript.OP_SWAP, txscript.OP_CAT).
		AddOp(txscript.OP_SWAP).AddScript(pad).
		// stack: c3 (w1 w0) w2
		AddOp(txscript.OP_SWAP, txscript.OP_CAT).
		AddOp(txscript.OP_SWAP).AddScript(pad).
		AddOp(txscript.OP_SWAP, txscript.OP_CAT).
		MustScript()
}

// SerializeM31 is the host counterpart of SerializeM31Gadget
func SerializeM31(v core.M31) []byte {
	b := v.Bytes()
	return b[:]
}

// SerializeQM31 is the host counterpart of SerializeQM31Gadget
func SerializeQM31(x core.QM31) []byte {
	b := x.Bytes()
	return b[:]
}
