package utils

import (
	"fmt"

	"github.com/btcsuite/btcd/txscript"

	"github.com/vybium/vybium-btc-channel/internal/vybium-btc-channel/script"
)

// TrimM31 keeps the low bits of a drawn base element. Host and script side
// must agree bit for bit.
func TrimM31(v uint32, bits int) uint32 {
	if bits >= 32 {
		return v
	}
	return v & ((1 << uint(bits)) - 1)
}

// TrimM31Gadget keeps the low bits of the value on top of the stack. The
// value must be a non-negative script number below 2^31. There is no
// division in script, so every bit from 30 down to bits is cleared by a
// compare-and-subtract.
func TrimM31Gadget(bits int) (script.Script, error) {
	if bits < 1 || bits > 31 {
		return nil, fmt.Errorf("trim width must be in [1, 31], got %d", bits)
	}

	b := script.NewBuilder()
	for i := 30; i >= bits; i-- {
		pow := int64(1) << uint(i)
		b.AddOp(txscript.OP_DUP).
			AddInt64(pow).
			AddOp(txscript.OP_GREATERTHANOREQUAL, txscript.OP_IF).
			AddInt64(pow).
			AddOp(txscript.OP_SUB, txscript.OP_ENDIF)
	}
	return b.Script()
}
