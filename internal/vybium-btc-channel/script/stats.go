package script

import (
	"fmt"

	"github.com/btcsuite/btcd/txscript"
)

// Stats are the static size metrics of a fragment
type Stats struct {
	Size   int // bytes
	Ops    int // non-push opcodes
	Pushes int // push opcodes, including OP_0..OP_16
}

// String implements fmt.Stringer
func (s Stats) String() string {
	return fmt.Sprintf("%d bytes, %d ops, %d pushes", s.Size, s.Ops, s.Pushes)
}

// isPushOp reports whether op only pushes data
func isPushOp(op byte) bool {
	return op <= txscript.OP_16 && op != txscript.OP_RESERVED
}

// Stats computes the size metrics of the script
func (s Script) Stats() (Stats, error) {
	st := Stats{Size: len(s)}
	tok := txscript.MakeScriptTokenizer(0, s)
	for tok.Next() {
		if isPushOp(tok.Opcode()) {
			st.Pushes++
		} else {
			st.Ops++
		}
	}
	if err := tok.Err(); err != nil {
		return st, scriptError(ErrMalformedPush, err.Error())
	}
	return st, nil
}
