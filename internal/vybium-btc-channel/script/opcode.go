package script

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"fmt"
	"hash"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"golang.org/x/crypto/ripemd160"
)

type opfunc func(e *Engine, op byte, data []byte) error

var opcodeTable map[byte]opfunc

// opcodeNames maps opcode values back to their canonical names
var opcodeNames [256]string

func init() {
	for name, op := range txscript.OpcodeByName {
		if cur := opcodeNames[op]; cur == "" || name < cur {
			opcodeNames[op] = name
		}
	}

	opcodeTable = map[byte]opfunc{
		txscript.OP_0:         opcodeFalse,
		txscript.OP_PUSHDATA1: opcodePushData,
		txscript.OP_PUSHDATA2: opcodePushData,
		txscript.OP_PUSHDATA4: opcodePushData,
		txscript.OP_1NEGATE:   opcode1Negate,

		txscript.OP_NOP:   opcodeNop,
		txscript.OP_NOP1:  opcodeNop,
		txscript.OP_NOP4:  opcodeNop,
		txscript.OP_NOP5:  opcodeNop,
		txscript.OP_NOP6:  opcodeNop,
		txscript.OP_NOP7:  opcodeNop,
		txscript.OP_NOP8:  opcodeNop,
		txscript.OP_NOP9:  opcodeNop,
		txscript.OP_NOP10: opcodeNop,

		txscript.OP_IF:     opcodeIf,
		txscript.OP_NOTIF:  opcodeNotIf,
		txscript.OP_ELSE:   opcodeElse,
		txscript.OP_ENDIF:  opcodeEndif,
		txscript.OP_VERIFY: opcodeVerify,
		txscript.OP_RETURN: opcodeReturn,

		txscript.OP_TOALTSTACK:   opcodeToAltStack,
		txscript.OP_FROMALTSTACK: opcodeFromAltStack,
		txscript.OP_2DROP:        opcode2Drop,
		txscript.OP_2DUP:         opcode2Dup,
		txscript.OP_3DUP:         opcode3Dup,
		txscript.OP_2OVER:        opcode2Over,
		txscript.OP_2ROT:         opcode2Rot,
		txscript.OP_2SWAP:        opcode2Swap,
		txscript.OP_IFDUP:        opcodeIfDup,
		txscript.OP_DEPTH:        opcodeDepth,
		txscript.OP_DROP:         opcodeDrop,
		txscript.OP_DUP:          opcodeDup,
		txscript.OP_NIP:          opcodeNip,
		txscript.OP_OVER:         opcodeOver,
		txscript.OP_PICK:         opcodePick,
		txscript.OP_ROLL:         opcodeRoll,
		txscript.OP_ROT:          opcodeRot,
		txscript.OP_SWAP:         opcodeSwap,
		txscript.OP_TUCK:         opcodeTuck,

		txscript.OP_CAT:  opcodeCat,
		txscript.OP_SIZE: opcodeSize,

		txscript.OP_EQUAL:       opcodeEqual,
		txscript.OP_EQUALVERIFY: opcodeEqualVerify,

		txscript.OP_1ADD:               opcode1Add,
		txscript.OP_1SUB:               opcode1Sub,
		txscript.OP_NEGATE:             opcodeNegate,
		txscript.OP_ABS:                opcodeAbs,
		txscript.OP_NOT:                opcodeNot,
		txscript.OP_0NOTEQUAL:          opcode0NotEqual,
		txscript.OP_ADD:                opcodeAdd,
		txscript.OP_SUB:                opcodeSub,
		txscript.OP_BOOLAND:            opcodeBoolAnd,
		txscript.OP_BOOLOR:             opcodeBoolOr,
		txscript.OP_NUMEQUAL:           opcodeNumEqual,
		txscript.OP_NUMEQUALVERIFY:     opcodeNumEqualVerify,
		txscript.OP_NUMNOTEQUAL:        opcodeNumNotEqual,
		txscript.OP_LESSTHAN:           opcodeLessThan,
		txscript.OP_GREATERTHAN:        opcodeGreaterThan,
		txscript.OP_LESSTHANOREQUAL:    opcodeLessThanOrEqual,
		txscript.OP_GREATERTHANOREQUAL: opcodeGreaterThanOrEqual,
		txscript.OP_MIN:                opcodeMin,
		txscript.OP_MAX:                opcodeMax,
		txscript.OP_WITHIN:             opcodeWithin,

		txscript.OP_RIPEMD160: opcodeRipemd160,
		txscript.OP_SHA1:      opcodeSha1,
		txscript.OP_SHA256:    opcodeSha256,
		txscript.OP_HASH160:   opcodeHash160,
		txscript.OP_HASH256:   opcodeHash256,
	}
	for op := byte(txscript.OP_DATA_1); op <= txscript.OP_DATA_75; op++ {
		opcodeTable[op] = opcodePushData
	}
	for op := byte(txscript.OP_1); op <= txscript.OP_16; op++ {
		opcodeTable[op] = opcodeN
	}
}

// opcodeName returns the canonical name of an opcode
func opcodeName(op byte) string {
	if name := opcodeNames[op]; name != "" {
		return name
	}
	return fmt.Sprintf("OP_UNKNOWN%d", op)
}

// isDisabled returns whether the opcode is refused even in a non-executing
// branch. OP_CAT is deliberately absent.
func isDisabled(op byte) bool {
	switch op {
	case txscript.OP_SUBSTR, txscript.OP_LEFT, txscript.OP_RIGHT,
		txscript.OP_INVERT, txscript.OP_AND, txscript.OP_OR, txscript.OP_XOR,
		txscript.OP_2MUL, txscript.OP_2DIV, txscript.OP_MUL, txscript.OP_DIV,
		txscript.OP_MOD, txscript.OP_LSHIFT, txscript.OP_RSHIFT,
		txscript.OP_VERIF, txscript.OP_VERNOTIF:
		return true
	}
	return false
}

// isConditional returns whether the opcode is handled even when the branch
// is not executing
func isConditional(op byte) bool {
	switch op {
	case txscript.OP_IF, txscript.OP_NOTIF, txscript.OP_ELSE, txscript.OP_ENDIF:
		return true
	}
	return false
}

func opcodeFalse(e *Engine, op byte, data []byte) error {
	e.dstack.PushByteArray(nil)
	return nil
}

func opcodePushData(e *Engine, op byte, data []byte) error {
	e.dstack.PushByteArray(data)
	return nil
}

func opcode1Negate(e *Engine, op byte, data []byte) error {
	e.dstack.PushInt(Num(-1))
	return nil
}

func opcodeN(e *Engine, op byte, data []byte) error {
	e.dstack.PushInt(Num(op - (txscript.OP_1 - 1)))
	return nil
}

func opcodeNop(e *Engine, op byte, data []byte) error {
	return nil
}

// popIfBool pops the conditional argument, enforcing MINIMALIF
func popIfBool(e *Engine) (bool, error) {
	so, err := e.dstack.PopByteArray()
	if err != nil {
		return false, err
	}
	if e.limits.MinimalData {
		if len(so) > 1 || (len(so) == 1 && so[0] != 0x01) {
			return false, scriptError(ErrMinimalIf, fmt.Sprintf(
				"conditional argument %x is not empty or 0x01", so))
		}
	}
	return asBool(so), nil
}

func opcodeIf(e *Engine, op byte, data []byte) error {
	condVal := OpCondFalse
	if e.isBranchExecuting() {
		ok, err := popIfBool(e)
		if err != nil {
			return err
		}
		if ok {
			condVal = OpCondTrue
		}
	} else {
		condVal = OpCondSkip
	}
	e.condStack = append(e.condStack, condVal)
	return nil
}

func opcodeNotIf(e *Engine, op byte, data []byte) error {
	condVal := OpCondFalse
	if e.isBranchExecuting() {
		ok, err := popIfBool(e)
		if err != nil {
			return err
		}
		if !ok {
			condVal = OpCondTrue
		}
	} else {
		condVal = OpCondSkip
	}
	e.condStack = append(e.condStack, condVal)
	return nil
}

func opcodeElse(e *Engine, op byte, data []byte) error {
	if len(e.condStack) == 0 {
		return scriptError(ErrUnbalancedConditional,
			"encountered opcode OP_ELSE with no matching opcode to begin conditional execution")
	}

	conditionalIdx := len(e.condStack) - 1
	switch e.condStack[conditionalIdx] {
	case OpCondTrue:
		e.condStack[conditionalIdx] = OpCondFalse
	case OpCondFalse:
		e.condStack[conditionalIdx] = OpCondTrue
	case OpCondSkip:
	}
	return nil
}

func opcodeEndif(e *Engine, op byte, data []byte) error {
	if len(e.condStack) == 0 {
		return scriptError(ErrUnbalancedConditional,
			"encountered opcode OP_ENDIF with no matching opcode to begin conditional execution")
	}
	e.condStack = e.condStack[:len(e.condStack)-1]
	return nil
}

// abstractVerify pops the top item and fails with the given code unless it
// is true
func abstractVerify(e *Engine, c ErrorCode, name string) error {
	verified, err := e.dstack.PopBool()
	if err != nil {
		return err
	}
	if !verified {
		return scriptError(c, fmt.Sprintf("%s failed", name))
	}
	return nil
}

func opcodeVerify(e *Engine, op byte, data []byte) error {
	return abstractVerify(e, ErrVerify, "OP_VERIFY")
}

func opcodeReturn(e *Engine, op byte, data []byte) error {
	return scriptError(ErrEarlyReturn, "script returned early")
}

func opcodeToAltStack(e *Engine, op byte, data []byte) error {
	so, err := e.dstack.PopByteArray()
	if err != nil {
		return err
	}
	e.astack.PushByteArray(so)
	return nil
}

func opcodeFromAltStack(e *Engine, op byte, data []byte) error {
	so, err := e.astack.PopByteArray()
	if err != nil {
		return err
	}
	e.dstack.PushByteArray(so)
	return nil
}

func opcode2Drop(e *Engine, op byte, data []byte) error { return e.dstack.DropN(2) }
func opcode2Dup(e *Engine, op byte, data []byte) error  { return e.dstack.DupN(2) }
func opcode3Dup(e *Engine, op byte, data []byte) error  { return e.dstack.DupN(3) }
func opcode2Over(e *Engine, op byte, data []byte) error { return e.dstack.OverN(2) }
func opcode2Rot(e *Engine, op byte, data []byte) error  { return e.dstack.RotN(2) }
func opcode2Swap(e *Engine, op byte, data []byte) error { return e.dstack.SwapN(2) }
func opcodeDrop(e *Engine, op byte, data []byte) error  { return e.dstack.DropN(1) }
func opcodeDup(e *Engine, op byte, data []byte) error   { return e.dstack.DupN(1) }
func opcodeNip(e *Engine, op byte, data []byte) error   { return e.dstack.NipN(1) }
func opcodeOver(e *Engine, op byte, data []byte) error  { return e.dstack.OverN(1) }
func opcodeRot(e *Engine, op byte, data []byte) error   { return e.dstack.RotN(1) }
func opcodeSwap(e *Engine, op byte, data []byte) error  { return e.dstack.SwapN(1) }
func opcodeTuck(e *Engine, op byte, data []byte) error  { return e.dstack.Tuck() }

func opcodeIfDup(e *Engine, op byte, data []byte) error {
	so, err := e.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}
	if asBool(so) {
		e.dstack.PushByteArray(so)
	}
	return nil
}

func opcodeDepth(e *Engine, op byte, data []byte) error {
	e.dstack.PushInt(Num(e.dstack.Depth()))
	return nil
}

func opcodePick(e *Engine, op byte, data []byte) error {
	val, err := e.dstack.PopInt()
	if err != nil {
		return err
	}
	return e.dstack.PickN(val.Int32())
}

func opcodeRoll(e *Engine, op byte, data []byte) error {
	val, err := e.dstack.PopInt()
	if err != nil {
		return err
	}
	return e.dstack.RollN(val.Int32())
}

func opcodeCat(e *Engine, op byte, data []byte) error {
	b, err := e.dstack.PopByteArray()
	if err != nil {
		return err
	}
	a, err := e.dstack.PopByteArray()
	if err != nil {
		return err
	}
	if len(a)+len(b) > e.limits.MaxElementSize {
		return scriptError(ErrElementTooBig, fmt.Sprintf(
			"concatenated size %d exceeds max allowed size %d",
			len(a)+len(b), e.limits.MaxElementSize))
	}
	c := make([]byte, 0, len(a)+len(b))
	c = append(c, a...)
	c = append(c, b...)
	e.dstack.PushByteArray(c)
	return nil
}

func opcodeSize(e *Engine, op byte, data []byte) error {
	so, err := e.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}
	e.dstack.PushInt(Num(len(so)))
	return nil
}

func opcodeEqual(e *Engine, op byte, data []byte) error {
	a, err := e.dstack.PopByteArray()
	if err != nil {
		return err
	}
	b, err := e.dstack.PopByteArray()
	if err != nil {
		return err
	}
	e.dstack.PushBool(bytes.Equal(a, b))
	return nil
}

func opcodeEqualVerify(e *Engine, op byte, data []byte) error {
	if err := opcodeEqual(e, op, data); err != nil {
		return err
	}
	return abstractVerify(e, ErrEqualVerify, "OP_EQUALVERIFY")
}

// unaryNum applies fn to the top number
func unaryNum(e *Engine, fn func(Num) Num) error {
	m, err := e.dstack.PopInt()
	if err != nil {
		return err
	}
	e.dstack.PushInt(fn(m))
	return nil
}

// binaryNum pops v1 (top) then v0 and pushes fn(v0, v1)
func binaryNum(e *Engine, fn func(v0, v1 Num) Num) error {
	v1, err := e.dstack.PopInt()
	if err != nil {
		return err
	}
	v0, err := e.dstack.PopInt()
	if err != nil {
		return err
	}
	e.dstack.PushInt(fn(v0, v1))
	return nil
}

func boolNum(b bool) Num {
	if b {
		return 1
	}
	return 0
}

func opcode1Add(e *Engine, op byte, data []byte) error {
	return unaryNum(e, func(m Num) Num { return m + 1 })
}

func opcode1Sub(e *Engine, op byte, data []byte) error {
	return unaryNum(e, func(m Num) Num { return m - 1 })
}

func opcodeNegate(e *Engine, op byte, data []byte) error {
	return unaryNum(e, func(m Num) Num { return -m })
}

func opcodeAbs(e *Engine, op byte, data []byte) error {
	return unaryNum(e, func(m Num) Num {
		if m < 0 {
			return -m
		}
		return m
	})
}

func opcodeNot(e *Engine, op byte, data []byte) error {
	return unaryNum(e, func(m Num) Num { return boolNum(m == 0) })
}

func opcode0NotEqual(e *Engine, op byte, data []byte) error {
	return unaryNum(e, func(m Num) Num { return boolNum(m != 0) })
}

func opcodeAdd(e *Engine, op byte, data []byte) error {
	return binaryNum(e, func(v0, v1 Num) Num { return v0 + v1 })
}

func opcodeSub(e *Engine, op byte, data []byte) error {
	return binaryNum(e, func(v0, v1 Num) Num { return v0 - v1 })
}

func opcodeBoolAnd(e *Engine, op byte, data []byte) error {
	return binaryNum(e, func(v0, v1 Num) Num { return boolNum(v0 != 0 && v1 != 0) })
}

func opcodeBoolOr(e *Engine, op byte, data []byte) error {
	return binaryNum(e, func(v0, v1 Num) Num { return boolNum(v0 != 0 || v1 != 0) })
}

func opcodeNumEqual(e *Engine, op byte, data []byte) error {
	return binaryNum(e, func(v0, v1 Num) Num { return boolNum(v0 == v1) })
}

func opcodeNumEqualVerify(e *Engine, op byte, data []byte) error {
	if err := opcodeNumEqual(e, op, data); err != nil {
		return err
	}
	return abstractVerify(e, ErrNumEqualVerify, "OP_NUMEQUALVERIFY")
}

func opcodeNumNotEqual(e *Engine, op byte, data []byte) error {
	return binaryNum(e, func(v0, v1 Num) Num { return boolNum(v0 != v1) })
}

func opcodeLessThan(e *Engine, op byte, data []byte) error {
	return binaryNum(e, func(v0, v1 Num) Num { return boolNum(v0 < v1) })
}

func opcodeGreaterThan(e *Engine, op byte, data []byte) error {
	return binaryNum(e, func(v0, v1 Num) Num { return boolNum(v0 > v1) })
}

func opcodeLessThanOrEqual(e *Engine, op byte, data []byte) error {
	return binaryNum(e, func(v0, v1 Num) Num { return boolNum(v0 <= v1) })
}

func opcodeGreaterThanOrEqual(e *Engine, op byte, data []byte) error {
	return binaryNum(e, func(v0, v1 Num) Num { return boolNum(v0 >= v1) })
}

func opcodeMin(e *Engine, op byte, data []byte) error {
	return binaryNum(e, func(v0, v1 Num) Num {
		if v0 < v1 {
			return v0
		}
		return v1
	})
}

func opcodeMax(e *Engine, op byte, data []byte) error {
	return binaryNum(e, func(v0, v1 Num) Num {
		if v0 > v1 {
			return v0
		}
		return v1
	})
}

// opcodeWithin pushes whether x is in [min, max)
func opcodeWithin(e *Engine, op byte, data []byte) error {
	maxVal, err := e.dstack.PopInt()
	if err != nil {
		return err
	}
	minVal, err := e.dstack.PopInt()
	if err != nil {
		return err
	}
	x, err := e.dstack.PopInt()
	if err != nil {
		return err
	}
	e.dstack.PushBool(x >= minVal && x < maxVal)
	return nil
}

// calcHash calculates the hash of hasher over buf
func calcHash(buf []byte, hasher hash.Hash) []byte {
	hasher.Write(buf)
	return hasher.Sum(nil)
}

// hashTop replaces the top item with fn(item)
func hashTop(e *Engine, fn func([]byte) []byte) error {
	buf, err := e.dstack.PopByteArray()
	if err != nil {
		return err
	}
	e.dstack.PushByteArray(fn(buf))
	return nil
}

func opcodeRipemd160(e *Engine, op byte, data []byte) error {
	return hashTop(e, func(b []byte) []byte { return calcHash(b, ripemd160.New()) })
}

func opcodeSha1(e *Engine, op byte, data []byte) error {
	return hashTop(e, func(b []byte) []byte {
		h := sha1.Sum(b)
		return h[:]
	})
}

func opcodeSha256(e *Engine, op byte, data []byte) error {
	return hashTop(e, func(b []byte) []byte {
		h := sha256.Sum256(b)
		return h[:]
	})
}

func opcodeHash160(e *Engine, op byte, data []byte) error {
	return hashTop(e, func(b []byte) []byte {
		h := sha256.Sum256(b)
		return calcHash(h[:], ripemd160.New())
	})
}

func opcodeHash256(e *Engine, op byte, data []byte) error {
	return hashTop(e, chainhash.DoubleHashB)
}
