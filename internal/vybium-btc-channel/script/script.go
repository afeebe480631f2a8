// Package script assembles Bitcoin script fragments and executes them with a
// tapscript interpreter that has OP_CAT enabled.
package script

import (
	"fmt"

	"github.com/btcsuite/btcd/txscript"
)

// Script is an assembled fragment of Bitcoin script
type Script []byte

// Len returns the size of the script in bytes
func (s Script) Len() int {
	return len(s)
}

// Bytes returns a copy of the raw script
func (s Script) Bytes() []byte {
	return append([]byte(nil), s...)
}

// Disasm returns the one-line disassembly of the script
func (s Script) Disasm() string {
	dis, err := txscript.DisasmString(s)
	if err != nil {
		return fmt.Sprintf("%s [error: %v]", dis, err)
	}
	return dis
}

// Concat joins fragments in order
func Concat(parts ...Script) Script {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make(Script, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Builder composes scripts. It wraps txscript.ScriptBuilder so every push
// uses the canonical (minimal) push opcode.
type Builder struct {
	sb *txscript.ScriptBuilder
}

// NewBuilder returns an empty builder
func NewBuilder() *Builder {
	return &Builder{sb: txscript.NewScriptBuilder()}
}

// AddOp appends one or more opcodes
func (b *Builder) AddOp(ops ...byte) *Builder {
	for _, op := range ops {
		b.sb.AddOp(op)
	}
	return b
}

// AddInt64 pushes a number with its minimal encoding
func (b *Builder) AddInt64(v int64) *Builder {
	b.sb.AddInt64(v)
	return b
}

// AddBytes pushes the exact byte string. txscript turns a lone 0x00 into
// OP_0 (which pushes an empty item), so that case is emitted as OP_DATA_1.
func (b *Builder) AddBytes(data []byte) *Builder {
	if len(data) == 1 && data[0] == 0x00 {
		b.sb.AddOps([]byte{txscript.OP_DATA_1, 0x00})
		return b
	}
	b.sb.AddData(data)
	return b
}

// AddScript appends an already assembled fragment
func (b *Builder) AddScript(s Script) *Builder {
	b.sb.AddOps(s)
	return b
}

// Script returns the assembled script or the first error encountered
func (b *Builder) Script() (Script, error) {
	raw, err := b.sb.Script()
	if err != nil {
		return nil, fmt.Errorf("failed to assemble script: %w", err)
	}
	return Script(raw), nil
}

// MustScript is like Script but panics on error. It is meant for fixed
// fragments whose assembly cannot fail.
func (b *Builder) MustScript() Script {
	s, err := b.Script()
	if err != nil {
		panic(err)
	}
	return s
}
