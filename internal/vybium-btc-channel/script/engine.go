package script

import (
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/rs/zerolog"
)

// Limits are the consensus ceilings enforced during execution. The numeric
// values differ per platform, so they are configurable.
type Limits struct {
	MaxScriptSize  int  // 0 means unbounded (tapscript)
	MaxElementSize int  // bytes per stack item
	MaxStackSize   int  // main + alt stack items
	MaxOps         int  // executed non-push opcodes, 0 means unbounded
	MinimalData    bool // minimal pushes, numbers and IF arguments
}

// DefaultLimits returns the tapscript limits
func DefaultLimits() Limits {
	return Limits{
		MaxScriptSize:  0,
		MaxElementSize: txscript.MaxScriptElementSize,
		MaxStackSize:   txscript.MaxStackSize,
		MaxOps:         0,
		MinimalData:    true,
	}
}

// Conditional execution states
const (
	OpCondFalse = 0
	OpCondTrue  = 1
	OpCondSkip  = 2
)

// ExecStats are the dynamic metrics of one run
type ExecStats struct {
	ExecutedOps   int
	MaxStackDepth int
}

// Engine executes a single script against an initial stack. It carries no
// transaction context, so signature and locktime opcodes are refused.
type Engine struct {
	script    Script
	limits    Limits
	dstack    stack
	astack    stack
	condStack []int
	stats     ExecStats
	done      bool
	log       zerolog.Logger
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithLogger enables trace logging of every executed opcode
func WithLogger(l zerolog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithStack sets the initial stack, bottom first
func WithStack(items [][]byte) EngineOption {
	return func(e *Engine) {
		for _, it := range items {
			e.dstack.PushByteArray(append([]byte(nil), it...))
		}
	}
}

// NewEngine creates an engine for the script under the given limits
func NewEngine(s Script, limits Limits, opts ...EngineOption) (*Engine, error) {
	if limits.MaxScriptSize > 0 && len(s) > limits.MaxScriptSize {
		return nil, scriptError(ErrScriptTooBig, fmt.Sprintf(
			"script size %d is larger than max allowed size %d",
			len(s), limits.MaxScriptSize))
	}

	e := &Engine{
		script: s,
		limits: limits,
		log:    zerolog.Nop(),
	}
	e.dstack.verifyMinimal = limits.MinimalData
	e.dstack.maxNumLen = DefaultNumLen
	e.astack.verifyMinimal = limits.MinimalData
	e.astack.maxNumLen = DefaultNumLen

	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// isBranchExecuting returns whether the current conditional branch is
// actively executing
func (e *Engine) isBranchExecuting() bool {
	if len(e.condStack) == 0 {
		return true
	}
	return e.condStack[len(e.condStack)-1] == OpCondTrue
}

// checkMinimalDataPush returns an error if the push could have been done
// with a shorter opcode
func checkMinimalDataPush(op byte, data []byte) error {
	dataLen := len(data)
	switch {
	case dataLen == 0 && op != txscript.OP_0:
		return scriptError(ErrMinimalData, fmt.Sprintf(
			"zero length data push is encoded with opcode 0x%02x instead of OP_0", op))
	case dataLen == 1 && data[0] >= 1 && data[0] <= 16:
		if op != txscript.OP_1+data[0]-1 {
			return scriptError(ErrMinimalData, fmt.Sprintf(
				"data push of the value %d encoded with opcode 0x%02x instead of OP_%d",
				data[0], op, data[0]))
		}
	case dataLen == 1 && data[0] == 0x81:
		if op != txscript.OP_1NEGATE {
			return scriptError(ErrMinimalData, fmt.Sprintf(
				"data push of the value -1 encoded with opcode 0x%02x instead of OP_1NEGATE", op))
		}
	case dataLen <= 75:
		if int(op) != dataLen {
			return scriptError(ErrMinimalData, fmt.Sprintf(
				"data push of %d bytes encoded with opcode 0x%02x instead of OP_DATA_%d",
				dataLen, op, dataLen))
		}
	case dataLen <= 255:
		if op != txscript.OP_PUSHDATA1 {
			return scriptError(ErrMinimalData, fmt.Sprintf(
				"data push of %d bytes encoded with opcode 0x%02x instead of OP_PUSHDATA1",
				dataLen, op))
		}
	case dataLen <= 65535:
		if op != txscript.OP_PUSHDATA2 {
			return scriptError(ErrMinimalData, fmt.Sprintf(
				"data push of %d bytes encoded with opcode 0x%02x instead of OP_PUSHDATA2",
				dataLen, op))
		}
	}
	return nil
}

// executeOpcode performs execution on the passed opcode
func (e *Engine) executeOpcode(op byte, data []byte) error {
	if isDisabled(op) {
		return scriptError(ErrDisabledOpcode, fmt.Sprintf(
			"attempt to execute disabled opcode %s", opcodeName(op)))
	}

	if !isPushOp(op) {
		e.stats.ExecutedOps++
		if e.limits.MaxOps > 0 && e.stats.ExecutedOps > e.limits.MaxOps {
			return scriptError(ErrTooManyOperations, fmt.Sprintf(
				"exceeded max operation limit of %d", e.limits.MaxOps))
		}
	}

	if len(data) > e.limits.MaxElementSize {
		return scriptError(ErrElementTooBig, fmt.Sprintf(
			"element size %d exceeds max allowed size %d",
			len(data), e.limits.MaxElementSize))
	}

	if !e.isBranchExecuting() && !isConditional(op) {
		return nil
	}

	if e.limits.MinimalData && e.isBranchExecuting() && op <= txscript.OP_PUSHDATA4 {
		if err := checkMinimalDataPush(op, data); err != nil {
			return err
		}
	}

	fn, ok := opcodeTable[op]
	if !ok {
		return scriptError(ErrReservedOpcode, fmt.Sprintf(
			"attempt to execute reserved opcode %s", opcodeName(op)))
	}
	return fn(e, op, data)
}

// Execute runs every opcode of the script. It returns nil only when the
// script finished with a true value on top of the stack.
func (e *Engine) Execute() error {
	if e.done {
		return scriptError(ErrInternal, "engine already executed")
	}
	e.done = true

	tok := txscript.MakeScriptTokenizer(0, e.script)
	for tok.Next() {
		op := tok.Opcode()
		if e.log.GetLevel() <= zerolog.TraceLevel {
			e.log.Trace().
				Int32("offset", tok.ByteIndex()).
				Str("op", opcodeName(op)).
				Int32("depth", e.dstack.Depth()).
				Msg("stepping")
		}

		if err := e.executeOpcode(op, tok.Data()); err != nil {
			return err
		}

		depth := int(e.dstack.Depth() + e.astack.Depth())
		if depth > e.stats.MaxStackDepth {
			e.stats.MaxStackDepth = depth
		}
		if depth > e.limits.MaxStackSize {
			return scriptError(ErrStackOverflow, fmt.Sprintf(
				"combined stack size %d > max allowed %d", depth, e.limits.MaxStackSize))
		}
	}
	if err := tok.Err(); err != nil {
		return scriptError(ErrMalformedPush, err.Error())
	}

	if len(e.condStack) != 0 {
		return scriptError(ErrUnbalancedConditional,
			"end of script reached in conditional execution")
	}

	if e.dstack.Depth() < 1 {
		return scriptError(ErrEmptyStack,
			"stack empty at end of script execution")
	}
	top, _ := e.dstack.PeekByteArray(0)
	if !asBool(top) {
		e.log.Debug().Str("stack", e.dstack.String()).Msg("script evaluated to false")
		return scriptError(ErrEvalFalse,
			"false stack entry at end of script execution")
	}
	return nil
}

// Stack returns the main stack, bottom first
func (e *Engine) Stack() [][]byte {
	return e.dstack.Items()
}

// AltStack returns the alt stack, bottom first
func (e *Engine) AltStack() [][]byte {
	return e.astack.Items()
}

// Stats returns the dynamic execution metrics
func (e *Engine) Stats() ExecStats {
	return e.stats
}

// ExecResult is the outcome of running a script
type ExecResult struct {
	Success    bool
	Err        error
	FinalStack [][]byte
	Stats      ExecStats
}

// Execute runs the script under the given limits and reports the outcome
func Execute(s Script, limits Limits, opts ...EngineOption) ExecResult {
	e, err := NewEngine(s, limits, opts...)
	if err != nil {
		return ExecResult{Err: err}
	}
	err = e.Execute()
	return ExecResult{
		Success:    err == nil,
		Err:        err,
		FinalStack: e.Stack(),
		Stats:      e.Stats(),
	}
}
