package vybiumbtcchannel

import (
	"errors"

	"github.com/btcsuite/btcd/txscript"
	"github.com/rs/zerolog"

	"github.com/vybium/vybium-btc-channel/internal/vybium-btc-channel/channel"
	"github.com/vybium/vybium-btc-channel/internal/vybium-btc-channel/script"
)

// Result is the outcome of running one fragment
type Result struct {
	// Accepted is the only thing the fragment itself reports
	Accepted bool

	// Reason is the interpreter diagnostic when the fragment rejected
	Reason error

	// ScriptSize is the size of the whole assembled script
	ScriptSize int

	// ExecutedOps and MaxStackDepth are measured during the run
	ExecutedOps   int
	MaxStackDepth int
}

// Err returns nil for an accepted run and an ErrVerificationFailed error
// otherwise
func (r *Result) Err() error {
	if r.Accepted {
		return nil
	}
	return newError(ErrVerificationFailed, "fragment rejected its inputs", r.Reason)
}

// Verifier runs channel fragments against host-side expectations. A
// Verifier holds no transcript state and may be shared.
type Verifier struct {
	config *Config
	log    zerolog.Logger
}

// VerifierOption configures a Verifier
type VerifierOption func(*Verifier)

// WithLogger sets the logger used for per-run diagnostics
func WithLogger(l zerolog.Logger) VerifierOption {
	return func(v *Verifier) {
		v.log = l
	}
}

// NewVerifier creates a verifier for the given configuration
func NewVerifier(config *Config, opts ...VerifierOption) (*Verifier, error) {
	if config == nil {
		return nil, newError(ErrInvalidConfig, "config is nil", nil)
	}
	if err := config.Validate(); err != nil {
		return nil, newError(ErrInvalidConfig, "invalid config", err)
	}

	v := &Verifier{
		config: config.Clone(),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Verify assembles hint, inputs, fragment and a check of the expected
// outputs into one script and runs it. Inputs and outputs are listed
// bottom first. The fragment must leave exactly the expected items.
//
// A rejected fragment is not an error: it is reported through
// Result.Accepted. Errors are returned for malformed hints and scripts.
func (v *Verifier) Verify(hint *DrawHints, inputs [][]byte, fragment Script, expected [][]byte) (*Result, error) {
	var parts []script.Script
	if hint != nil {
		push, err := channel.PushDrawHint(*hint)
		if err != nil {
			if errors.Is(err, channel.ErrHintShape) {
				return nil, newError(ErrInvalidHint, "hint does not match its fragment", err)
			}
			return nil, newError(ErrScriptBuild, "failed to push hint", err)
		}
		parts = append(parts, push)
	}

	in := script.NewBuilder()
	for _, item := range inputs {
		in.AddBytes(item)
	}
	check := script.NewBuilder()
	for i := len(expected) - 1; i >= 0; i-- {
		check.AddBytes(expected[i]).AddOp(txscript.OP_EQUALVERIFY)
	}
	check.AddOp(txscript.OP_DEPTH, txscript.OP_NOT)

	inScript, err := in.Script()
	if err != nil {
		return nil, newError(ErrScriptBuild, "failed to push inputs", err)
	}
	checkScript, err := check.Script()
	if err != nil {
		return nil, newError(ErrScriptBuild, "failed to build output check", err)
	}
	parts = append(parts, inScript, fragment, checkScript)
	full := script.Concat(parts...)

	res := script.Execute(full, v.config.Limits())
	result := &Result{
		Accepted:      res.Success,
		Reason:        res.Err,
		ScriptSize:    full.Len(),
		ExecutedOps:   res.Stats.ExecutedOps,
		MaxStackDepth: res.Stats.MaxStackDepth,
	}

	ev := v.log.Debug()
	if !res.Success {
		ev = v.log.Warn().Err(res.Err)
	}
	ev.Bool("accepted", result.Accepted).
		Int("bytes", result.ScriptSize).
		Int("ops", result.ExecutedOps).
		Int("max_depth", result.MaxStackDepth).
		Msg("fragment executed")
	return result, nil
}

// AbsorbDigest checks the absorb-digest fragment for x against the
// channel state before the absorb
func (v *Verifier) AbsorbDigest(before, x Digest) (*Result, error) {
	ch := channel.NewChannel(before)
	ch.AbsorbDigest(x)
	after := ch.Digest()
	return v.Verify(nil, [][]byte{x[:], before[:]}, channel.AbsorbDigestGadget(), [][]byte{after[:]})
}

// AbsorbElement checks the absorb-element fragment for x
func (v *Verifier) AbsorbElement(before Digest, x QM31) (*Result, error) {
	ch := channel.NewChannel(before)
	ch.AbsorbElement(x)
	after := ch.Digest()

	inputs := make([][]byte, 0, 5)
	for _, c := range x.PushOrder() {
		inputs = append(inputs, script.Num(c.Uint32()).Bytes())
	}
	inputs = append(inputs, before[:])
	return v.Verify(nil, inputs, channel.AbsorbElementGadget(), [][]byte{after[:]})
}

// SqueezeElement checks that the squeeze-element fragment, fed hint,
// reproduces want and the next digest
func (v *Verifier) SqueezeElement(before Digest, hint DrawHints, want QM31, next Digest) (*Result, error) {
	if hint.N() != 4 {
		return nil, newError(ErrInvalidHint, "squeeze element takes a 4-word hint", channel.ErrHintShape)
	}

	expected := [][]byte{next[:]}
	for _, c := range want.PushOrder() {
		expected = append(expected, script.Num(c.Uint32()).Bytes())
	}
	return v.Verify(&hint, [][]byte{before[:]}, channel.SqueezeElementGadget(), expected)
}

// SqueezeIndices checks that the squeeze-indices fragment, fed hint,
// reproduces want and the next digest. The bit width comes from the
// configuration.
func (v *Verifier) SqueezeIndices(before Digest, hint DrawHints, want [QueryCount]uint32, next Digest) (*Result, error) {
	if hint.N() != QueryCount {
		return nil, newError(ErrInvalidHint, "squeeze indices takes a 5-word hint", channel.ErrHintShape)
	}
	for _, idx := range want {
		if uint64(idx) >= uint64(1)<<uint(v.config.QueryBits) {
			return nil, newError(ErrInvalidInput, "index does not fit the query bits", nil)
		}
	}

	gadget, err := channel.SqueezeIndicesGadget(v.config.QueryBits)
	if err != nil {
		return nil, newError(ErrScriptBuild, "failed to build squeeze indices", err)
	}
	expected := [][]byte{next[:]}
	for _, idx := range want {
		expected = append(expected, script.Num(idx).Bytes())
	}
	return v.Verify(&hint, [][]byte{before[:]}, gadget, expected)
}
