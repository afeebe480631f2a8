package vybiumbtcchannel

import (
	"github.com/vybium/vybium-btc-channel/internal/vybium-btc-channel/channel"
	"github.com/vybium/vybium-btc-channel/internal/vybium-btc-channel/core"
	"github.com/vybium/vybium-btc-channel/internal/vybium-btc-channel/report"
	"github.com/vybium/vybium-btc-channel/internal/vybium-btc-channel/script"
	"github.com/vybium/vybium-btc-channel/internal/vybium-btc-channel/utils"
)

// Digest is the 32-byte channel state
type Digest = core.Digest

// M31 is an element of the base field 2^31 - 1
type M31 = core.M31

// QM31 is an element of the degree-4 extension field
type QM31 = core.QM31

// DrawHints are the values a fragment needs to re-derive a draw
type DrawHints = channel.DrawHints

// Channel is the host-side transcript. Use one per proof.
type Channel = channel.Channel

// Script is an assembled script fragment
type Script = script.Script

// Config holds the platform limits and transcript parameters
type Config = utils.Config

// FragmentStat is the static cost of one fragment
type FragmentStat = report.FragmentStat

// QueryCount is the number of indices drawn by SqueezeIndices
const QueryCount = channel.QueryCount

// NewChannel creates a transcript seeded with the given digest
func NewChannel(initial Digest) *Channel {
	return channel.NewChannel(initial)
}

// DefaultConfig returns the tapscript limits with 15-bit queries
func DefaultConfig() *Config {
	return utils.DefaultConfig()
}

// NewQM31 builds an extension element from its coordinates in
// construction order
func NewQM31(c0, c1, c2, c3 uint32) QM31 {
	return core.FromM31(core.NewM31(c0), core.NewM31(c1), core.NewM31(c2), core.NewM31(c3))
}

// ParseDigest parses a hex-encoded digest
func ParseDigest(s string) (Digest, error) {
	d, err := core.DigestFromHex(s)
	if err != nil {
		return Digest{}, newError(ErrInvalidInput, "invalid digest", err)
	}
	return d, nil
}

// Fragments measures every fragment under the configuration
func Fragments(config *Config) ([]FragmentStat, error) {
	if err := config.Validate(); err != nil {
		return nil, newError(ErrInvalidConfig, "invalid config", err)
	}
	stats, err := report.Fragments(config)
	if err != nil {
		return nil, newError(ErrScriptBuild, "failed to measure fragments", err)
	}
	return stats, nil
}
