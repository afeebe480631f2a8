package channel

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/vybium/vybium-btc-channel/internal/vybium-btc-channel/core"
	"github.com/vybium/vybium-btc-channel/internal/vybium-btc-channel/utils"
)

// QueryCount is the number of query indices drawn at once
const QueryCount = 5

// Channel is the host-side Fiat-Shamir transcript. It holds a single digest
// and is owned by one proof verification; it is not safe for concurrent use.
type Channel struct {
	digest core.Digest
	log    []string
}

// NewChannel creates a channel seeded with the given digest
func NewChannel(initial core.Digest) *Channel {
	return &Channel{
		digest: initial,
		log:    make([]string, 0, 16),
	}
}

// Digest returns the current channel state
func (c *Channel) Digest() core.Digest {
	return c.digest
}

// AbsorbDigest mixes a commitment: digest <- SHA256(x || digest)
func (c *Channel) AbsorbDigest(x core.Digest) {
	c.log = append(c.log, fmt.Sprintf("absorb:%s", x.Hex()))
	c.digest = core.Sha256(x[:], c.digest[:])
}

// AbsorbElement mixes a QM31 element in its canonical 16-byte form:
// digest <- SHA256(bytes(x) || digest)
func (c *Channel) AbsorbElement(x core.QM31) {
	b := x.Bytes()
	c.log = append(c.log, fmt.Sprintf("absorb:%s", hex.EncodeToString(b[:])))
	c.digest = core.Sha256(b[:], c.digest[:])
}

// AbsorbElements absorbs each element in order
func (c *Channel) AbsorbElements(xs []core.QM31) {
	for _, x := range xs {
		c.AbsorbElement(x)
	}
}

// squeeze advances the state and returns the bytes to draw from:
// h = SHA256(digest), digest <- SHA256(h || 0x00)
func (c *Channel) squeeze() core.Digest {
	h := core.Sha256(c.digest[:])
	c.digest = core.Sha256(h[:], []byte{0x00})
	return h
}

// SqueezeM31s draws n base elements (1 <= n <= 8) and their hints
func (c *Channel) SqueezeM31s(n int) ([]core.M31, DrawHints, error) {
	if n < 1 || n > MaxDrawWords {
		return nil, DrawHints{}, fmt.Errorf("%w: cannot draw %d words from a digest", ErrHintShape, n)
	}
	h := c.squeeze()
	values, hints, err := GenerateHints(h, n)
	if err != nil {
		return nil, DrawHints{}, err
	}
	c.log = append(c.log, fmt.Sprintf("squeeze%d:%s", n, h.Hex()))
	return values, hints, nil
}

// SqueezeElement draws a QM31 element from the first four words
func (c *Channel) SqueezeElement() (core.QM31, DrawHints) {
	values, hints, err := c.SqueezeM31s(4)
	if err != nil {
		// n = 4 is always a valid shape
		panic(err)
	}
	return core.FromM31(values[0], values[1], values[2], values[3]), hints
}

// SqueezeIndices draws QueryCount indices, each trimmed to its low bits
func (c *Channel) SqueezeIndices(bits int) ([QueryCount]uint32, DrawHints, error) {
	var out [QueryCount]uint32
	if bits < 1 || bits > 31 {
		return out, DrawHints{}, fmt.Errorf("query bits must be in [1, 31], got %d", bits)
	}
	values, hints, err := c.SqueezeM31s(QueryCount)
	if err != nil {
		return out, DrawHints{}, err
	}
	for i, v := range values {
		out[i] = utils.TrimM31(v.Uint32(), bits)
	}
	return out, hints, nil
}

// Transcript returns the recorded operations
func (c *Channel) Transcript() []string {
	return append([]string(nil), c.log...)
}

// String returns the recorded operations on one line
func (c *Channel) String() string {
	return strings.Join(c.log, " ")
}
