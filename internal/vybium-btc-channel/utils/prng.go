package utils

import (
	"encoding/binary"

	"golang.org/x/crypto/chacha20"

	"github.com/vybium/vybium-btc-channel/internal/vybium-btc-channel/core"
)

// PRNG is a deterministic ChaCha20 keystream seeded from a 64-bit value.
// It is used to derive reproducible digests and field elements for tests
// and for the CLI.
type PRNG struct {
	cipher *chacha20.Cipher
}

// NewPRNG creates a generator whose stream depends only on seed
func NewPRNG(seed uint64) *PRNG {
	key := make([]byte, chacha20.KeySize)
	binary.LittleEndian.PutUint64(key, seed)
	nonce := make([]byte, chacha20.NonceSize)

	c, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		// Key and nonce sizes are fixed above
		panic(err)
	}
	return &PRNG{cipher: c}
}

// Read fills b with keystream bytes
func (p *PRNG) Read(b []byte) (int, error) {
	for i := range b {
		b[i] = 0
	}
	p.cipher.XORKeyStream(b, b)
	return len(b), nil
}

// Uint64 returns the next 64 bits of the stream
func (p *PRNG) Uint64() uint64 {
	var buf [8]byte
	p.Read(buf[:])
	return binary.LittleEndian.Uint64(buf[:])
}

// Digest returns 32 fresh bytes
func (p *PRNG) Digest() core.Digest {
	var d core.Digest
	p.Read(d[:])
	return d
}

// M31 returns a field element reduced from 64 random bits
func (p *PRNG) M31() core.M31 {
	return core.ReduceU64(p.Uint64())
}

// QM31 returns an extension element with independent coordinates
func (p *PRNG) QM31() core.QM31 {
	return core.FromM31(p.M31(), p.M31(), p.M31(), p.M31())
}
