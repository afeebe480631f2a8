package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DigestSize is the length of a channel digest
const DigestSize = sha256.Size

// Digest is the 32-byte channel state, always a SHA-256 output
type Digest [DigestSize]byte

// DigestFromBytes copies a 32-byte slice into a Digest
func DigestFromBytes(b []byte) (Digest, error) {
	var d Digest
	if len(b) != DigestSize {
		return d, fmt.Errorf("digest must be %d bytes, got %d", DigestSize, len(b))
	}
	copy(d[:], b)
	return d, nil
}

// DigestFromHex parses a hex-encoded digest
func DigestFromHex(s string) (Digest, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Digest{}, fmt.Errorf("invalid digest hex: %w", err)
	}
	return DigestFromBytes(b)
}

// Sha256 hashes the concatenation of the given byte strings
func Sha256(parts ...[]byte) Digest {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// Word returns the i-th 4-byte window of the digest
func (d Digest) Word(i int) [4]byte {
	var w [4]byte
	copy(w[:], d[4*i:4*i+4])
	return w
}

// Hex returns the hex encoding
func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

// String implements fmt.Stringer
func (d Digest) String() string {
	return d.Hex()
}
