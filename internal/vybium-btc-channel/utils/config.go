package utils

import (
	"fmt"

	"github.com/vybium/vybium-btc-channel/internal/vybium-btc-channel/script"
)

// Config represents the platform limits and transcript parameters used when
// generating and executing channel fragments
type Config struct {
	// Platform limits
	MaxScriptSize  int  // 0 means unbounded (tapscript)
	MaxElementSize int  // Max bytes per stack item
	MaxStackSize   int  // Max combined main + alt stack items
	MaxOps         int  // Max executed non-push opcodes, 0 means unbounded
	MinimalData    bool // Enforce minimal pushes, numbers and IF arguments

	// Transcript parameters
	QueryBits    int    // Bits kept per drawn query index
	HashFunction string // Only "sha256" is supported by the script side
}

// DefaultConfig returns the tapscript limits with 15-bit queries
func DefaultConfig() *Config {
	limits := script.DefaultLimits()
	return &Config{
		MaxScriptSize:  limits.MaxScriptSize,
		MaxElementSize: limits.MaxElementSize,
		MaxStackSize:   limits.MaxStackSize,
		MaxOps:         limits.MaxOps,
		MinimalData:    limits.MinimalData,
		QueryBits:      15,
		HashFunction:   "sha256",
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.MaxScriptSize < 0 {
		return fmt.Errorf("max script size must be non-negative")
	}

	// Absorbing concatenates two digests into one element
	if c.MaxElementSize < 64 {
		return fmt.Errorf("max element size must be at least 64 bytes, got %d", c.MaxElementSize)
	}

	if c.MaxStackSize <= 0 {
		return fmt.Errorf("max stack size must be positive")
	}

	if c.MaxOps < 0 {
		return fmt.Errorf("max ops must be non-negative")
	}

	if c.QueryBits < 1 || c.QueryBits > 31 {
		return fmt.Errorf("query bits must be in [1, 31], got %d", c.QueryBits)
	}

	if c.HashFunction != "sha256" {
		return fmt.Errorf("hash function must be 'sha256', got '%s'", c.HashFunction)
	}

	return nil
}

// Limits returns the engine limits described by the configuration
func (c *Config) Limits() script.Limits {
	return script.Limits{
		MaxScriptSize:  c.MaxScriptSize,
		MaxElementSize: c.MaxElementSize,
		MaxStackSize:   c.MaxStackSize,
		MaxOps:         c.MaxOps,
		MinimalData:    c.MinimalData,
	}
}

// WithMaxScriptSize sets the script size ceiling
func (c *Config) WithMaxScriptSize(size int) *Config {
	c.MaxScriptSize = size
	return c
}

// WithMaxStackSize sets the stack item ceiling
func (c *Config) WithMaxStackSize(size int) *Config {
	c.MaxStackSize = size
	return c
}

// WithMaxOps sets the executed op ceiling
func (c *Config) WithMaxOps(ops int) *Config {
	c.MaxOps = ops
	return c
}

// WithQueryBits sets the number of bits kept per query index
func (c *Config) WithQueryBits(bits int) *Config {
	c.QueryBits = bits
	return c
}

// WithDomainSize sets the query bits from a power-of-two domain size
func (c *Config) WithDomainSize(size int) *Config {
	c.QueryBits = Log2(size)
	return c
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
