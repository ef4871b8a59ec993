// Package rng is the deterministic random source of a game session.
//
// The source counts every draw so that a session can be persisted as
// (seed, draws) and restored on another device at the same position.
package rng

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

const streamSalt = 0x9E3779B97F4A7C15

type Source struct {
	seed  int64
	draws uint64
	pcg   *rand.PCG
}

func New(seed int64) *Source {
	return &Source{
		seed: seed,
		pcg:  rand.NewPCG(uint64(seed), uint64(seed)^streamSalt),
	}
}

// Restore rebuilds a source and fast-forwards it past draws values.
func Restore(seed int64, draws uint64) *Source {
	src := New(seed)
	for range draws {
		src.Uint64()
	}

	return src
}

// NewSeed generates a fresh seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

func (that *Source) Seed() int64 {
	return that.seed
}

func (that *Source) Draws() uint64 {
	return that.draws
}

func (that *Source) Uint64() uint64 {
	that.draws++

	return that.pcg.Uint64()
}

// Float64 returns a value in [0, 1) consuming exactly one draw.
func (that *Source) Float64() float64 {
	return float64(that.Uint64()<<11>>11) / (1 << 53)
}

// IntN returns a value in [0, n) consuming exactly one draw. It panics if n <= 0.
func (that *Source) IntN(n int) int {
	if n <= 0 {
		panic("rng: invalid argument to IntN")
	}

	i := int(that.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}

	return i
}

// Chance reports whether a roll lands below p.
func (that *Source) Chance(p float64) bool {
	return that.Float64() < p
}
