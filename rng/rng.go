// Package rng provides the random sources used to spawn tiles. Both types
// satisfy board.Source; neither is safe for concurrent use, so give each
// goroutine its own.
package rng

import (
	"encoding/binary"

	"lukechampine.com/frand"
)

// LCG is a tiny linear congruential generator. Games played with the same
// seed replay exactly.
type LCG struct {
	state uint64
}

// The multiplier is 1 mod 4 and the increment odd, so the state walks the
// full 2^64 cycle.
const (
	lcgMul = 120381821
	lcgInc = 4018501
)

func NewLCG(seed uint64) *LCG {
	return &LCG{state: seed}
}

func (l *LCG) Next() uint32 {
	l.state = l.state*lcgMul + lcgInc
	return uint32(l.state >> 19)
}

// Skip discards n values.
func (l *LCG) Skip(n int) {
	for i := 0; i < n; i++ {
		l.Next()
	}
}

// State returns the internal state; NewLCG(l.State()) continues the same
// stream.
func (l *LCG) State() uint64 {
	return l.state
}

// Frand draws from a ChaCha-based generator.
type Frand struct {
	r *frand.RNG
}

// NewFrand returns a generator seeded from the OS entropy source.
func NewFrand() *Frand {
	return &Frand{r: frand.New()}
}

// NewFrandSeeded returns a deterministic generator for seed.
func NewFrandSeeded(seed uint64) *Frand {
	key := make([]byte, 32)
	binary.LittleEndian.PutUint64(key, seed)
	return &Frand{r: frand.NewCustom(key, 1024, 12)}
}

func (f *Frand) Next() uint32 {
	return uint32(f.r.Uint64n(1 << 32))
}

func (f *Frand) Skip(n int) {
	for i := 0; i < n; i++ {
		f.Next()
	}
}

// Kind names a source type for configuration.
type Kind string

const (
	KindLCG   Kind = "lcg"
	KindFrand Kind = "frand"
)

// Source is what the constructors here return.
type Source interface {
	Next() uint32
	Skip(n int)
}

// New builds a source of the given kind. An unknown kind falls back to the
// LCG.
func New(kind Kind, seed uint64) Source {
	if kind == KindFrand {
		if seed == 0 {
			return NewFrand()
		}
		return NewFrandSeeded(seed)
	}
	return NewLCG(seed)
}
