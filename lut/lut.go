// Package lut builds the move-right row tables. A row is 16 bits: four
// exponent cells with cell 0 in the low nibble, and "right" means toward the
// high nibble. Every other direction reuses these tables after a grid
// transform.
package lut

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	NumRows = 1 << 16
	// maxExponent is the largest exponent a cell can hold.
	maxExponent = 15
)

// Tables holds the same row mapping at two widths. Right32 exists for
// gather-style lookups that want 32-bit entries.
type Tables struct {
	Right16 [NumRows]uint16
	Right32 [NumRows]uint32
}

var (
	global     *Tables
	globalOnce sync.Once
)

// Get returns the process-wide tables, building them on first use. The result
// must not be modified.
func Get() *Tables {
	globalOnce.Do(func() {
		ts := time.Now()
		global = Build()
		log.Debug().Dur("elapsed", time.Since(ts)).Int("rows", NumRows).Msg("built-move-tables")
	})
	return global
}

// Build returns a freshly computed set of tables.
func Build() *Tables {
	t := &Tables{}
	for r := 0; r < NumRows; r++ {
		v := CollapseRow(uint16(r))
		t.Right16[r] = v
		t.Right32[r] = uint32(v)
	}
	return t
}

// CollapseRow slides a single row right, merging each equal pair at most
// once. A pair of maximal cells stays at the maximum, since the cell cannot
// hold a larger exponent.
func CollapseRow(row uint16) uint16 {
	tt := [4]uint8{
		uint8(row & 0xf),
		uint8(row >> 4 & 0xf),
		uint8(row >> 8 & 0xf),
		uint8(row >> 12),
	}
	compact := func() {
		for i := 2; i >= 0; i-- {
			if tt[i+1] == 0 {
				tt[i+1] = tt[i]
				tt[i] = 0
			}
		}
	}

	compact()
	compact()
	compact()
	for i := 2; i >= 0; i-- {
		if tt[i] != 0 && tt[i] == tt[i+1] {
			if tt[i] < maxExponent {
				tt[i+1] = tt[i] + 1
			}
			tt[i] = 0
		}
	}
	compact()
	compact()

	return uint16(tt[0]) | uint16(tt[1])<<4 | uint16(tt[2])<<8 | uint16(tt[3])<<12
}

// MoveRight slides all four rows of x right.
func (t *Tables) MoveRight(x uint64) uint64 {
	return uint64(t.Right16[x&0xffff]) |
		uint64(t.Right16[x>>16&0xffff])<<16 |
		uint64(t.Right16[x>>32&0xffff])<<32 |
		uint64(t.Right16[x>>48])<<48
}

// MoveRight32 is MoveRight through the 32-bit table.
func (t *Tables) MoveRight32(x uint64) uint64 {
	return uint64(t.Right32[x&0xffff]) |
		uint64(t.Right32[x>>16&0xffff])<<16 |
		uint64(t.Right32[x>>32&0xffff])<<32 |
		uint64(t.Right32[x>>48])<<48
}
